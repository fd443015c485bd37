package domain

// FetchStatus is the state of the listing fetcher for the active query.
type FetchStatus string

// Fetch states.
const (
	FetchIdle    FetchStatus = "idle"
	FetchLoading FetchStatus = "loading"
	FetchLoaded  FetchStatus = "loaded"
	FetchFailed  FetchStatus = "failed"
)

// PaginationCursor tracks the progress through the pages of one query generation.
type PaginationCursor struct {
	// Page is the last page successfully loaded, 0 before the first load.
	Page int

	// HasMore reports whether another page may exist.
	HasMore bool

	// Results are the accumulated listings in page order.
	Results []Property

	// Generation identifies the query the cursor belongs to.
	Generation uint64
}

// DiscoveryState is the read model exposed to views.
type DiscoveryState struct {
	Results    []Property
	Status     FetchStatus
	Loading    bool
	HasMore    bool
	Err        error
	Filter     FilterState
	Page       int
	Generation uint64
	Liked      FavoriteSet
}

// IsLiked reports whether the property is in the liked set.
func (s DiscoveryState) IsLiked(id string) bool {
	return s.Liked.Contains(id)
}

// IsEmpty reports whether a completed fetch returned nothing.
func (s DiscoveryState) IsEmpty() bool {
	return !s.Loading && s.Err == nil && s.Status == FetchLoaded && len(s.Results) == 0
}
