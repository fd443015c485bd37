package domain

import "time"

// APISettings holds marketplace backend configuration.
type APISettings struct {
	// BaseURL is the marketplace REST endpoint.
	BaseURL string `validate:"required,url"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `validate:"min=1,max=120"`

	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond int `validate:"min=1,max=100"`
}

// Timeout returns the request timeout as a duration.
func (a APISettings) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SuggestSettings holds location autocomplete configuration.
type SuggestSettings struct {
	// DebounceMS is the quiet period before a suggestion request fires.
	// Below MinDebounceMS a typing burst is no longer coalesced.
	DebounceMS int `validate:"min=50,max=5000"`

	// MinQueryLength is the minimum number of characters that triggers a network lookup.
	MinQueryLength int `validate:"min=1,max=20"`
}

// Debounce returns the quiet period as a duration.
func (s SuggestSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// FavoriteSettings holds favourites synchronisation configuration.
type FavoriteSettings struct {
	// RollbackOnFailure restores the previous liked state when a toggle fails.
	RollbackOnFailure bool
}

// DataSettings holds local storage configuration.
type DataSettings struct {
	// Dir is where the local database lives. Empty means ~/.estately.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	API       APISettings
	Suggest   SuggestSettings
	Favorites FavoriteSettings
	Data      DataSettings
}

// Defaults used when no value is configured.
const (
	DefaultAPIBaseURL        = "https://api.estately.in/v1"
	DefaultTimeoutSeconds    = 15
	DefaultRequestsPerSecond = 5
	DefaultDebounceMS        = 300
	MinDebounceMS            = 50
	DefaultMinQueryLength    = 3
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:           DefaultAPIBaseURL,
			TimeoutSeconds:    DefaultTimeoutSeconds,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Suggest: SuggestSettings{
			DebounceMS:     DefaultDebounceMS,
			MinQueryLength: DefaultMinQueryLength,
		},
		Favorites: FavoriteSettings{
			RollbackOnFailure: true,
		},
	}
}
