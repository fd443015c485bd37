package driving

import (
	"context"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// DiscoveryService drives a property discovery session.
// All mutations are reflected in the read model returned by State.
type DiscoveryService interface {
	// Start restores the persisted city, loads favourites and fetches page 1.
	Start(ctx context.Context) error

	// ApplyFilter merges a partial filter update and refetches page 1 when the query changed.
	ApplyFilter(ctx context.Context, update domain.FilterUpdate) error

	// ClearFilters resets every filter except the city and refetches.
	ClearFilters(ctx context.Context) error

	// SetCity changes and persists the active city.
	SetCity(ctx context.Context, city string) error

	// Search submits free text as part of the query.
	Search(ctx context.Context, text string) error

	// Suggest returns location autocomplete entries for the active city.
	Suggest(ctx context.Context, text string) ([]domain.Suggestion, error)

	// LoadMore fetches the next page. It is a no-op when no more pages
	// exist or a fetch is already running for the current query.
	LoadMore(ctx context.Context) error

	// Refresh refetches page 1 of the current query.
	Refresh(ctx context.Context) error

	// ToggleFavorite flips the liked state of a property.
	ToggleFavorite(ctx context.Context, property domain.Property) error

	// ClearCache drops cached first pages.
	ClearCache()

	// State returns a snapshot of the read model.
	State() domain.DiscoveryState

	// Subscribe registers fn to receive every read model change.
	// The returned function unregisters it.
	Subscribe(fn func(domain.DiscoveryState)) func()
}

// SuggestionService provides debounced location autocomplete.
type SuggestionService interface {
	// Query returns suggestions for text in city.
	// Calls superseded by a newer call return domain.ErrSuperseded.
	Query(ctx context.Context, city, text string) ([]domain.Suggestion, error)

	// Remember records an explicitly picked suggestion.
	Remember(ctx context.Context, s domain.Suggestion) error

	// Recent returns the persisted recent suggestions.
	Recent(ctx context.Context) domain.RecentSuggestions

	// ClearRecent empties the recent suggestions.
	ClearRecent(ctx context.Context) error
}

// FavoriteService keeps the liked set in step with the remote favourites list.
type FavoriteService interface {
	// Toggle flips membership optimistically and reconciles with the backend.
	Toggle(ctx context.Context, propertyID, propertyName string) error

	// Sync replaces the liked set with the authoritative remote list.
	Sync(ctx context.Context) error

	// Liked returns a snapshot of the liked set.
	Liked() domain.FavoriteSet

	// Subscribe registers fn to receive every liked set change.
	Subscribe(fn func(domain.FavoriteSet)) func()
}

// CityService lists supported cities.
type CityService interface {
	// List returns cached cities, fetching them once if absent.
	List(ctx context.Context) ([]domain.City, error)

	// Refresh refetches and re-caches the city list.
	Refresh(ctx context.Context) ([]domain.City, error)

	// Current returns the persisted active city, or empty.
	Current(ctx context.Context) string

	// SetCurrent persists the active city.
	SetCurrent(ctx context.Context, city string) error

	// Forget drops the cached city list. The active city is kept.
	Forget(ctx context.Context) error
}

// PhotoService caches cover photo URLs per property.
type PhotoService interface {
	// Resolve returns the cached cover URL for a property, caching it on first use.
	Resolve(ctx context.Context, property domain.Property) string

	// Clear drops every cached photo URL.
	Clear(ctx context.Context) (int, error)
}
