package driven

import (
	"context"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// ListingClient fetches pages of property listings from the marketplace backend.
type ListingClient interface {
	// FetchListings returns one page of listings for the query.
	// Failures wrap domain.ErrNetwork.
	FetchListings(ctx context.Context, q domain.Query) (domain.ListingPage, error)
}

// LocationClient looks up localities for autocomplete.
type LocationClient interface {
	// SearchLocations returns localities in city matching text.
	SearchLocations(ctx context.Context, city, text string) ([]domain.Suggestion, error)
}

// FavoritesClient reads and mutates the remote favourites list.
type FavoritesClient interface {
	// ListFavorites returns the authoritative favourites for a user.
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)

	// ToggleFavorite adds the property if absent and removes it otherwise.
	ToggleFavorite(ctx context.Context, userID string, fav domain.Favorite) error
}

// CityClient lists the cities the marketplace operates in.
type CityClient interface {
	// ListCities returns every supported city.
	ListCities(ctx context.Context) ([]domain.City, error)
}

// MarketplaceClient is the full backend surface.
type MarketplaceClient interface {
	ListingClient
	LocationClient
	FavoritesClient
	CityClient
}
