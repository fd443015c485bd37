package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

func listing(id, name string, price float64) domain.Property {
	return domain.Property{ID: id, Name: name, Price: price, City: "Pune", SubType: "Apartment"}
}

func TestServer_handleSearchListings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns listings for the first page", func(t *testing.T) {
		disc := newDiscovery(
			[]domain.Property{listing("p1", "Lakeview", 7500000)},
			[]domain.Property{listing("p2", "Hill Crest", 9000000)},
		)
		disc.state.Liked = domain.NewFavoriteSet("p1")
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "Baner"})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "p1", output.Listings[0].ID)
		assert.Equal(t, "Lakeview", output.Listings[0].Name)
		assert.Equal(t, domain.FormatPrice(7500000), output.Listings[0].PriceText)
		assert.True(t, output.Listings[0].Liked)
		assert.True(t, output.HasMore)
		assert.Equal(t, 1, output.Page)
		assert.Equal(t, "Baner", disc.State().Filter.SearchText)
	})

	t.Run("loads the requested number of pages", func(t *testing.T) {
		disc := newDiscovery(
			[]domain.Property{listing("p1", "A", 1)},
			[]domain.Property{listing("p2", "B", 2)},
			[]domain.Property{listing("p3", "C", 3)},
		)
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x", Pages: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 2, output.Page)
		assert.True(t, output.HasMore)
	})

	t.Run("stops loading when no more pages", func(t *testing.T) {
		disc := newDiscovery([]domain.Property{listing("p1", "A", 1)})
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x", Pages: 5})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.False(t, output.HasMore)
		assert.Equal(t, 0, disc.loadMores)
	})

	t.Run("unchanged query on an idle session fetches", func(t *testing.T) {
		disc := newDiscovery([]domain.Property{listing("p1", "A", 1)})
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
	})

	t.Run("changed query fetches once", func(t *testing.T) {
		disc := newDiscovery([]domain.Property{listing("p1", "A", 1)})
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "Baner"})

		require.NoError(t, err)
		assert.Equal(t, 0, disc.refreshes)
	})

	t.Run("repeated query starts over from page 1", func(t *testing.T) {
		disc := newDiscovery(
			[]domain.Property{listing("p1", "A", 1)},
			[]domain.Property{listing("p2", "B", 2)},
		)
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x", Pages: 2})
		require.NoError(t, err)
		require.Equal(t, 2, output.Count)

		_, output, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x"})

		require.NoError(t, err)
		assert.Equal(t, 1, disc.refreshes)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 1, output.Page)
	})

	t.Run("repeated query retries after a failure", func(t *testing.T) {
		disc := newDiscovery([]domain.Property{listing("p1", "A", 1)})
		disc.fetchErr = domain.ErrNetwork
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x"})
		require.ErrorIs(t, err, domain.ErrNetwork)

		disc.fetchErr = nil
		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
	})

	t.Run("earlier filters do not leak into the next call", func(t *testing.T) {
		disc := newDiscovery([]domain.Property{listing("p1", "A", 1)})
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{
			Category: "rent", SubType: "Independent Villa", Bedrooms: "2 BHK", Sort: "priceasc",
		})
		require.NoError(t, err)
		f := disc.State().Filter
		assert.Equal(t, domain.CategoryRent, f.Category)
		assert.Equal(t, "Independent Villa", f.SubType)
		assert.Equal(t, "2 BHK", f.BedroomCount)
		assert.Equal(t, domain.SortPriceAsc, f.PriceSort)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{})
		require.NoError(t, err)
		f = disc.State().Filter
		assert.Equal(t, domain.CategoryBuy, f.Category)
		assert.Equal(t, domain.DefaultResidentialSubType, f.SubType)
		assert.Empty(t, f.BedroomCount)
		assert.Equal(t, domain.SortRelevance, f.PriceSort)
	})

	t.Run("city defaults to the active city", func(t *testing.T) {
		disc := newDiscovery()
		disc.state.Filter.City = "Pune"
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x"})

		require.NoError(t, err)
		assert.Equal(t, "Pune", output.City)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Listings)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		disc := newDiscovery()
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Category: "Lease"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, disc.applied)
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		server, err := NewServer(testPorts())
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Sort: "cheapest"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns invalid filter errors", func(t *testing.T) {
		server, err := NewServer(testPorts())
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{SubType: "Castle"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "applying filters")
	})

	t.Run("returns fetch failures", func(t *testing.T) {
		disc := newDiscovery()
		disc.fetchErr = domain.ErrNetwork
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: &mockSuggestionService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchListings(ctx, nil, SearchListingsInput{Text: "x"})

		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestSearchUpdate(t *testing.T) {
	t.Run("plot leaves segment to the category", func(t *testing.T) {
		u, err := searchUpdate(SearchListingsInput{Category: "Plot"})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryPlot, *u.Category)
		assert.Nil(t, u.PropertyIn)
		assert.Equal(t, domain.DefaultLandSubType, *u.SubType)
		assert.Nil(t, u.City)
	})

	t.Run("commercial for rent", func(t *testing.T) {
		u, err := searchUpdate(SearchListingsInput{Category: "commercial", PropertyFor: "rent", SubType: "Office"})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryCommercial, *u.Category)
		assert.Equal(t, domain.PropertyForRent, *u.PropertyFor)
		assert.Equal(t, "Office", *u.SubType)
	})

	t.Run("commercial defaults to sell", func(t *testing.T) {
		u, err := searchUpdate(SearchListingsInput{Category: "Commercial"})
		require.NoError(t, err)
		require.NotNil(t, u.PropertyFor)
		assert.Equal(t, domain.PropertyForSell, *u.PropertyFor)
		assert.Equal(t, domain.DefaultCommercialSubType, *u.SubType)
	})

	t.Run("unknown property_for", func(t *testing.T) {
		_, err := searchUpdate(SearchListingsInput{PropertyFor: "Lease"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleSuggestLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the active city by default", func(t *testing.T) {
		disc := newDiscovery()
		disc.state.Filter.City = "Hyderabad"
		sugs := &mockSuggestionService{suggestions: []domain.Suggestion{{Label: "Kondapur", Value: "Kondapur"}}}
		server, err := NewServer(&Ports{Discovery: disc, Suggestions: sugs})
		require.NoError(t, err)

		_, output, err := server.handleSuggestLocations(ctx, nil, SuggestLocationsInput{Text: "Kon"})

		require.NoError(t, err)
		assert.Equal(t, "Hyderabad", sugs.gotCity)
		assert.Equal(t, "Kon", sugs.gotText)
		require.Len(t, output.Suggestions, 1)
		assert.Equal(t, "Kondapur", output.Suggestions[0].Value)
	})

	t.Run("explicit city wins", func(t *testing.T) {
		sugs := &mockSuggestionService{}
		server, err := NewServer(&Ports{Discovery: newDiscovery(), Suggestions: sugs})
		require.NoError(t, err)

		_, output, err := server.handleSuggestLocations(ctx, nil, SuggestLocationsInput{Text: "And", City: "Mumbai"})

		require.NoError(t, err)
		assert.Equal(t, "Mumbai", sugs.gotCity)
		assert.NotNil(t, output.Suggestions)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		sugs := &mockSuggestionService{err: domain.ErrSuperseded}
		server, err := NewServer(&Ports{Discovery: newDiscovery(), Suggestions: sugs})
		require.NoError(t, err)

		_, _, err = server.handleSuggestLocations(ctx, nil, SuggestLocationsInput{Text: "And"})

		assert.ErrorIs(t, err, domain.ErrSuperseded)
	})
}

func TestServer_handleToggleFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("likes then unlikes", func(t *testing.T) {
		favs := &mockFavoriteService{liked: domain.NewFavoriteSet()}
		ports := testPorts()
		ports.Favorites = favs
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: "p1"})
		require.NoError(t, err)
		assert.True(t, output.Liked)

		_, output, err = server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: "p1"})
		require.NoError(t, err)
		assert.False(t, output.Liked)
		assert.Equal(t, "p1", output.PropertyID)
	})

	t.Run("signed out", func(t *testing.T) {
		ports := testPorts()
		ports.Favorites = &mockFavoriteService{err: domain.ErrUnauthenticated}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: "p1"})

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.Contains(t, err.Error(), "estately auth login")
	})

	t.Run("backend failure", func(t *testing.T) {
		ports := testPorts()
		ports.Favorites = &mockFavoriteService{err: errors.New("boom")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: "p1"})

		assert.EqualError(t, err, "toggling favourite: boom")
	})

	t.Run("missing property id", func(t *testing.T) {
		ports := testPorts()
		ports.Favorites = &mockFavoriteService{}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: " "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no favourite service", func(t *testing.T) {
		server, err := NewServer(testPorts())
		require.NoError(t, err)

		_, _, err = server.handleToggleFavorite(ctx, nil, ToggleFavoriteInput{PropertyID: "p1"})

		assert.ErrorIs(t, err, errFavoritesUnavailable)
	})
}
