package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// maxPages bounds how many pages one search_listings call may load.
const maxPages = 5

// SearchListingsInput is the input schema for the search_listings tool.
type SearchListingsInput struct {
	Text        string `json:"text,omitempty" jsonschema:"locality, project or landmark to search for"`
	City        string `json:"city,omitempty" jsonschema:"city to search in (default: the active city)"`
	Category    string `json:"category,omitempty" jsonschema:"Buy, Rent, Plot or Commercial (default Buy)"`
	PropertyFor string `json:"property_for,omitempty" jsonschema:"Sell or Rent, only for Commercial"`
	SubType     string `json:"sub_type,omitempty" jsonschema:"property sub-type such as Apartment, Villa, Office or Plot"`
	Bedrooms    string `json:"bedrooms,omitempty" jsonschema:"bedroom count such as 2 BHK"`
	Budget      string `json:"budget,omitempty" jsonschema:"budget band such as 50L-75L, only when buying"`
	Occupancy   string `json:"occupancy,omitempty" jsonschema:"occupancy or possession status"`
	Sort        string `json:"sort,omitempty" jsonschema:"Relevance, PriceAsc, PriceDesc or Newest"`
	Pages       int    `json:"pages,omitempty" jsonschema:"number of pages to load (default 1, max 5)"`
}

// SearchListingsOutput is the output schema for the search_listings tool.
type SearchListingsOutput struct {
	Listings []ListingOutput `json:"listings"`
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	HasMore  bool            `json:"has_more"`
	City     string          `json:"city,omitempty"`
}

// ListingOutput represents a single listing.
type ListingOutput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PriceText string  `json:"price_text"`
	SubType   string  `json:"sub_type,omitempty"`
	Bedrooms  string  `json:"bedrooms,omitempty"`
	Occupancy string  `json:"occupancy,omitempty"`
	Locality  string  `json:"locality,omitempty"`
	City      string  `json:"city,omitempty"`
	Liked     bool    `json:"liked"`
}

// SuggestLocationsInput is the input schema for the suggest_locations tool.
type SuggestLocationsInput struct {
	Text string `json:"text" jsonschema:"partial locality name, at least three characters"`
	City string `json:"city,omitempty" jsonschema:"city to search in (default: the active city)"`
}

// SuggestLocationsOutput is the output schema for the suggest_locations tool.
type SuggestLocationsOutput struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// ToggleFavoriteInput is the input schema for the toggle_favorite tool.
type ToggleFavoriteInput struct {
	PropertyID   string `json:"property_id" jsonschema:"id of the listing to like or unlike"`
	PropertyName string `json:"property_name,omitempty" jsonschema:"listing name, stored with the favourite"`
}

// ToggleFavoriteOutput is the output schema for the toggle_favorite tool.
type ToggleFavoriteOutput struct {
	PropertyID string `json:"property_id"`
	Liked      bool   `json:"liked"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_listings",
		Description: "Search property listings to buy or rent with filters",
	}, s.handleSearchListings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_locations",
		Description: "Suggest localities in a city matching partial text",
	}, s.handleSuggestLocations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_favorite",
		Description: "Like or unlike a listing for the signed-in user",
	}, s.handleToggleFavorite)
}

// handleSearchListings handles the search_listings tool invocation.
func (s *Server) handleSearchListings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchListingsInput,
) (*mcp.CallToolResult, SearchListingsOutput, error) {
	update, err := searchUpdate(input)
	if err != nil {
		return nil, SearchListingsOutput{}, err
	}
	pages := min(max(input.Pages, 1), maxPages)

	s.searchMu.Lock()
	defer s.searchMu.Unlock()

	discovery := s.ports.Discovery
	generation := discovery.State().Generation
	if err := discovery.ApplyFilter(ctx, update); err != nil {
		return nil, SearchListingsOutput{}, fmt.Errorf("applying filters: %w", err)
	}
	// An unchanged query starts over from page 1 as well, so a repeated
	// call retries after a failure and returns exactly the pages asked for.
	if discovery.State().Generation == generation {
		if err := discovery.Refresh(ctx); err != nil {
			return nil, SearchListingsOutput{}, fmt.Errorf("fetching listings: %w", err)
		}
	}
	for page := 1; page < pages && discovery.State().HasMore; page++ {
		if err := discovery.LoadMore(ctx); err != nil {
			return nil, SearchListingsOutput{}, fmt.Errorf("loading page %d: %w", page+1, err)
		}
	}

	state := discovery.State()
	if state.Err != nil {
		return nil, SearchListingsOutput{}, fmt.Errorf("fetching listings: %w", state.Err)
	}

	output := SearchListingsOutput{
		Listings: make([]ListingOutput, len(state.Results)),
		Count:    len(state.Results),
		Page:     state.Page,
		HasMore:  state.HasMore,
		City:     state.Filter.City,
	}
	for i := range state.Results {
		p := &state.Results[i]
		output.Listings[i] = ListingOutput{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			PriceText: domain.FormatPrice(p.Price),
			SubType:   p.SubType,
			Bedrooms:  p.Bedrooms,
			Occupancy: p.Occupancy,
			Locality:  p.Locality,
			City:      p.City,
			Liked:     state.IsLiked(p.ID),
		}
	}

	return nil, output, nil
}

// searchUpdate turns tool input into a complete filter update, so that
// filters from an earlier call never leak into this one. The city is the
// exception: it stays at the active city unless given.
func searchUpdate(input SearchListingsInput) (domain.FilterUpdate, error) {
	category := domain.CategoryBuy
	if input.Category != "" {
		c, ok := matchFold(domain.AllCategories(), input.Category)
		if !ok {
			return domain.FilterUpdate{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
		}
		category = c
	}

	sort := domain.SortRelevance
	if input.Sort != "" {
		s, ok := matchFold(
			[]domain.PriceSort{domain.SortRelevance, domain.SortPriceAsc, domain.SortPriceDesc, domain.SortNewest},
			input.Sort,
		)
		if !ok {
			return domain.FilterUpdate{}, fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidInput, input.Sort)
		}
		sort = s
	}

	u := domain.FilterUpdate{
		Category:     &category,
		BedroomCount: &input.Bedrooms,
		Occupancy:    &input.Occupancy,
		PriceSort:    &sort,
		BudgetBand:   &input.Budget,
		SearchText:   &input.Text,
	}
	segment := domain.PropertyInLand
	switch category {
	case domain.CategoryBuy, domain.CategoryRent:
		segment = domain.PropertyInResidential
		u.PropertyIn = &segment
	case domain.CategoryCommercial:
		segment = domain.PropertyInCommercial
		propertyFor := domain.PropertyForSell
		u.PropertyFor = &propertyFor
	case domain.CategoryPlot:
		// Land has no segment.
	}
	subType := domain.DefaultSubType(segment)
	if input.PropertyFor != "" {
		pf, ok := matchFold([]domain.PropertyFor{domain.PropertyForSell, domain.PropertyForRent}, input.PropertyFor)
		if !ok {
			return domain.FilterUpdate{}, fmt.Errorf("%w: unknown property_for %q", domain.ErrInvalidInput, input.PropertyFor)
		}
		u.PropertyFor = &pf
	}
	if input.SubType != "" {
		subType = input.SubType
	}
	u.SubType = &subType
	if input.City != "" {
		u.City = &input.City
	}
	return u, nil
}

// matchFold returns the option equal to s under Unicode case folding.
func matchFold[T ~string](options []T, s string) (T, bool) {
	for _, o := range options {
		if strings.EqualFold(string(o), strings.TrimSpace(s)) {
			return o, true
		}
	}
	var zero T
	return zero, false
}

// handleSuggestLocations handles the suggest_locations tool invocation.
func (s *Server) handleSuggestLocations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestLocationsInput,
) (*mcp.CallToolResult, SuggestLocationsOutput, error) {
	city := input.City
	if city == "" {
		city = s.ports.Discovery.State().Filter.City
	}

	suggestions, err := s.ports.Suggestions.Query(ctx, city, input.Text)
	if err != nil {
		return nil, SuggestLocationsOutput{}, fmt.Errorf("suggesting locations: %w", err)
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	return nil, SuggestLocationsOutput{Suggestions: suggestions}, nil
}

// handleToggleFavorite handles the toggle_favorite tool invocation.
func (s *Server) handleToggleFavorite(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ToggleFavoriteInput,
) (*mcp.CallToolResult, ToggleFavoriteOutput, error) {
	if s.ports.Favorites == nil {
		return nil, ToggleFavoriteOutput{}, errFavoritesUnavailable
	}
	if strings.TrimSpace(input.PropertyID) == "" {
		return nil, ToggleFavoriteOutput{}, fmt.Errorf("%w: property_id is required", domain.ErrInvalidInput)
	}

	if err := s.ports.Favorites.Toggle(ctx, input.PropertyID, input.PropertyName); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, ToggleFavoriteOutput{}, fmt.Errorf("sign in with 'estately auth login' first: %w", err)
		}
		return nil, ToggleFavoriteOutput{}, fmt.Errorf("toggling favourite: %w", err)
	}

	return nil, ToggleFavoriteOutput{
		PropertyID: input.PropertyID,
		Liked:      s.ports.Favorites.Liked().Contains(input.PropertyID),
	}, nil
}
