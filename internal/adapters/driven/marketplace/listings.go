package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// API paths.
const (
	pathListings  = "/listings"
	pathLocations = "/locations/search"
	pathFavorites = "/favorites"
	pathCities    = "/cities"
)

// listingsResponse is the /listings response format.
type listingsResponse struct {
	Properties  []propertyDTO `json:"properties"`
	CurrentPage flexInt       `json:"current_page"`
	TotalPages  flexInt       `json:"total_pages"`
}

// propertyDTO is a listing as the backend encodes it.
type propertyDTO struct {
	ID          string    `json:"unique_property_id"`
	Name        string    `json:"property_name"`
	PropertyFor string    `json:"property_for"`
	PropertyIn  string    `json:"property_in"`
	SubType     string    `json:"sub_type"`
	Bedrooms    string    `json:"bedrooms"`
	Cost        flexFloat `json:"property_cost"`
	Locality    string    `json:"locality"`
	City        string    `json:"city"`
	Occupancy   string    `json:"occupancy"`
	Possession  string    `json:"possession_status"`
	Images      []string  `json:"image_urls"`
	Image       string    `json:"image"`
	OwnerPhone  string    `json:"mobile"`
	CreatedAt   string    `json:"created_at"`
}

func (p propertyDTO) toDomain() domain.Property {
	photos := p.Images
	if len(photos) == 0 && p.Image != "" {
		photos = []string{p.Image}
	}
	occupancy := p.Occupancy
	if occupancy == "" {
		occupancy = p.Possession
	}
	return domain.Property{
		ID:          p.ID,
		Name:        p.Name,
		PropertyFor: domain.PropertyFor(p.PropertyFor),
		PropertyIn:  domain.PropertyIn(p.PropertyIn),
		SubType:     p.SubType,
		Bedrooms:    p.Bedrooms,
		Price:       float64(p.Cost),
		Locality:    p.Locality,
		City:        p.City,
		Occupancy:   occupancy,
		Photos:      photos,
		OwnerPhone:  p.OwnerPhone,
		PostedAt:    parseTime(p.CreatedAt),
	}
}

// FetchListings returns one page of listings for the query.
func (c *Client) FetchListings(ctx context.Context, q domain.Query) (domain.ListingPage, error) {
	var resp listingsResponse
	if err := c.getJSON(ctx, pathListings, q.Params(), &resp); err != nil {
		return domain.ListingPage{}, fmt.Errorf("fetch listings: %w", err)
	}

	page := domain.ListingPage{
		Properties:  make([]domain.Property, 0, len(resp.Properties)),
		CurrentPage: int(resp.CurrentPage),
		TotalPages:  int(resp.TotalPages),
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = max(q.Page, 1)
	}
	for _, p := range resp.Properties {
		page.Properties = append(page.Properties, p.toDomain())
	}
	return page, nil
}

// SearchLocations returns localities in city matching text.
func (c *Client) SearchLocations(ctx context.Context, city, text string) ([]domain.Suggestion, error) {
	var resp []struct {
		Locality string `json:"locality"`
	}
	query := url.Values{"query": {text}, "city": {city}}
	if err := c.getJSON(ctx, pathLocations, query, &resp); err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}

	out := make([]domain.Suggestion, 0, len(resp))
	for _, r := range resp {
		name := strings.TrimSpace(r.Locality)
		if name == "" {
			continue
		}
		out = append(out, domain.Suggestion{Label: name, Value: name})
	}
	return out, nil
}

// ListCities returns every supported city.
func (c *Client) ListCities(ctx context.Context) ([]domain.City, error) {
	var resp []struct {
		City string `json:"city"`
	}
	if err := c.getJSON(ctx, pathCities, nil, &resp); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	out := make([]domain.City, 0, len(resp))
	for _, r := range resp {
		if r.City != "" {
			out = append(out, domain.City{Name: r.City})
		}
	}
	return out, nil
}

// flexInt decodes a JSON number or numeric string. Whole floats such as
// 3.0 are accepted.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = flexInt(v)
		return nil
	}
	v, err := json.Number(s).Float64()
	if err != nil || v != math.Trunc(v) {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = flexInt(v)
	return nil
}

// flexFloat decodes a JSON number or numeric string. Unparseable values decode as zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num json.Number
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	num = json.Number(strings.ReplaceAll(s, ",", ""))
	v, err := num.Float64()
	if err != nil {
		*f = 0
		return nil //nolint:nilerr // prices like "On request" are valid listings
	}
	*f = flexFloat(v)
	return nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
