package domain

import (
	"net/url"
	"strconv"
)

// DefaultPropertyStatus is the listing status the client always requests (active listings).
const DefaultPropertyStatus = "1"

// Query is the canonical backend query derived from a FilterState.
// Two queries with equal fields other than Page describe the same search.
type Query struct {
	PropertyFor  PropertyFor
	PropertyIn   PropertyIn
	SubType      string
	SearchText   string
	BedroomCount string
	BudgetBand   string
	PriceSort    PriceSort
	Occupancy    string
	LandLike     bool
	City         string
	Page         int
}

// WithPage returns a copy of the query for another page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// Params serialises the query to backend listing parameters.
// Empty optional fields are omitted.
func (q Query) Params() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("property_for", string(q.PropertyFor))
	v.Set("property_in", string(q.PropertyIn))
	v.Set("sub_type", q.SubType)
	v.Set("property_status", DefaultPropertyStatus)

	setIf(v, "search", q.SearchText)
	setIf(v, "bedrooms", q.BedroomCount)
	if q.PropertyFor == PropertyForSell {
		setIf(v, "property_cost", q.BudgetBand)
	}
	setIf(v, "priceFilter", q.PriceSort.param())
	if q.LandLike {
		setIf(v, "possession_status", q.Occupancy)
	} else {
		setIf(v, "occupancy", q.Occupancy)
	}
	setIf(v, "city_id", q.City)
	return v
}

// Key is the canonical cache key: the serialised parameters at page 1.
// url.Values.Encode sorts keys, so the key is independent of field order.
func (q Query) Key() string {
	return q.WithPage(1).Params().Encode()
}

func (s PriceSort) param() string {
	switch s {
	case SortPriceAsc:
		return "low-to-high"
	case SortPriceDesc:
		return "high-to-low"
	case SortNewest:
		return "newest"
	default:
		return ""
	}
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
