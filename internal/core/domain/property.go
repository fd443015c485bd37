package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Property is a single listing returned by the marketplace backend.
type Property struct {
	// ID is the backend's unique property identifier.
	ID string `json:"unique_property_id"`

	// Name is the listing title shown to users.
	Name string `json:"property_name"`

	// PropertyFor is Sell or Rent.
	PropertyFor PropertyFor `json:"property_for"`

	// PropertyIn is Residential, Commercial or empty for land.
	PropertyIn PropertyIn `json:"property_in"`

	// SubType is the property sub-type (Apartment, Office, Plot...).
	SubType string `json:"sub_type"`

	// Bedrooms is the BHK label, empty for land and commercial listings.
	Bedrooms string `json:"bedrooms,omitempty"`

	// Price is the asking price or monthly rent.
	Price float64 `json:"property_cost"`

	// Locality is the neighbourhood within the city.
	Locality string `json:"locality,omitempty"`

	// City is the city the property is in.
	City string `json:"city,omitempty"`

	// Occupancy is the occupancy or possession status.
	Occupancy string `json:"occupancy,omitempty"`

	// Photos are image URLs, first one is the cover photo.
	Photos []string `json:"photos,omitempty"`

	// OwnerPhone is the seller's contact number.
	OwnerPhone string `json:"owner_phone,omitempty"`

	// PostedAt is when the listing was created.
	PostedAt time.Time `json:"posted_at,omitempty"`
}

// CoverPhoto returns the first photo URL, or empty if the listing has none.
func (p *Property) CoverPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// ListingPage is one page of listings as reported by the backend.
type ListingPage struct {
	// Properties are the listings on this page, in backend order.
	Properties []Property

	// CurrentPage is the 1-based page number the backend returned.
	CurrentPage int

	// TotalPages is the total number of pages for the query.
	TotalPages int
}

// HasMore reports whether the backend has pages beyond this one.
func (p ListingPage) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// City is a city the marketplace operates in.
type City struct {
	Name string `json:"city"`
}

// FormatPrice renders a price the way Indian listings quote it:
// crores and lakhs above one lakh, grouped rupees below.
func FormatPrice(price float64) string {
	switch {
	case price <= 0:
		return "Price on request"
	case price >= 1e7:
		return fmt.Sprintf("₹%s Cr", trimZeros(price/1e7))
	case price >= 1e5:
		return fmt.Sprintf("₹%s L", trimZeros(price/1e5))
	default:
		return "₹" + groupThousands(int64(price))
	}
}

func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
