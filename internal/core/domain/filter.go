package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the top-level tab the user browses under.
type Category string

// Available categories.
const (
	CategoryBuy        Category = "Buy"
	CategoryRent       Category = "Rent"
	CategoryPlot       Category = "Plot"
	CategoryCommercial Category = "Commercial"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{CategoryBuy, CategoryRent, CategoryPlot, CategoryCommercial}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	return slices.Contains(AllCategories(), c)
}

// PropertyFor is the transaction type of a listing.
type PropertyFor string

// Transaction types.
const (
	PropertyForSell PropertyFor = "Sell"
	PropertyForRent PropertyFor = "Rent"
)

// IsValid returns true if the transaction type is recognised.
func (p PropertyFor) IsValid() bool {
	return p == PropertyForSell || p == PropertyForRent
}

// PropertyIn is the property segment. Empty means land.
type PropertyIn string

// Property segments.
const (
	PropertyInResidential PropertyIn = "Residential"
	PropertyInCommercial  PropertyIn = "Commercial"
	PropertyInLand        PropertyIn = ""
)

// IsValid returns true if the segment is recognised.
func (p PropertyIn) IsValid() bool {
	return p == PropertyInResidential || p == PropertyInCommercial || p == PropertyInLand
}

// PriceSort is the result ordering.
type PriceSort string

// Available orderings.
const (
	SortRelevance PriceSort = "Relevance"
	SortPriceAsc  PriceSort = "PriceAsc"
	SortPriceDesc PriceSort = "PriceDesc"
	SortNewest    PriceSort = "Newest"
)

// IsValid returns true if the ordering is recognised.
func (s PriceSort) IsValid() bool {
	switch s {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	default:
		return false
	}
}

// Sub-type defaults per segment.
const (
	DefaultResidentialSubType = "Apartment"
	DefaultCommercialSubType  = "Office"
	DefaultLandSubType        = "Plot"
)

// Occupancy values.
const (
	OccupancyReadyToMove       = "Ready to move"
	OccupancyUnderConstruction = "Under Construction"
	OccupancyImmediate         = "Immediate"
	OccupancyFuture            = "Future"
	OccupancyReadyToMoveIn     = "Ready to move in"
)

var (
	residentialSubTypes = []string{"Apartment", "Independent House", "Independent Villa", "Plot", "Land"}
	commercialSubTypes  = []string{"Office", "Retail Shop", "Show Room", "Warehouse", "Plot", "Others"}
	landSubTypes        = []string{"Plot", "Land"}

	bedroomCounts = []string{"1 BHK", "2 BHK", "3 BHK", "4 BHK", "5 BHK", "6 BHK", "7 BHK", "8 BHK"}

	budgetBands = []string{"Upto 25L", "25L-50L", "50L-75L", "75L-1Cr", "1Cr-2Cr", "Above 2Cr"}

	builtSaleOccupancy = []string{OccupancyReadyToMove, OccupancyUnderConstruction}
	landSaleOccupancy  = []string{OccupancyImmediate, OccupancyFuture}
	rentOccupancy      = []string{OccupancyReadyToMoveIn}
)

// SubTypesFor returns the allowed sub-types for a segment.
func SubTypesFor(in PropertyIn) []string {
	switch in {
	case PropertyInResidential:
		return slices.Clone(residentialSubTypes)
	case PropertyInCommercial:
		return slices.Clone(commercialSubTypes)
	default:
		return slices.Clone(landSubTypes)
	}
}

// DefaultSubType returns the sub-type selected when switching to a segment.
func DefaultSubType(in PropertyIn) string {
	switch in {
	case PropertyInResidential:
		return DefaultResidentialSubType
	case PropertyInCommercial:
		return DefaultCommercialSubType
	default:
		return DefaultLandSubType
	}
}

// BedroomCounts returns the selectable BHK values.
func BedroomCounts() []string {
	return slices.Clone(bedroomCounts)
}

// BudgetBands returns the selectable budget bands.
func BudgetBands() []string {
	return slices.Clone(budgetBands)
}

// IsLandLike reports whether a sub-type is a plot or bare land.
func IsLandLike(subType string) bool {
	return slices.Contains(landSubTypes, subType)
}

// OccupancyOptions returns the occupancy vocabulary for a transaction type and sub-type.
func OccupancyOptions(propertyFor PropertyFor, subType string) []string {
	if propertyFor == PropertyForRent {
		return slices.Clone(rentOccupancy)
	}
	if IsLandLike(subType) {
		return slices.Clone(landSaleOccupancy)
	}
	return slices.Clone(builtSaleOccupancy)
}

// FilterState is the normalised search intent of the user.
// The zero value is not valid; use DefaultFilterState.
type FilterState struct {
	Category     Category
	PropertyFor  PropertyFor
	PropertyIn   PropertyIn
	SubType      string
	BedroomCount string
	Occupancy    string
	PriceSort    PriceSort
	BudgetBand   string
	SearchText   string
	City         string
}

// DefaultFilterState returns the state used on first mount and after ClearAll.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:    CategoryBuy,
		PropertyFor: PropertyForSell,
		PropertyIn:  PropertyInResidential,
		SubType:     DefaultResidentialSubType,
		PriceSort:   SortRelevance,
	}
}

// FilterUpdate is a partial update. Nil fields are left unchanged.
type FilterUpdate struct {
	Category     *Category
	PropertyFor  *PropertyFor
	PropertyIn   *PropertyIn
	SubType      *string
	BedroomCount *string
	Occupancy    *string
	PriceSort    *PriceSort
	BudgetBand   *string
	SearchText   *string
	City         *string
}

// IsEmpty returns true if the update changes nothing.
func (u FilterUpdate) IsEmpty() bool {
	return u == FilterUpdate{}
}

// Apply merges a partial update into the state and re-establishes every
// field dependency. It returns the new state and whether the backend query
// changed. The receiver is never modified; on error it is returned as is.
func (f FilterState) Apply(u FilterUpdate) (FilterState, bool, error) {
	next := f

	if u.Category != nil {
		if !u.Category.IsValid() {
			return f, false, fmt.Errorf("%w: category %q", ErrInvalidInput, *u.Category)
		}
		next = next.withCategory(*u.Category)
	}

	if u.PropertyFor != nil {
		if !u.PropertyFor.IsValid() {
			return f, false, fmt.Errorf("%w: property for %q", ErrInvalidInput, *u.PropertyFor)
		}
		if next.Category != CategoryCommercial && *u.PropertyFor != next.PropertyFor {
			return f, false, fmt.Errorf("%w: property for is fixed by category %s", ErrInvalidInput, next.Category)
		}
		next.PropertyFor = *u.PropertyFor
	}

	if u.PropertyIn != nil {
		in := *u.PropertyIn
		if !in.IsValid() {
			return f, false, fmt.Errorf("%w: property in %q", ErrInvalidInput, in)
		}
		if err := next.checkSegment(in); err != nil {
			return f, false, err
		}
		if in != next.PropertyIn {
			next.PropertyIn = in
			next.SubType = DefaultSubType(in)
		}
	}

	if u.SubType != nil {
		if !slices.Contains(SubTypesFor(next.PropertyIn), *u.SubType) {
			return f, false, fmt.Errorf("%w: sub type %q not allowed for %q", ErrInvalidInput, *u.SubType, next.PropertyIn)
		}
		next.SubType = *u.SubType
	}

	if u.BedroomCount != nil {
		if *u.BedroomCount != "" && !slices.Contains(bedroomCounts, *u.BedroomCount) {
			return f, false, fmt.Errorf("%w: bedroom count %q", ErrInvalidInput, *u.BedroomCount)
		}
		next.BedroomCount = *u.BedroomCount
	}

	if u.PriceSort != nil {
		if !u.PriceSort.IsValid() {
			return f, false, fmt.Errorf("%w: price sort %q", ErrInvalidInput, *u.PriceSort)
		}
		next.PriceSort = *u.PriceSort
	}

	if u.BudgetBand != nil {
		if *u.BudgetBand != "" && !slices.Contains(budgetBands, *u.BudgetBand) {
			return f, false, fmt.Errorf("%w: budget band %q", ErrInvalidInput, *u.BudgetBand)
		}
		next.BudgetBand = *u.BudgetBand
	}

	if u.SearchText != nil {
		next.SearchText = strings.TrimSpace(*u.SearchText)
	}

	if u.City != nil {
		next.City = strings.TrimSpace(*u.City)
	}

	next = next.normalise(f)

	if u.Occupancy != nil {
		occ := *u.Occupancy
		if occ != "" && !slices.Contains(OccupancyOptions(next.PropertyFor, next.SubType), occ) {
			return f, false, fmt.Errorf("%w: occupancy %q", ErrInvalidInput, occ)
		}
		if occ == "" && next.PropertyFor == PropertyForRent {
			occ = OccupancyReadyToMoveIn
		}
		next.Occupancy = occ
	}

	return next, next.Query(1).Key() != f.Query(1).Key(), nil
}

// Reset returns the default state. City is kept because it is the user's
// location rather than a filter. Reset always requires a refetch.
func (f FilterState) Reset() (FilterState, bool) {
	next := DefaultFilterState()
	next.City = f.City
	return next, true
}

// withCategory switches the category tab. Plot and Commercial overwrite
// the segment and sub-type; Buy and Rent keep a residential or commercial
// selection made under the other of the two.
func (f FilterState) withCategory(c Category) FilterState {
	prev := f.Category
	f.Category = c

	switch c {
	case CategoryPlot:
		f.PropertyFor = PropertyForSell
		f.PropertyIn = PropertyInLand
		f.SubType = DefaultLandSubType
	case CategoryCommercial:
		if prev != CategoryCommercial {
			f.PropertyFor = PropertyForSell
		}
		f.PropertyIn = PropertyInCommercial
		f.SubType = DefaultCommercialSubType
	case CategoryRent, CategoryBuy:
		f.PropertyFor = PropertyForSell
		if c == CategoryRent {
			f.PropertyFor = PropertyForRent
		}
		if prev == CategoryPlot || prev == CategoryCommercial || f.PropertyIn == PropertyInLand {
			f.PropertyIn = PropertyInResidential
			f.SubType = DefaultResidentialSubType
		}
	}
	return f
}

// checkSegment validates a segment change against the current category.
func (f FilterState) checkSegment(in PropertyIn) error {
	switch f.Category {
	case CategoryPlot:
		if in != PropertyInLand {
			return fmt.Errorf("%w: plot listings have no segment", ErrInvalidInput)
		}
	case CategoryCommercial:
		if in != PropertyInCommercial {
			return fmt.Errorf("%w: commercial category requires commercial segment", ErrInvalidInput)
		}
	case CategoryBuy, CategoryRent:
		if in == PropertyInLand {
			return fmt.Errorf("%w: use the plot category for land", ErrInvalidInput)
		}
	}
	return nil
}

// normalise enforces the cross-field invariants relative to the previous state.
func (f FilterState) normalise(prev FilterState) FilterState {
	if IsLandLike(f.SubType) || f.PropertyIn == PropertyInCommercial {
		f.BedroomCount = ""
	}

	vocabChanged := IsLandLike(f.SubType) != IsLandLike(prev.SubType) || f.PropertyFor != prev.PropertyFor
	options := OccupancyOptions(f.PropertyFor, f.SubType)
	if vocabChanged || (f.Occupancy != "" && !slices.Contains(options, f.Occupancy)) {
		f.Occupancy = ""
		if len(options) == 1 {
			f.Occupancy = options[0]
		}
	}
	return f
}

// Query derives the backend query for the given page.
func (f FilterState) Query(page int) Query {
	q := Query{
		PropertyFor:  f.PropertyFor,
		PropertyIn:   f.PropertyIn,
		SubType:      f.SubType,
		SearchText:   f.SearchText,
		BedroomCount: f.BedroomCount,
		PriceSort:    f.PriceSort,
		Occupancy:    f.Occupancy,
		LandLike:     IsLandLike(f.SubType),
		City:         f.City,
		Page:         page,
	}
	if f.PropertyFor == PropertyForSell {
		q.BudgetBand = f.BudgetBand
	}
	return q
}
