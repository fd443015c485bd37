package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

func TestListingsCmd_FirstPage(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.pages = [][]domain.Property{
		{testProperty("p1", "Lakeview Residency", 7500000)},
		{testProperty("p2", "Hill Crest", 9000000)},
	}

	out, err := runCmd(t, "", "listings", "--city", "Hyderabad", "Kondapur")

	require.NoError(t, err)
	assert.Contains(t, out, "Buy > Residential > Apartment in Hyderabad")
	assert.Contains(t, out, "[1] Lakeview Residency")
	assert.Contains(t, out, "id: p1")
	assert.Contains(t, out, domain.FormatPrice(7500000))
	assert.Contains(t, out, "Kondapur, Hyderabad")
	assert.Contains(t, out, "1 properties, page 1, more available (--pages 2)")
	assert.NotContains(t, out, "Hill Crest")

	f := ts.discovery.State().Filter
	assert.Equal(t, "Hyderabad", f.City)
	assert.Equal(t, "Kondapur", f.SearchText)
}

func TestListingsCmd_LoadsPages(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.pages = [][]domain.Property{
		{testProperty("p1", "A", 1)},
		{testProperty("p2", "B", 2)},
		{testProperty("p3", "C", 3)},
	}

	out, err := runCmd(t, "", "listings", "--pages", "5", "Baner")

	require.NoError(t, err)
	assert.Equal(t, 2, ts.discovery.loadMores)
	assert.Contains(t, out, "[3] C")
	assert.Contains(t, out, "3 properties, page 3")
	assert.NotContains(t, out, "more available")
}

func TestListingsCmd_Filters(t *testing.T) {
	ts := setupTestServices(t)

	_, err := runCmd(t, "", "listings",
		"--category", "rent",
		"--bedrooms", "3 BHK",
		"--sort", "price-desc",
		"--subtype", "Independent House",
	)

	require.NoError(t, err)
	f := ts.discovery.State().Filter
	assert.Equal(t, domain.CategoryRent, f.Category)
	assert.Equal(t, domain.PropertyForRent, f.PropertyFor)
	assert.Equal(t, "3 BHK", f.BedroomCount)
	assert.Equal(t, domain.SortPriceDesc, f.PriceSort)
	assert.Equal(t, "Independent House", f.SubType)
	assert.Equal(t, domain.OccupancyReadyToMoveIn, f.Occupancy)
}

func TestListingsCmd_CommercialForRent(t *testing.T) {
	ts := setupTestServices(t)

	_, err := runCmd(t, "", "listings", "--category", "Commercial", "--for", "rent", "--subtype", "Retail Shop")

	require.NoError(t, err)
	f := ts.discovery.State().Filter
	assert.Equal(t, domain.PropertyInCommercial, f.PropertyIn)
	assert.Equal(t, domain.PropertyForRent, f.PropertyFor)
	assert.Equal(t, "Retail Shop", f.SubType)
}

func TestListingsCmd_CityDefaultsToSelected(t *testing.T) {
	ts := setupTestServices(t)
	ts.cities.current = "Pune"

	_, err := runCmd(t, "", "listings")

	require.NoError(t, err)
	assert.Equal(t, "Pune", ts.discovery.State().Filter.City)
}

func TestListingsCmd_UnchangedQueryFetches(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.pages = [][]domain.Property{{testProperty("p1", "A", 1)}}

	out, err := runCmd(t, "", "listings")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.discovery.refreshes)
	assert.Contains(t, out, "[1] A")
	assert.Contains(t, out, "in all cities")
}

func TestListingsCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := runCmd(t, "", "listings", "nowhere")

	require.NoError(t, err)
	assert.Contains(t, out, "No properties found")
}

func TestListingsCmd_LikedMarker(t *testing.T) {
	ts := setupTestServices(t)
	ts.session.session = domain.Session{UserID: "u-1"}
	ts.discovery.pages = [][]domain.Property{{testProperty("p1", "Lakeview", 1)}}
	ts.discovery.state.Liked = domain.NewFavoriteSet("p1")

	out, err := runCmd(t, "", "listings", "x")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.favorites.syncs)
	assert.Contains(t, out, "Lakeview ♥")
}

func TestListingsCmd_SignedOutSkipsSync(t *testing.T) {
	ts := setupTestServices(t)

	_, err := runCmd(t, "", "listings", "x")

	require.NoError(t, err)
	assert.Equal(t, 0, ts.favorites.syncs)
}

func TestListingsCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.pages = [][]domain.Property{{testProperty("p1", "Lakeview", 7500000)}}

	out, err := runCmd(t, "", "listings", "--json", "x")

	require.NoError(t, err)
	var got []domain.Property
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, 7500000.0, got[0].Price)
}

func TestListingsCmd_JSONEmpty(t *testing.T) {
	setupTestServices(t)

	out, err := runCmd(t, "", "listings", "--json", "x")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestListingsCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown category", args: []string{"listings", "--category", "Lease"}, wantErr: domain.ErrInvalidInput},
		{name: "unknown segment", args: []string{"listings", "--segment", "industrial"}, wantErr: domain.ErrInvalidInput},
		{name: "unknown sort", args: []string{"listings", "--sort", "cheapest"}, wantErr: domain.ErrInvalidInput},
		{name: "zero pages", args: []string{"listings", "--pages", "0"}, wantErr: domain.ErrInvalidInput},
		{
			name:    "for fixed by category",
			args:    []string{"listings", "--for", "Rent"},
			wantErr: domain.ErrInvalidInput,
			wantMsg: "apply filters",
		},
		{
			name:    "bad bedrooms",
			args:    []string{"listings", "--bedrooms", "12 BHK"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := runCmd(t, "", tt.args...)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestListingsCmd_FetchFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.fetchErr = domain.ErrNetwork

	_, err := runCmd(t, "", "listings", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "fetch listings")
}

func TestListingsCmd_ApplyFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.discovery.applyErr = errors.New("boom")

	_, err := runCmd(t, "", "listings", "x")

	assert.EqualError(t, err, "apply filters: boom")
}

func TestListingsCmd_NoService(t *testing.T) {
	_, err := runCmd(t, "", "listings")

	assert.EqualError(t, err, "discovery service not configured")
}

func TestParseSegment(t *testing.T) {
	tests := []struct {
		in   string
		want domain.PropertyIn
	}{
		{"residential", domain.PropertyInResidential},
		{"Commercial", domain.PropertyInCommercial},
		{"land", domain.PropertyInLand},
		{"", domain.PropertyInLand},
	}
	for _, tt := range tests {
		got, err := parseSegment(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestListingDetails(t *testing.T) {
	p := domain.Property{Price: 2500000, SubType: "Plot", City: "Pune"}

	assert.Equal(t, []string{domain.FormatPrice(2500000), "Plot", "Pune"}, listingDetails(&p))
}
