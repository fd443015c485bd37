package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

var (
	listingsCategory  string
	listingsFor       string
	listingsSegment   string
	listingsSubType   string
	listingsBedrooms  string
	listingsOccupancy string
	listingsSort      string
	listingsBudget    string
	listingsCity      string
	listingsPages     int
	listingsJSON      bool
)

var listingsCmd = &cobra.Command{
	Use:     "listings [search text]",
	Aliases: []string{"ls"},
	Short:   "List properties matching filters",
	Long: `Fetches property listings for the given filters.

Filters left unset take their defaults: Buy, Residential, Apartment,
sorted by relevance. The city defaults to the one chosen with
'estately cities set'.

Examples:
  estately listings --city Hyderabad
  estately listings --category Rent --bedrooms "2 BHK" Kondapur
  estately listings --category Plot --occupancy Immediate --sort price-asc
  estately listings --category Commercial --for Rent --subtype "Retail Shop"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListings,
}

func init() {
	f := listingsCmd.Flags()
	f.StringVarP(&listingsCategory, "category", "c", "", "Buy, Rent, Plot or Commercial")
	f.StringVar(&listingsFor, "for", "", "Sell or Rent (Commercial only)")
	f.StringVar(&listingsSegment, "segment", "", "residential, commercial or land")
	f.StringVar(&listingsSubType, "subtype", "", "property sub-type, e.g. Apartment")
	f.StringVarP(&listingsBedrooms, "bedrooms", "b", "", `bedroom count, e.g. "2 BHK"`)
	f.StringVar(&listingsOccupancy, "occupancy", "", "occupancy or possession status")
	f.StringVarP(&listingsSort, "sort", "s", "", "relevance, price-asc, price-desc or newest")
	f.StringVar(&listingsBudget, "budget", "", `budget band, e.g. "50L-75L" (Buy only)`)
	f.StringVar(&listingsCity, "city", "", "city to search in")
	f.IntVarP(&listingsPages, "pages", "n", 1, "number of pages to load")
	f.BoolVar(&listingsJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(listingsCmd)
}

func runListings(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}
	if listingsPages < 1 {
		return fmt.Errorf("%w: --pages must be at least 1", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	update, err := listingsUpdate(cmd, args)
	if err != nil {
		return err
	}
	if update.City == nil && cityService != nil {
		if city := cityService.Current(ctx); city != "" {
			update.City = &city
		}
	}

	if favoriteService != nil && sessionService != nil && sessionService.Current().IsSignedIn() {
		// Liked markers are best effort.
		_ = favoriteService.Sync(ctx)
	}

	if err := discoveryService.ApplyFilter(ctx, update); err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}
	if discoveryService.State().Status == domain.FetchIdle {
		if err := discoveryService.Refresh(ctx); err != nil {
			return fmt.Errorf("fetch listings: %w", err)
		}
	}
	for page := 1; page < listingsPages && discoveryService.State().HasMore; page++ {
		if err := discoveryService.LoadMore(ctx); err != nil {
			return fmt.Errorf("load page %d: %w", page+1, err)
		}
	}

	state := discoveryService.State()
	if state.Err != nil {
		return fmt.Errorf("fetch listings: %w", state.Err)
	}

	if listingsJSON {
		return outputListingsJSON(cmd, state.Results)
	}
	outputListingsTable(cmd, state)
	return nil
}

// listingsUpdate builds a filter update from the flags the user set.
func listingsUpdate(cmd *cobra.Command, args []string) (domain.FilterUpdate, error) {
	var u domain.FilterUpdate
	flags := cmd.Flags()

	if flags.Changed("category") {
		c, err := parseCategory(listingsCategory)
		if err != nil {
			return u, err
		}
		u.Category = &c
	}
	if flags.Changed("for") {
		pf := domain.PropertyFor(titleCase(listingsFor))
		u.PropertyFor = &pf
	}
	if flags.Changed("segment") {
		in, err := parseSegment(listingsSegment)
		if err != nil {
			return u, err
		}
		u.PropertyIn = &in
	}
	if flags.Changed("subtype") {
		u.SubType = &listingsSubType
	}
	if flags.Changed("bedrooms") {
		u.BedroomCount = &listingsBedrooms
	}
	if flags.Changed("occupancy") {
		u.Occupancy = &listingsOccupancy
	}
	if flags.Changed("sort") {
		s, err := parseSort(listingsSort)
		if err != nil {
			return u, err
		}
		u.PriceSort = &s
	}
	if flags.Changed("budget") {
		u.BudgetBand = &listingsBudget
	}
	if flags.Changed("city") {
		u.City = &listingsCity
	}
	if len(args) == 1 {
		u.SearchText = &args[0]
	}
	return u, nil
}

func parseCategory(s string) (domain.Category, error) {
	for _, c := range domain.AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, s)
}

func parseSegment(s string) (domain.PropertyIn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "residential":
		return domain.PropertyInResidential, nil
	case "commercial":
		return domain.PropertyInCommercial, nil
	case "land", "":
		return domain.PropertyInLand, nil
	default:
		return "", fmt.Errorf("%w: unknown segment %q", domain.ErrInvalidInput, s)
	}
}

func parseSort(s string) (domain.PriceSort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relevance", "":
		return domain.SortRelevance, nil
	case "price-asc", "low-to-high":
		return domain.SortPriceAsc, nil
	case "price-desc", "high-to-low":
		return domain.SortPriceDesc, nil
	case "newest":
		return domain.SortNewest, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidInput, s)
	}
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func outputListingsJSON(cmd *cobra.Command, results []domain.Property) error {
	if results == nil {
		results = []domain.Property{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputListingsTable(cmd *cobra.Command, state domain.DiscoveryState) {
	f := state.Filter
	where := f.City
	if where == "" {
		where = "all cities"
	}
	cmd.Printf("%s > %s > %s in %s\n", f.Category, segmentLabel(f.PropertyIn), f.SubType, where)
	cmd.Println()

	if len(state.Results) == 0 {
		cmd.Println("No properties found. Try clearing some filters.")
		return
	}

	for i := range state.Results {
		p := &state.Results[i]
		heart := ""
		if state.IsLiked(p.ID) {
			heart = " ♥"
		}
		cmd.Printf("  [%d] %s%s\n", i+1, p.Name, heart)
		cmd.Printf("      %s\n", strings.Join(listingDetails(p), " | "))
		cmd.Printf("      id: %s\n", p.ID)
	}
	cmd.Println()

	more := ""
	if state.HasMore {
		more = fmt.Sprintf(", more available (--pages %d)", state.Page+1)
	}
	cmd.Printf("%d properties, page %d%s\n", len(state.Results), state.Page, more)
}

func listingDetails(p *domain.Property) []string {
	details := []string{domain.FormatPrice(p.Price)}
	for _, s := range []string{p.SubType, p.Bedrooms, p.Occupancy} {
		if s != "" {
			details = append(details, s)
		}
	}
	place := strings.Trim(strings.Join([]string{p.Locality, p.City}, ", "), ", ")
	if place != "" {
		details = append(details, place)
	}
	return details
}

func segmentLabel(in domain.PropertyIn) string {
	if in == domain.PropertyInLand {
		return "Land"
	}
	return string(in)
}
