// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// heartGlyph marks liked listings.
const heartGlyph = "♥"

// ResultList displays property listings in a navigable list.
type ResultList struct {
	results  []domain.Property
	liked    domain.FavoriteSet
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		results:  nil,
		liked:    domain.NewFavoriteSet(),
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.results) > 0 {
				r.selected = len(r.results) - 1
			}
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No listings")
	}

	lines := make([]string, 0, len(r.results)*2+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Listings (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Each listing takes two lines plus a gap.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single listing with its details line.
func (r *ResultList) renderResult(index int, p *domain.Property) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := p.Name
	if name == "" {
		name = "(Untitled listing)"
	}
	if r.liked.Contains(p.ID) {
		name += " " + heartGlyph
	}

	maxNameLen := r.width - 24
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name = truncate(name, maxNameLen)

	price := domain.FormatPrice(p.Price)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, price))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			r.styles.Success.Render(price)
	}

	details := Details(p)
	maxDetailLen := r.width - 6
	if maxDetailLen < 20 {
		maxDetailLen = 20
	}
	detailLine := r.styles.Muted.Render("    " + truncate(details, maxDetailLen))

	return titleLine + "\n" + detailLine
}

// Details joins the descriptive fields of a listing for a one-line summary.
func Details(p *domain.Property) string {
	parts := make([]string, 0, 5)
	if p.Bedrooms != "" {
		parts = append(parts, p.Bedrooms)
	}
	if p.SubType != "" {
		parts = append(parts, p.SubType)
	}
	location := strings.Trim(strings.Join([]string{p.Locality, p.City}, ", "), ", ")
	if location != "" {
		parts = append(parts, location)
	}
	if p.Occupancy != "" {
		parts = append(parts, p.Occupancy)
	}
	return strings.Join(parts, " | ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// SetResults replaces the listings and moves the selection to the top.
func (r *ResultList) SetResults(results []domain.Property) {
	r.results = results
	r.selected = 0
}

// ExtendResults replaces the listings with a longer page of the same
// query, keeping the selection.
func (r *ResultList) ExtendResults(results []domain.Property) {
	r.results = results
	if r.selected >= len(results) {
		r.selected = max(len(results)-1, 0)
	}
}

// SetLiked updates the liked set used for the heart marker.
func (r *ResultList) SetLiked(liked domain.FavoriteSet) {
	if liked == nil {
		liked = domain.NewFavoriteSet()
	}
	r.liked = liked
}

// Results returns the current listings.
func (r *ResultList) Results() []domain.Property {
	return r.results
}

// Selected returns the index of the selected listing.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected listing, or nil if none.
func (r *ResultList) SelectedResult() *domain.Property {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// AtEnd reports whether the last listing is selected.
func (r *ResultList) AtEnd() bool {
	return len(r.results) > 0 && r.selected == len(r.results)-1
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of listings.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
