// Package cities provides the city picker view for the TUI.
package cities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// allCitiesLabel is the first entry; picking it clears the city filter.
const allCitiesLabel = "All cities"

// ErrNoCityService indicates that no city service was provided.
var ErrNoCityService = errors.New("city service not available")

// View is the city picker.
type View struct {
	styles      *styles.Styles
	cityService driving.CityService
	discovery   driving.DiscoveryService
	ctx         context.Context

	cities   []domain.City
	current  string
	selected int // 0 is "All cities", i+1 is cities[i]
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new city picker.
func NewView(
	s *styles.Styles,
	cityService driving.CityService,
	discovery driving.DiscoveryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		cityService: cityService,
		discovery:   discovery,
		ctx:         context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads cities.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadCities(false)
}

// loadCities returns a command that lists cities, refetching them when refresh is set.
func (v *View) loadCities(refresh bool) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.cityService == nil {
			return messages.CitiesLoaded{Err: ErrNoCityService}
		}

		var (
			cities []domain.City
			err    error
		)
		if refresh {
			cities, err = v.cityService.Refresh(ctx)
		} else {
			cities, err = v.cityService.List(ctx)
		}
		return messages.CitiesLoaded{Cities: cities, Current: v.cityService.Current(ctx), Err: err}
	}
}

// Update handles messages for the city picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CitiesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.cities = msg.Cities
		v.current = msg.Current
		v.selected = v.indexOf(msg.Current)
		return v, nil

	case messages.CitySelected:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.current = msg.City
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.cities) {
			v.selected++
		}
	case "enter":
		if v.loading {
			return v, nil
		}
		return v, v.selectCity(v.selectedName())
	case "r":
		v.loading = true
		return v, v.loadCities(true)
	}

	return v, nil
}

// selectCity returns a command that makes city active for discovery.
func (v *View) selectCity(city string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		var err error
		switch {
		case v.discovery != nil:
			err = v.discovery.SetCity(ctx, city)
		case v.cityService != nil:
			err = v.cityService.SetCurrent(ctx, city)
		default:
			err = ErrNoCityService
		}
		if err != nil {
			err = fmt.Errorf("set city: %w", err)
		}
		return messages.CitySelected{City: city, Err: err}
	}
}

func (v *View) selectedName() string {
	if v.selected == 0 || v.selected > len(v.cities) {
		return ""
	}
	return v.cities[v.selected-1].Name
}

func (v *View) indexOf(city string) int {
	for i, c := range v.cities {
		if strings.EqualFold(c.Name, city) {
			return i + 1
		}
	}
	return 0
}

// View renders the city picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Choose city"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading cities..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderLine(0, allCitiesLabel, v.current == ""))
	b.WriteString("\n")

	// Keep the selection visible on short terminals.
	visible := v.height - 8
	if visible < 5 {
		visible = len(v.cities)
	}
	start := 0
	if v.selected > visible {
		start = v.selected - visible
	}
	end := min(start+visible, len(v.cities))

	for i := start; i < end; i++ {
		name := v.cities[i].Name
		b.WriteString(v.renderLine(i+1, name, strings.EqualFold(name, v.current)))
		b.WriteString("\n")
	}

	if len(v.cities) == 0 && v.err == nil {
		b.WriteString(v.styles.Muted.Render("No cities available."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderLine renders a single city entry.
func (v *View) renderLine(index int, name string, active bool) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}
	marker := ""
	if active {
		marker = " *"
	}

	if index == v.selected {
		return v.styles.Selected.Render(indicator + name + marker)
	}
	return v.styles.Normal.Render(indicator+name) + v.styles.Success.Render(marker)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] select  [r] refresh  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Cities returns the listed cities.
func (v *View) Cities() []domain.City {
	return v.cities
}

// Current returns the active city.
func (v *View) Current() string {
	return v.current
}

// SelectedIndex returns the selected entry, 0 being "All cities".
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
