package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/views/cities"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/views/discovery"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// discoveryView is the listing browser.
	discoveryView *discovery.View

	// citiesView is the city picker.
	citiesView *cities.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		discoveryView: discovery.NewView(s, km, ports.Discovery, ports.Suggestions, ports.Photos),
		citiesView:    cities.NewView(s, ports.Cities, ports.Discovery),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.discoveryView.WithContext(ctx)
	a.citiesView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	a.refreshMenuContext()
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("estately - Property Discovery"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewDiscovery:
			a.discoveryView, cmd = a.discoveryView.Update(msg)
			a.err = a.discoveryView.Err()
		case messages.ViewCities:
			a.citiesView, cmd = a.citiesView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDiscovery:
			a.discoveryView.Reset()
			return a, a.discoveryView.Init()
		case messages.ViewCities:
			return a, a.citiesView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu:
			a.refreshMenuContext()
		case messages.ViewHelp:
			// Static text
		}
		return a, nil

	// The discovery view's subscription keeps delivering snapshots while
	// another view is active, so these are routed regardless of currentView.
	case messages.StateChanged, messages.DiscoveryDone,
		messages.SuggestionsLoaded, messages.FavoriteToggled:
		a.discoveryView, cmd = a.discoveryView.Update(msg)
		a.err = a.discoveryView.Err()
		return a, cmd

	case messages.CitiesLoaded:
		a.citiesView, cmd = a.citiesView.Update(msg)
		return a, cmd

	case messages.CitySelected:
		a.citiesView, cmd = a.citiesView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.err = nil
		a.refreshMenuContext()
		a.currentView = messages.ViewDiscovery
		a.discoveryView.Reset()
		return a, tea.Batch(cmd, a.discoveryView.Init())

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewDiscovery {
			a.discoveryView, cmd = a.discoveryView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDiscovery:
		a.discoveryView, cmd = a.discoveryView.Update(msg)
	case messages.ViewCities:
		a.citiesView, cmd = a.citiesView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// refreshMenuContext shows the active city and signed-in user on the menu.
func (a *App) refreshMenuContext() {
	city := a.discoveryView.State().Filter.City
	if city == "" {
		city = a.ports.Discovery.State().Filter.City
	}
	user := ""
	if a.ports.Session != nil {
		user = a.ports.Session.Current().UserID
	}
	a.menuView.SetContext(city, user)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewDiscovery:
		return a.discoveryView.View()
	case messages.ViewCities:
		return a.citiesView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search:
  (type)      Locality, project or landmark
  ↑/↓         Pick a suggestion
  enter       Submit search
  tab         Go to listings

Listings:
  j/k, ↑/↓    Navigate listings
  enter       Show details
  /           Focus search
  f, space    Like or unlike
  r           Refresh
  L           Choose city

Filters:
  tab         Next category
  t           Property type
  b           Bedrooms
  p           Budget
  o           Occupancy
  s           Sort by price
  c           Clear filters

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.discoveryView.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search text.
func (a *App) Query() string {
	return a.discoveryView.Query()
}

// Results returns the listings currently shown.
func (a *App) Results() []domain.Property {
	return a.discoveryView.Results()
}

// SelectedIndex returns the currently selected listing index.
func (a *App) SelectedIndex() int {
	return a.discoveryView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.discoveryView.SetDimensions(width, height)
	a.citiesView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
