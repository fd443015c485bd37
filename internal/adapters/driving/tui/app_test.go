package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Discovery:   &MockDiscoveryService{},
		Suggestions: &MockSuggestionService{},
		Cities:      &MockCityService{},
		Settings:    &MockSettingsService{settings: domain.DefaultAppSettings()},
		Session:     &MockSessionService{},
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func testState() domain.DiscoveryState {
	return domain.DiscoveryState{
		Results: []domain.Property{
			{ID: "p1", Name: "Lakeview Residency", Price: 7500000, City: "Pune"},
			{ID: "p2", Name: "Hill Crest", Price: 12000000, City: "Pune"},
		},
		Status:     domain.FetchLoaded,
		HasMore:    true,
		Filter:     domain.DefaultFilterState(),
		Page:       1,
		Generation: 1,
		Liked:      domain.NewFavoriteSet("p2"),
	}
}

// goToDiscovery switches to the discovery view and runs its start command.
func goToDiscovery(t *testing.T, app *App) {
	t.Helper()
	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDiscovery})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDiscovery, app.CurrentView())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := newTestPorts()
	ports.Discovery = nil

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingDiscoveryService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Same(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	ports := newTestPorts()
	ports.Discovery.(*MockDiscoveryService).SetState(domain.DiscoveryState{
		Filter: domain.FilterState{City: "Pune"},
	})
	require.NoError(t, ports.Session.Login("u-42", "tok"))
	app, _ := NewApp(ports)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	app.SetDimensions(100, 30)
	out := app.View()
	assert.Contains(t, out, "Pune")
	assert.Contains(t, out, "signed in as u-42")
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	a := model.(*App)
	assert.True(t, a.Ready())
	assert.Equal(t, 120, a.width)
	assert.Equal(t, 40, a.height)
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Menu(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	out := app.View()

	assert.Contains(t, out, "Estately")
	assert.Contains(t, out, "Browse listings")
	assert.Contains(t, out, "all cities")
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_Quit(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_MenuEnter_NavigatesToDiscovery(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDiscovery}, msg)

	app.Update(msg)
	assert.Equal(t, messages.ViewDiscovery, app.CurrentView())
}

func TestApp_Update_ViewChanged_ToDiscovery_StartsOnce(t *testing.T) {
	starts := 0
	ports := newTestPorts()
	disc := ports.Discovery.(*MockDiscoveryService)
	disc.StartFunc = func(context.Context) error {
		starts++
		return nil
	}
	app := newTestApp(t, ports)

	goToDiscovery(t, app)
	app.discoveryView.Init()
	app.Update(messages.ViewChanged{View: messages.ViewMenu})
	goToDiscovery(t, app)

	assert.Equal(t, 1, disc.Subscribers())
	app.discoveryView.Close()
	assert.Equal(t, 0, disc.Subscribers())
	assert.LessOrEqual(t, starts, 1)
}

func TestApp_Update_StateChanged_RoutedToDiscovery(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	goToDiscovery(t, app)

	app.Update(messages.StateChanged{State: testState()})

	require.Len(t, app.Results(), 2)
	assert.Equal(t, "Lakeview Residency", app.Results()[0].Name)
	assert.Equal(t, 0, app.SelectedIndex())
	assert.Contains(t, app.View(), "Lakeview Residency")
}

func TestApp_Update_StateChanged_WhileOnOtherView(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	goToDiscovery(t, app)
	app.Update(messages.ViewChanged{View: messages.ViewCities})

	app.Update(messages.StateChanged{State: testState()})

	assert.Equal(t, messages.ViewCities, app.CurrentView())
	assert.Len(t, app.Results(), 2)
}

func TestApp_Update_DiscoveryDone_Error(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	goToDiscovery(t, app)

	app.Update(messages.DiscoveryDone{Op: "search", Err: domain.ErrNetwork})

	assert.ErrorIs(t, app.Err(), domain.ErrNetwork)
}

func TestApp_Update_KeyMsg_TypingInDiscovery(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	goToDiscovery(t, app)

	app.Update(keyRunes("b"))
	app.Update(keyRunes("a"))
	app.Update(keyRunes("n"))

	assert.Equal(t, "ban", app.Query())
}

func TestApp_Update_ViewChanged_ToCities(t *testing.T) {
	ports := newTestPorts()
	ports.Cities.(*MockCityService).ListFunc = func(context.Context) ([]domain.City, error) {
		return []domain.City{{Name: "Pune"}, {Name: "Mumbai"}}, nil
	}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewCities})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewCities, app.CurrentView())
	assert.Len(t, app.citiesView.Cities(), 2)
	assert.Contains(t, app.View(), "Mumbai")
}

func TestApp_Update_CitySelected_SwitchesToDiscovery(t *testing.T) {
	ports := newTestPorts()
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewCities})

	_, cmd := app.Update(messages.CitySelected{City: "Pune"})

	assert.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDiscovery, app.CurrentView())
	assert.NoError(t, app.Err())
}

func TestApp_Update_CitySelected_Error(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewCities})

	app.Update(messages.CitySelected{City: "Pune", Err: errors.New("set city: disk full")})

	assert.Equal(t, messages.ViewCities, app.CurrentView())
	assert.EqualError(t, app.Err(), "set city: disk full")
}

func TestApp_Update_ViewChanged_ToSettings(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(messages.SettingsLoaded)
	require.True(t, ok)
	app.Update(msg)

	out := app.View()
	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, domain.DefaultAPIBaseURL)
}

func TestApp_Update_SettingsSaved(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewSettings})

	_, cmd := app.Update(messages.SettingsSaved{Key: "api.base_url"})

	assert.NotNil(t, cmd)
	assert.NoError(t, app.settingsView.Err())
}

func TestApp_Update_ViewChanged_ToMenu_RefreshesContext(t *testing.T) {
	ports := newTestPorts()
	app := newTestApp(t, ports)
	ports.Discovery.(*MockDiscoveryService).SetState(domain.DiscoveryState{
		Filter: domain.FilterState{City: "Mumbai"},
	})

	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	assert.Contains(t, app.View(), "Mumbai")
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "Clear filters")

	app.Update(keyRunes("x"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	goToDiscovery(t, app)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "boom")
}

func TestApp_Update_ErrorOccurred_InMenu(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.Nil(t, cmd)
	assert.EqualError(t, app.Err(), "boom")
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SetDimensions(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	app.SetDimensions(90, 25)

	assert.True(t, app.Ready())
	assert.Equal(t, 90, app.width)
	assert.Equal(t, 25, app.height)
}
