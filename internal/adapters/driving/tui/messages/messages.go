// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// QueryChanged is sent when the search input changes.
type QueryChanged struct {
	Query string
}

// StateChanged carries a fresh snapshot of the discovery read model.
type StateChanged struct {
	State domain.DiscoveryState
}

// DiscoveryDone is sent when a discovery operation returns.
// The resulting state arrives separately as StateChanged.
type DiscoveryDone struct {
	Op  string
	Err error
}

// SuggestionsLoaded carries autocomplete entries for the text they were requested for.
type SuggestionsLoaded struct {
	Text        string
	Suggestions []domain.Suggestion
	Recent      domain.RecentSuggestions
	Err         error
}

// SuggestionPicked is sent when the user picks an autocomplete entry.
type SuggestionPicked struct {
	Suggestion domain.Suggestion
}

// FavoriteToggled signals a like toggle finished.
type FavoriteToggled struct {
	PropertyID string
	Err        error
}

// CitiesLoaded carries the supported cities and the active one.
type CitiesLoaded struct {
	Cities  []domain.City
	Current string
	Err     error
}

// CitySelected signals the active city changed.
type CitySelected struct {
	City string
	Err  error
}

// ResultSelected is sent when a listing is selected.
type ResultSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDiscovery is the listing search and results view.
	ViewDiscovery
	// ViewCities is the city picker.
	ViewCities
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDiscovery:
		return "discovery"
	case ViewCities:
		return "cities"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}
