// Package tui provides an interactive terminal user interface for estately.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Discovery drives the listing search session.
	Discovery driving.DiscoveryService

	// Suggestions provides location autocomplete.
	Suggestions driving.SuggestionService

	// Favorites keeps the liked set in step with the backend.
	Favorites driving.FavoriteService

	// Cities lists supported cities.
	Cities driving.CityService

	// Photos caches cover photo URLs.
	Photos driving.PhotoService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Session identifies the signed-in user.
	Session driving.SessionService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	discovery driving.DiscoveryService,
	suggestions driving.SuggestionService,
	cities driving.CityService,
) *Ports {
	return &Ports{
		Discovery:   discovery,
		Suggestions: suggestions,
		Cities:      cities,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	if p.Suggestions == nil {
		return ErrMissingSuggestionService
	}
	if p.Cities == nil {
		return ErrMissingCityService
	}
	return nil
}
