package mcp

import (
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Discovery runs listing searches.
	Discovery driving.DiscoveryService

	// Suggestions provides location autocomplete.
	Suggestions driving.SuggestionService

	// Favorites manages the liked set. Optional.
	Favorites driving.FavoriteService

	// Cities lists supported cities. Optional.
	Cities driving.CityService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	if p.Suggestions == nil {
		return ErrMissingSuggestionService
	}
	return nil
}
