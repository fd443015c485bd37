// Package mcp provides an MCP (Model Context Protocol) server adapter for Estately.
// It lets AI assistants search listings, suggest locations and manage favourites.
package mcp

import "errors"

// ErrMissingDiscoveryService is returned when the discovery service is not provided.
var ErrMissingDiscoveryService = errors.New("mcp: discovery service is required")

// ErrMissingSuggestionService is returned when the suggestion service is not provided.
var ErrMissingSuggestionService = errors.New("mcp: suggestion service is required")

// errFavoritesUnavailable is returned by toggle_favorite when no favourite service is wired.
var errFavoritesUnavailable = errors.New("favourites are not available")
