// Package domain defines the core business entities for Estately.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Property: A marketplace listing
//   - FilterState: The user's normalised search intent and its reducer
//   - Query: The canonical backend query derived from a FilterState
//   - Suggestion: A location autocomplete entry
//   - FavoriteSet: The signed-in user's liked properties
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
