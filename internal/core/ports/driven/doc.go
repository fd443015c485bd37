// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ListingClient: Paged listing search against the marketplace backend
//   - LocationClient: Locality autocomplete
//   - FavoritesClient: Remote favourites list
//   - CityClient: Supported cities
//   - KeyValueStore: Local persistence for cities, recents, city and photos
//   - SessionProvider: The signed-in user
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
