// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The discovery controller owns the filter state and composes the
// paginated fetcher, the suggestion engine and the favourite store.
// Listeners registered with Subscribe are never called while a service
// lock is held.
//
// Services are pure Go with no CGO.
package services
