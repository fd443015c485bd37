package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Discovery Errors.

	// ErrNetwork indicates a call to the marketplace backend failed.
	// Listing failures surface in the read model; suggestion failures are swallowed.
	ErrNetwork = errors.New("network failure")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthenticated indicates an action needs a signed-in user.
	// Callers should prompt the user to sign in rather than report a failure.
	ErrUnauthenticated = errors.New("please sign in to continue")

	// ErrStaleResponse indicates a response belonged to an older query generation
	// and was discarded. It is never surfaced to the view layer.
	ErrStaleResponse = errors.New("stale response discarded")

	// ErrSuperseded indicates a debounced call was replaced by a newer call
	// before its quiet period elapsed.
	ErrSuperseded = errors.New("superseded by a newer call")
)
