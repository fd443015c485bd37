// Package marketplace implements the driven marketplace ports against the
// Estately REST API (JSON over HTTPS).
//
// Requests are throttled by a token bucket and by the backend's
// X-RateLimit headers, carry a bearer token when a user is signed in, and
// are tagged with an X-Request-ID. Failures are returned as *APIError or
// *RateLimitError, both of which match domain.ErrNetwork with errors.Is.
package marketplace
