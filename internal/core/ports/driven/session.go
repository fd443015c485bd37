package driven

import "github.com/custodia-labs/estately-cli/internal/core/domain"

// SessionProvider reports the signed-in user.
// Storage of credentials is owned by the implementation.
type SessionProvider interface {
	// Current returns the active session. A zero Session means signed out.
	Current() domain.Session

	// SignIn records a session.
	SignIn(session domain.Session) error

	// SignOut clears the session.
	SignOut() error
}
