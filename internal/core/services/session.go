package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService signs users in and out.
type SessionService struct {
	provider driven.SessionProvider
}

// NewSessionService creates a session service.
func NewSessionService(provider driven.SessionProvider) *SessionService {
	return &SessionService{provider: provider}
}

// Login records the user and bearer token. The token may be empty for
// backends that only need the user ID.
func (s *SessionService) Login(userID, token string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := s.provider.SignIn(domain.Session{UserID: userID, Token: strings.TrimSpace(token)}); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	logger.Info("session: signed in as %s", userID)
	return nil
}

// Logout clears the session.
func (s *SessionService) Logout() error {
	if err := s.provider.SignOut(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	logger.Info("session: signed out")
	return nil
}

// Current returns the active session.
func (s *SessionService) Current() domain.Session {
	return s.provider.Current()
}
