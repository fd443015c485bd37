package file

import (
	"os"
	"strings"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
)

// Session config keys and environment overrides.
const (
	KeyUserID = "auth.user_id"
	KeyToken  = "auth.token"

	EnvUserID = "ESTATELY_USER_ID"
	EnvToken  = "ESTATELY_TOKEN"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionProvider = (*SessionStore)(nil)

// SessionStore keeps the signed-in session in the config file.
// Environment variables take precedence over stored values.
type SessionStore struct {
	config    driven.ConfigStore
	lookupEnv func(string) (string, bool)
}

// NewSessionStore creates a session store backed by config.
func NewSessionStore(config driven.ConfigStore) *SessionStore {
	return &SessionStore{config: config, lookupEnv: os.LookupEnv}
}

// Current returns the active session.
func (s *SessionStore) Current() domain.Session {
	return domain.Session{
		UserID: s.resolve(EnvUserID, KeyUserID),
		Token:  s.resolve(EnvToken, KeyToken),
	}
}

// SignIn stores the session.
func (s *SessionStore) SignIn(session domain.Session) error {
	if strings.TrimSpace(session.UserID) == "" {
		return domain.ErrInvalidInput
	}
	if err := s.config.Set(KeyUserID, strings.TrimSpace(session.UserID)); err != nil {
		return err
	}
	if session.Token == "" {
		return s.config.Delete(KeyToken)
	}
	return s.config.Set(KeyToken, session.Token)
}

// SignOut removes the stored session. Environment overrides still apply.
func (s *SessionStore) SignOut() error {
	if err := s.config.Delete(KeyUserID); err != nil {
		return err
	}
	return s.config.Delete(KeyToken)
}

func (s *SessionStore) resolve(env, key string) string {
	if v, ok := s.lookupEnv(env); ok && v != "" {
		return v
	}
	return s.config.GetString(key)
}
