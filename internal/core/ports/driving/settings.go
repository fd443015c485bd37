package driving

import "github.com/custodia-labs/estately-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key.
	Set(key, value string) error

	// Validate checks the stored settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists the settable keys.
	Keys() []string
}

// SessionService signs users in and out.
type SessionService interface {
	// Login records the user and bearer token.
	Login(userID, token string) error

	// Logout clears the session.
	Logout() error

	// Current returns the active session.
	Current() domain.Session
}
