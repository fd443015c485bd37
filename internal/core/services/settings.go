package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIBaseURL        = "api.base_url"
	KeyAPITimeout        = "api.timeout_seconds"
	KeyAPIRate           = "api.requests_per_second"
	KeyDebounceMS        = "search.debounce_ms"
	KeyMinQueryLength    = "search.min_query_length"
	KeyRollbackOnFailure = "favorites.rollback_on_failure"
	KeyDataDir           = "data.dir"
)

// EnvAPIURL overrides the configured API base URL.
const EnvAPIURL = "ESTATELY_API_URL"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Unset keys take defaults
// and the environment overrides the API base URL.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:           s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			TimeoutSeconds:    s.getInt(KeyAPITimeout, defaults.API.TimeoutSeconds),
			RequestsPerSecond: s.getInt(KeyAPIRate, defaults.API.RequestsPerSecond),
		},
		Suggest: domain.SuggestSettings{
			DebounceMS:     s.getInt(KeyDebounceMS, defaults.Suggest.DebounceMS),
			MinQueryLength: s.getInt(KeyMinQueryLength, defaults.Suggest.MinQueryLength),
		},
		Favorites: domain.FavoriteSettings{
			RollbackOnFailure: s.getBool(KeyRollbackOnFailure, defaults.Favorites.RollbackOnFailure),
		},
		Data: domain.DataSettings{
			Dir: s.configStore.GetString(KeyDataDir),
		},
	}

	if url, ok := s.lookupEnv(EnvAPIURL); ok && url != "" {
		settings.API.BaseURL = url
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.check(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyAPIBaseURL, settings.API.BaseURL},
		{KeyAPITimeout, settings.API.TimeoutSeconds},
		{KeyAPIRate, settings.API.RequestsPerSecond},
		{KeyDebounceMS, settings.Suggest.DebounceMS},
		{KeyMinQueryLength, settings.Suggest.MinQueryLength},
		{KeyRollbackOnFailure, settings.Favorites.RollbackOnFailure},
		{KeyDataDir, settings.Data.Dir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyAPIBaseURL:
		settings.API.BaseURL = value
	case KeyDataDir:
		settings.Data.Dir = value
	case KeyAPITimeout, KeyAPIRate, KeyDebounceMS, KeyMinQueryLength:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		switch key {
		case KeyAPITimeout:
			settings.API.TimeoutSeconds = n
		case KeyAPIRate:
			settings.API.RequestsPerSecond = n
		case KeyDebounceMS:
			settings.Suggest.DebounceMS = n
		default:
			settings.Suggest.MinQueryLength = n
		}
	case KeyRollbackOnFailure:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Favorites.RollbackOnFailure = b
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.check(settings); err != nil {
		return err
	}
	if err := s.configStore.Set(key, settingValue(settings, key)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.check(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys returns every supported setting key.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyAPIBaseURL, KeyAPITimeout, KeyAPIRate,
		KeyDebounceMS, KeyMinQueryLength,
		KeyRollbackOnFailure, KeyDataDir,
	}
}

func (s *SettingsService) check(settings *domain.AppSettings) error {
	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.ActualTag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("validate settings: %w", err)
}

func settingValue(settings *domain.AppSettings, key string) any {
	switch key {
	case KeyAPIBaseURL:
		return settings.API.BaseURL
	case KeyAPITimeout:
		return settings.API.TimeoutSeconds
	case KeyAPIRate:
		return settings.API.RequestsPerSecond
	case KeyDebounceMS:
		return settings.Suggest.DebounceMS
	case KeyMinQueryLength:
		return settings.Suggest.MinQueryLength
	case KeyRollbackOnFailure:
		return settings.Favorites.RollbackOnFailure
	default:
		return settings.Data.Dir
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
