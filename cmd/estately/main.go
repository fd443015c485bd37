// Command estately discovers property listings from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/estately-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/estately-cli/internal/adapters/driven/marketplace"
	"github.com/custodia-labs/estately-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnv()
	cli.SetVersion(version)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid settings, using defaults: %v\n", err)
		defaults := settingsService.GetDefaults()
		defaults.Data = settings.Data
		settings = &defaults
	}

	store, err := sqlite.NewStore(settings.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer store.Close()
	kv := store.KeyValueStore()

	session := file.NewSessionStore(configStore)

	client, err := marketplace.NewClient(marketplace.Config{
		BaseURL:           settings.API.BaseURL,
		Timeout:           settings.API.Timeout(),
		RequestsPerSecond: settings.API.RequestsPerSecond,
		Session:           session,
	})
	if err != nil {
		return fmt.Errorf("creating marketplace client: %w", err)
	}

	fetcher := services.NewPaginatedFetcher(client, services.NewQueryCache())
	suggestions := services.NewSuggestionEngine(client, kv, settings.Suggest)
	favorites := services.NewFavoriteStore(client, session, settings.Favorites)
	cities := services.NewCityService(client, kv)
	photos := services.NewPhotoCache(kv)
	discovery := services.NewDiscoveryController(
		fetcher, suggestions, favorites, cities, domain.DefaultFilterState(),
	)
	defer discovery.Close()

	cli.SetServices(&cli.Services{
		Discovery:   discovery,
		Suggestions: suggestions,
		Favorites:   favorites,
		Cities:      cities,
		Photos:      photos,
		Settings:    settingsService,
		Session:     services.NewSessionService(session),
		Watcher:     configStore,
		DataDir:     filepath.Dir(store.Path()),
	})

	return cli.Execute()
}
