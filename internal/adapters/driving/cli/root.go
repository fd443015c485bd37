package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired by main.
var (
	discoveryService  driving.DiscoveryService
	suggestionService driving.SuggestionService
	favoriteService   driving.FavoriteService
	cityService       driving.CityService
	photoService      driving.PhotoService
	settingsService   driving.SettingsService
	sessionService    driving.SessionService
	configWatcher     ConfigWatcher
	dataDir           string
)

// ConfigWatcher reports changes to the configuration file.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services holds the driving ports the commands use.
type Services struct {
	Discovery   driving.DiscoveryService
	Suggestions driving.SuggestionService
	Favorites   driving.FavoriteService
	Cities      driving.CityService
	Photos      driving.PhotoService
	Settings    driving.SettingsService
	Session     driving.SessionService
	Watcher     ConfigWatcher

	// DataDir is where long-running commands write their log file.
	DataDir string
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	discoveryService = s.Discovery
	suggestionService = s.Suggestions
	favoriteService = s.Favorites
	cityService = s.Cities
	photoService = s.Photos
	settingsService = s.Settings
	sessionService = s.Session
	configWatcher = s.Watcher
	dataDir = s.DataDir
}

// SetVersion sets the version reported by `estately version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "estately",
	Short: "Discover property listings from the terminal",
	Long: `Estately finds properties to buy or rent.

Browse listings with filters for category, segment, bedrooms, budget and
occupancy, get location suggestions as you type, and keep a list of
favourites in sync with your account.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
