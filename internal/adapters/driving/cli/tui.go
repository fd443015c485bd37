package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// tuiLogFile receives verbose output while the TUI owns the terminal.
const tuiLogFile = "tui.log"

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Estately.

The TUI lets you browse listings with live filters, pick locations from
suggestions as you type, like properties and switch cities, all with
keyboard navigation. Changes made to the config file from another terminal
(for example 'estately auth login') are picked up while it runs.

Controls:
  ↑/k, ↓/j - Navigate listings
  Enter    - Search / Select
  Tab      - Next category
  f        - Like / unlike
  Esc      - Back / Cancel
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log lines written to stderr would corrupt the alt screen.
	if logger.IsVerbose() && dataDir != "" {
		restore, err := logger.ToFile(dataDir, tuiLogFile)
		if err != nil {
			return err
		}
		defer restore()
	}

	watchConfig(ctx)

	ports := &tui.Ports{
		Discovery:   discoveryService,
		Suggestions: suggestionService,
		Favorites:   favoriteService,
		Cities:      cityService,
		Photos:      photoService,
		Settings:    settingsService,
		Session:     sessionService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchConfig resyncs favourites whenever the config file changes, since
// a login or logout in another terminal changes whose favourites apply.
func watchConfig(ctx context.Context) {
	if configWatcher == nil || favoriteService == nil {
		return
	}
	err := configWatcher.Watch(ctx, func() {
		if err := favoriteService.Sync(ctx); err != nil {
			logger.Warn("favorites: resync after config change: %v", err)
		}
	})
	if err != nil {
		logger.Warn("config: not watching for changes: %v", err)
	}
}
