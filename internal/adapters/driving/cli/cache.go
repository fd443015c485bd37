package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage locally cached data",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached listings, cities, photos and recent suggestions",
	Long: `Clears everything estately caches locally. The selected city,
favourites and settings are kept.`,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil || suggestionService == nil || cityService == nil || photoService == nil {
		return errors.New("cache services not configured")
	}
	ctx := cmd.Context()

	discoveryService.ClearCache()

	if err := suggestionService.ClearRecent(ctx); err != nil {
		return fmt.Errorf("clear recent suggestions: %w", err)
	}
	if err := cityService.Forget(ctx); err != nil {
		return err
	}
	photos, err := photoService.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear photos: %w", err)
	}

	cmd.Printf("Cache cleared (%d photos).\n", photos)
	return nil
}
