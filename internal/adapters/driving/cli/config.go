package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change settings stored in ~/.estately/config.toml.

Keys:
  api.base_url                   marketplace API root
  api.timeout_seconds            request timeout (1-120)
  api.requests_per_second        client-side rate limit (1-100)
  search.debounce_ms             suggestion quiet period (50-5000)
  search.min_query_length        characters before suggestions are fetched (1-20)
  favorites.rollback_on_failure  undo a like when the backend rejects it
  data.dir                       local database directory`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	for _, key := range settingsService.Keys() {
		cmd.Printf("%-30s %v\n", key, settingDisplay(settings, key))
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key := args[0]
	if !slices.Contains(settingsService.Keys(), key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Println(settingDisplay(settings, key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func settingDisplay(s *domain.AppSettings, key string) any {
	switch key {
	case "api.base_url":
		return s.API.BaseURL
	case "api.timeout_seconds":
		return s.API.TimeoutSeconds
	case "api.requests_per_second":
		return s.API.RequestsPerSecond
	case "search.debounce_ms":
		return s.Suggest.DebounceMS
	case "search.min_query_length":
		return s.Suggest.MinQueryLength
	case "favorites.rollback_on_failure":
		return s.Favorites.RollbackOnFailure
	case "data.dir":
		if s.Data.Dir == "" {
			return "(default)"
		}
		return s.Data.Dir
	default:
		return ""
	}
}
