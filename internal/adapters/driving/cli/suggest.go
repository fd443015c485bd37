package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

var (
	suggestCity string
	suggestPick bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Suggest localities for a search",
	Long: `Looks up localities in a city that match the text.

Recently picked localities are listed first. Without text, only the recent
picks are shown. Use --pick to remember the first suggestion.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestCity, "city", "", "city to search in (defaults to the selected city)")
	suggestCmd.Flags().BoolVar(&suggestPick, "pick", false, "remember the first suggestion as a recent pick")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured")
	}
	ctx := cmd.Context()

	city := strings.TrimSpace(suggestCity)
	if city == "" && cityService != nil {
		city = cityService.Current(ctx)
	}
	text := ""
	if len(args) == 1 {
		text = args[0]
	}
	if text != "" && city == "" {
		return fmt.Errorf("%w: choose a city with --city or 'estately cities set'", domain.ErrInvalidInput)
	}

	suggestions, err := suggestionService.Query(ctx, city, text)
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
	}

	if len(suggestions) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}

	recent := make(map[string]bool)
	for _, r := range suggestionService.Recent(ctx) {
		recent[r.Value] = true
	}
	for _, s := range suggestions {
		marker := " "
		if recent[s.Value] {
			marker = "*"
		}
		cmd.Printf(" %s %s\n", marker, s.Label)
	}

	if suggestPick {
		if err := suggestionService.Remember(ctx, suggestions[0]); err != nil {
			return fmt.Errorf("remember suggestion: %w", err)
		}
		cmd.Printf("Remembered %q\n", suggestions[0].Label)
	}
	return nil
}
