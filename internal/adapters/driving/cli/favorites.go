package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage liked properties",
	Long:    `List and toggle the properties you have liked. Requires 'estately auth login'.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List liked properties",
	RunE:  runFavoritesList,
}

var favoritesToggleName string

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle [property-id]",
	Short: "Like or unlike a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

func init() {
	favoritesToggleCmd.Flags().StringVar(&favoritesToggleName, "name", "", "property name sent with the toggle")
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func requireSignedIn() error {
	if sessionService == nil || !sessionService.Current().IsSignedIn() {
		return fmt.Errorf("%w (run 'estately auth login')", domain.ErrUnauthenticated)
	}
	return nil
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	if favoriteService == nil {
		return errors.New("favorite service not configured")
	}
	if err := requireSignedIn(); err != nil {
		return err
	}

	if err := favoriteService.Sync(cmd.Context()); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	ids := favoriteService.Liked().IDs()
	if len(ids) == 0 {
		cmd.Println("No liked properties yet.")
		return nil
	}

	cmd.Printf("Liked properties (%d):\n", len(ids))
	for _, id := range ids {
		cmd.Printf("  ♥ %s\n", id)
	}
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	if favoriteService == nil {
		return errors.New("favorite service not configured")
	}
	if err := requireSignedIn(); err != nil {
		return err
	}
	ctx := cmd.Context()
	id := args[0]

	// The toggle reconciles against the remote list, so start from it.
	if err := favoriteService.Sync(ctx); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	if err := favoriteService.Toggle(ctx, id, favoritesToggleName); err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}

	if favoriteService.Liked().Contains(id) {
		cmd.Printf("Liked %s\n", id)
	} else {
		cmd.Printf("Unliked %s\n", id)
	}
	return nil
}
