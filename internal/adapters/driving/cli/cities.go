package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List and choose cities",
	RunE:  runCitiesList,
}

var citiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported cities",
	RunE:  runCitiesList,
}

var citiesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refetch the city list",
	RunE:  runCitiesRefresh,
}

var citiesSetCmd = &cobra.Command{
	Use:   "set [city]",
	Short: "Choose the city to search in",
	Long:  `Choose the city used by listings and suggestions. Pass "" to clear it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCitiesSet,
}

func init() {
	citiesCmd.AddCommand(citiesListCmd)
	citiesCmd.AddCommand(citiesRefreshCmd)
	citiesCmd.AddCommand(citiesSetCmd)
	rootCmd.AddCommand(citiesCmd)
}

func runCitiesList(cmd *cobra.Command, _ []string) error {
	if cityService == nil {
		return errors.New("city service not configured")
	}
	cities, err := cityService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cities: %w", err)
	}
	printCities(cmd, cities, cityService.Current(cmd.Context()))
	return nil
}

func runCitiesRefresh(cmd *cobra.Command, _ []string) error {
	if cityService == nil {
		return errors.New("city service not configured")
	}
	cities, err := cityService.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh cities: %w", err)
	}
	printCities(cmd, cities, cityService.Current(cmd.Context()))
	return nil
}

func runCitiesSet(cmd *cobra.Command, args []string) error {
	if cityService == nil {
		return errors.New("city service not configured")
	}
	ctx := cmd.Context()
	city := strings.TrimSpace(args[0])

	if city != "" {
		cities, err := cityService.List(ctx)
		if err != nil {
			return fmt.Errorf("list cities: %w", err)
		}
		match, ok := findCity(cities, city)
		if !ok {
			return fmt.Errorf("%w: unknown city %q (see 'estately cities list')", domain.ErrInvalidInput, city)
		}
		city = match
	}

	if err := cityService.SetCurrent(ctx, city); err != nil {
		return err
	}
	if city == "" {
		cmd.Println("City cleared.")
	} else {
		cmd.Printf("City set to %s\n", city)
	}
	return nil
}

func findCity(cities []domain.City, name string) (string, bool) {
	for _, c := range cities {
		if strings.EqualFold(c.Name, name) {
			return c.Name, true
		}
	}
	return "", false
}

func printCities(cmd *cobra.Command, cities []domain.City, current string) {
	if len(cities) == 0 {
		cmd.Println("No cities available.")
		return
	}
	for _, c := range cities {
		marker := " "
		if c.Name == current {
			marker = "*"
		}
		cmd.Printf(" %s %s\n", marker, c.Name)
	}
}
