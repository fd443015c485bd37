package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure CityService implements the interface.
var _ driving.CityService = (*CityService)(nil)

// CityService lists supported cities and remembers the active one.
// The city list is fetched once and kept in the local store.
type CityService struct {
	client driven.CityClient
	store  driven.KeyValueStore
}

// NewCityService creates a city service.
func NewCityService(client driven.CityClient, store driven.KeyValueStore) *CityService {
	return &CityService{client: client, store: store}
}

// List returns the locally cached cities, fetching them on first use.
func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	data, err := s.store.Get(ctx, driven.KeyCities)
	switch {
	case err == nil:
		var cities []domain.City
		if jsonErr := json.Unmarshal(data, &cities); jsonErr == nil {
			return cities, nil
		}
		logger.Warn("cities: corrupt cache, refetching")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("load cities: %w", err)
	}
	return s.Refresh(ctx)
}

// Refresh fetches the city list and replaces the cached copy.
func (s *CityService) Refresh(ctx context.Context) ([]domain.City, error) {
	cities, err := s.client.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cities: %w", err)
	}
	data, err := json.Marshal(cities)
	if err != nil {
		return nil, fmt.Errorf("encode cities: %w", err)
	}
	if err := s.store.Set(ctx, driven.KeyCities, data); err != nil {
		return nil, fmt.Errorf("save cities: %w", err)
	}
	logger.Debug("cities: cached %d cities", len(cities))
	return cities, nil
}

// Current returns the persisted active city, or empty when none is set.
func (s *CityService) Current(ctx context.Context) string {
	data, err := s.store.Get(ctx, driven.KeyCity)
	if err != nil {
		return ""
	}
	return string(data)
}

// SetCurrent persists the active city. An empty city clears it.
func (s *CityService) SetCurrent(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		if err := s.store.Delete(ctx, driven.KeyCity); err != nil {
			return fmt.Errorf("clear city: %w", err)
		}
		return nil
	}
	if err := s.store.Set(ctx, driven.KeyCity, []byte(city)); err != nil {
		return fmt.Errorf("save city: %w", err)
	}
	return nil
}

// Forget drops the cached city list.
func (s *CityService) Forget(ctx context.Context) error {
	if err := s.store.Delete(ctx, driven.KeyCities); err != nil {
		return fmt.Errorf("clear cities: %w", err)
	}
	return nil
}
