package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure PhotoCache implements the interface.
var _ driving.PhotoService = (*PhotoCache)(nil)

// PhotoCache remembers the cover photo URL of each property seen.
type PhotoCache struct {
	store driven.KeyValueStore
}

// NewPhotoCache creates a photo cache.
func NewPhotoCache(store driven.KeyValueStore) *PhotoCache {
	return &PhotoCache{store: store}
}

// Resolve returns the cached cover URL for the property. On a miss the
// property's first photo is cached and returned.
func (c *PhotoCache) Resolve(ctx context.Context, property domain.Property) string {
	key := driven.KeyPhotoPrefix + property.ID
	if data, err := c.store.Get(ctx, key); err == nil {
		return string(data)
	}
	cover := property.CoverPhoto()
	if cover == "" || property.ID == "" {
		return cover
	}
	if err := c.store.Set(ctx, key, []byte(cover)); err != nil {
		logger.Warn("photos: cache %s: %v", property.ID, err)
	}
	return cover
}

// Clear drops every cached photo URL.
func (c *PhotoCache) Clear(ctx context.Context) (int, error) {
	n, err := c.store.DeletePrefix(ctx, driven.KeyPhotoPrefix)
	if err != nil {
		return 0, fmt.Errorf("clear photos: %w", err)
	}
	return n, nil
}
