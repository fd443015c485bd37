package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
)

// failingKVStore wraps a memory store and fails writes.
type failingKVStore struct {
	*memory.KVStore
}

func (f failingKVStore) Set(_ context.Context, _ string, _ []byte) error {
	return errors.New("disk full")
}

func (f failingKVStore) DeletePrefix(_ context.Context, _ string) (int, error) {
	return 0, errors.New("disk full")
}

func TestPhotoCache_ResolveCachesFirstPhoto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	cache := NewPhotoCache(store)

	p := domain.Property{ID: "p1", Photos: []string{"https://img/1.jpg", "https://img/2.jpg"}}
	assert.Equal(t, "https://img/1.jpg", cache.Resolve(ctx, p))

	data, err := store.Get(ctx, driven.KeyPhotoPrefix+"p1")
	require.NoError(t, err)
	assert.Equal(t, "https://img/1.jpg", string(data))
}

func TestPhotoCache_ResolvePrefersCachedURL(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, driven.KeyPhotoPrefix+"p1", []byte("https://img/old.jpg")))
	cache := NewPhotoCache(store)

	p := domain.Property{ID: "p1", Photos: []string{"https://img/new.jpg"}}
	assert.Equal(t, "https://img/old.jpg", cache.Resolve(ctx, p))
}

func TestPhotoCache_ResolveWithoutPhotos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	cache := NewPhotoCache(store)

	assert.Empty(t, cache.Resolve(ctx, domain.Property{ID: "p1"}))

	keys, err := store.Keys(ctx, driven.KeyPhotoPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPhotoCache_ResolveWriteFailureStillReturnsCover(t *testing.T) {
	cache := NewPhotoCache(failingKVStore{memory.NewKVStore()})

	p := domain.Property{ID: "p1", Photos: []string{"https://img/1.jpg"}}
	assert.Equal(t, "https://img/1.jpg", cache.Resolve(context.Background(), p))
}

func TestPhotoCache_Clear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, driven.KeyRecentSuggestions, []byte("[]")))
	cache := NewPhotoCache(store)

	cache.Resolve(ctx, domain.Property{ID: "a", Photos: []string{"https://img/a.jpg"}})
	cache.Resolve(ctx, domain.Property{ID: "b", Photos: []string{"https://img/b.jpg"}})

	n, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(ctx, driven.KeyRecentSuggestions)
	assert.NoError(t, err)
}

func TestPhotoCache_ClearError(t *testing.T) {
	cache := NewPhotoCache(failingKVStore{memory.NewKVStore()})

	_, err := cache.Clear(context.Background())
	assert.ErrorContains(t, err, "clear photos")
}
