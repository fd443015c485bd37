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

// mockCityClient implements driven.CityClient for testing.
type mockCityClient struct {
	cities []domain.City
	err    error
	calls  int
}

func (m *mockCityClient) ListCities(_ context.Context) ([]domain.City, error) {
	m.calls++
	return m.cities, m.err
}

func TestCityService_ListFetchesOnce(t *testing.T) {
	ctx := context.Background()
	client := &mockCityClient{cities: []domain.City{{Name: "Hyderabad"}, {Name: "Pune"}}}
	svc := NewCityService(client, memory.NewKVStore())

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, client.calls)
}

func TestCityService_RefreshRefetches(t *testing.T) {
	ctx := context.Background()
	client := &mockCityClient{cities: []domain.City{{Name: "Hyderabad"}}}
	svc := NewCityService(client, memory.NewKVStore())
	_, err := svc.List(ctx)
	require.NoError(t, err)

	client.cities = append(client.cities, domain.City{Name: "Chennai"})
	cities, err := svc.Refresh(ctx)

	require.NoError(t, err)
	assert.Len(t, cities, 2)
	assert.Equal(t, 2, client.calls)
}

func TestCityService_ListError(t *testing.T) {
	client := &mockCityClient{err: errors.New("offline")}
	svc := NewCityService(client, memory.NewKVStore())

	_, err := svc.List(context.Background())

	assert.Error(t, err)
}

func TestCityService_CorruptCacheRefetches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, driven.KeyCities, []byte("garbage")))
	client := &mockCityClient{cities: []domain.City{{Name: "Pune"}}}

	cities, err := NewCityService(client, store).List(ctx)

	require.NoError(t, err)
	assert.Equal(t, []domain.City{{Name: "Pune"}}, cities)
}

func TestCityService_CurrentCity(t *testing.T) {
	ctx := context.Background()
	svc := NewCityService(&mockCityClient{}, memory.NewKVStore())
	assert.Empty(t, svc.Current(ctx))

	require.NoError(t, svc.SetCurrent(ctx, " Hyderabad "))
	assert.Equal(t, "Hyderabad", svc.Current(ctx))

	require.NoError(t, svc.SetCurrent(ctx, ""))
	assert.Empty(t, svc.Current(ctx))
}

func TestCityService_Forget(t *testing.T) {
	ctx := context.Background()
	client := &mockCityClient{cities: []domain.City{{Name: "Pune"}}}
	svc := NewCityService(client, memory.NewKVStore())
	_, _ = svc.List(ctx)

	require.NoError(t, svc.Forget(ctx))
	_, _ = svc.List(ctx)

	assert.Equal(t, 2, client.calls)
}

func TestPhotoCache_Resolve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	cache := NewPhotoCache(store)
	p := domain.Property{ID: "p1", Photos: []string{"https://img/1.jpg", "https://img/2.jpg"}}

	assert.Equal(t, "https://img/1.jpg", cache.Resolve(ctx, p))

	p.Photos = []string{"https://img/new.jpg"}
	assert.Equal(t, "https://img/1.jpg", cache.Resolve(ctx, p), "cached URL wins")

	n, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "https://img/new.jpg", cache.Resolve(ctx, p))
}

func TestPhotoCache_NoPhotos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()

	assert.Empty(t, NewPhotoCache(store).Resolve(ctx, domain.Property{ID: "p1"}))
	keys, err := store.Keys(ctx, driven.KeyPhotoPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
