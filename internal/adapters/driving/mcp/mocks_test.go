package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// mockDiscoveryService is a mock implementation of driving.DiscoveryService.
// ApplyFilter applies the update to its filter and, when the query changed,
// serves the next page from pages.
type mockDiscoveryService struct {
	mu        sync.Mutex
	state     domain.DiscoveryState
	pages     [][]domain.Property
	applyErr  error
	fetchErr  error
	applied   []domain.FilterUpdate
	loadMores int
	refreshes int
}

func (m *mockDiscoveryService) Start(_ context.Context) error { return nil }

func (m *mockDiscoveryService) ApplyFilter(_ context.Context, update domain.FilterUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, update)
	if m.applyErr != nil {
		return m.applyErr
	}
	next, changed, err := m.state.Filter.Apply(update)
	if err != nil {
		return err
	}
	m.state.Filter = next
	if changed {
		m.fetch(1)
	}
	return nil
}

// fetch serves page n. Page 1 starts a new generation even when it fails.
// Callers hold mu.
func (m *mockDiscoveryService) fetch(n int) {
	if n == 1 {
		m.state.Results = nil
		m.state.Err = nil
		m.state.Generation++
	}
	m.state.Status = domain.FetchLoaded
	if m.fetchErr != nil {
		m.state.Status = domain.FetchFailed
		m.state.Err = m.fetchErr
		m.state.HasMore = false
		return
	}
	if n <= len(m.pages) {
		m.state.Results = append(m.state.Results, m.pages[n-1]...)
		m.state.Page = n
	}
	m.state.HasMore = n < len(m.pages)
}

func (m *mockDiscoveryService) ClearFilters(_ context.Context) error { return nil }

func (m *mockDiscoveryService) SetCity(_ context.Context, _ string) error { return nil }

func (m *mockDiscoveryService) Search(_ context.Context, _ string) error { return nil }

func (m *mockDiscoveryService) Suggest(_ context.Context, _ string) ([]domain.Suggestion, error) {
	return nil, nil
}

func (m *mockDiscoveryService) LoadMore(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadMores++
	if m.state.HasMore {
		m.fetch(m.state.Page + 1)
	}
	return nil
}

func (m *mockDiscoveryService) Refresh(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	m.fetch(1)
	return nil
}

func (m *mockDiscoveryService) ToggleFavorite(_ context.Context, _ domain.Property) error { return nil }

func (m *mockDiscoveryService) ClearCache() {}

func (m *mockDiscoveryService) State() domain.DiscoveryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockDiscoveryService) Subscribe(_ func(domain.DiscoveryState)) func() {
	return func() {}
}

// mockSuggestionService is a mock implementation of driving.SuggestionService.
type mockSuggestionService struct {
	suggestions []domain.Suggestion
	err         error
	gotCity     string
	gotText     string
}

func (m *mockSuggestionService) Query(_ context.Context, city, text string) ([]domain.Suggestion, error) {
	m.gotCity = city
	m.gotText = text
	return m.suggestions, m.err
}

func (m *mockSuggestionService) Remember(_ context.Context, _ domain.Suggestion) error { return nil }

func (m *mockSuggestionService) Recent(_ context.Context) domain.RecentSuggestions { return nil }

func (m *mockSuggestionService) ClearRecent(_ context.Context) error { return nil }

// mockFavoriteService is a mock implementation of driving.FavoriteService.
type mockFavoriteService struct {
	liked domain.FavoriteSet
	err   error
}

func (m *mockFavoriteService) Toggle(_ context.Context, propertyID, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.liked, _ = m.liked.Toggled(propertyID)
	return nil
}

func (m *mockFavoriteService) Sync(_ context.Context) error { return nil }

func (m *mockFavoriteService) Liked() domain.FavoriteSet { return m.liked.Clone() }

func (m *mockFavoriteService) Subscribe(_ func(domain.FavoriteSet)) func() { return func() {} }

// mockCityService is a mock implementation of driving.CityService.
type mockCityService struct {
	cities  []domain.City
	current string
	err     error
}

func (m *mockCityService) List(_ context.Context) ([]domain.City, error) { return m.cities, m.err }

func (m *mockCityService) Refresh(_ context.Context) ([]domain.City, error) { return m.cities, m.err }

func (m *mockCityService) Current(_ context.Context) string { return m.current }

func (m *mockCityService) SetCurrent(_ context.Context, city string) error {
	m.current = city
	return nil
}

func (m *mockCityService) Forget(_ context.Context) error { return nil }

func newDiscovery(pages ...[]domain.Property) *mockDiscoveryService {
	return &mockDiscoveryService{
		state: domain.DiscoveryState{Filter: domain.DefaultFilterState()},
		pages: pages,
	}
}

func testPorts() *Ports {
	return &Ports{
		Discovery:   newDiscovery(),
		Suggestions: &mockSuggestionService{},
	}
}
