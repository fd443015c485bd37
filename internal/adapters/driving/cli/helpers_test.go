package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// mockDiscovery implements driving.DiscoveryService. ApplyFilter applies
// the update to the filter and serves pages[0] when the query changed.
type mockDiscovery struct {
	mu         sync.Mutex
	state      domain.DiscoveryState
	pages      [][]domain.Property
	applied    []domain.FilterUpdate
	refreshes  int
	loadMores  int
	cleared    bool
	fetchErr   error
	applyErr   error
	toggleErrs map[string]error
}

func newMockDiscovery(pages ...[]domain.Property) *mockDiscovery {
	return &mockDiscovery{
		state: domain.DiscoveryState{Filter: domain.DefaultFilterState()},
		pages: pages,
	}
}

func (m *mockDiscovery) fetch(n int) {
	m.state.Status = domain.FetchLoaded
	if m.fetchErr != nil {
		m.state.Err = m.fetchErr
		return
	}
	if n == 1 {
		m.state.Results = nil
	}
	if n <= len(m.pages) {
		m.state.Results = append(m.state.Results, m.pages[n-1]...)
		m.state.Page = n
	}
	m.state.HasMore = n < len(m.pages)
}

func (m *mockDiscovery) Start(_ context.Context) error { return nil }

func (m *mockDiscovery) ApplyFilter(_ context.Context, u domain.FilterUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, u)
	if m.applyErr != nil {
		return m.applyErr
	}
	next, changed, err := m.state.Filter.Apply(u)
	if err != nil {
		return err
	}
	m.state.Filter = next
	if changed {
		m.fetch(1)
	}
	return nil
}

func (m *mockDiscovery) ClearFilters(_ context.Context) error { return nil }

func (m *mockDiscovery) SetCity(_ context.Context, _ string) error { return nil }

func (m *mockDiscovery) Search(_ context.Context, _ string) error { return nil }

func (m *mockDiscovery) Suggest(_ context.Context, _ string) ([]domain.Suggestion, error) {
	return nil, nil
}

func (m *mockDiscovery) LoadMore(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadMores++
	if m.state.HasMore {
		m.fetch(m.state.Page + 1)
	}
	return nil
}

func (m *mockDiscovery) Refresh(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	m.fetch(1)
	return nil
}

func (m *mockDiscovery) ToggleFavorite(_ context.Context, p domain.Property) error {
	return m.toggleErrs[p.ID]
}

func (m *mockDiscovery) ClearCache() { m.cleared = true }

func (m *mockDiscovery) State() domain.DiscoveryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockDiscovery) Subscribe(_ func(domain.DiscoveryState)) func() { return func() {} }

// mockSuggestions implements driving.SuggestionService.
type mockSuggestions struct {
	results    []domain.Suggestion
	recent     domain.RecentSuggestions
	err        error
	gotCity    string
	gotText    string
	remembered []domain.Suggestion
	cleared    bool
}

func (m *mockSuggestions) Query(_ context.Context, city, text string) ([]domain.Suggestion, error) {
	m.gotCity, m.gotText = city, text
	if m.err != nil {
		return nil, m.err
	}
	if len([]rune(text)) < domain.DefaultMinQueryLength {
		return m.recent, nil
	}
	return domain.MergeSuggestions(m.recent, m.results, domain.MaxSuggestions), nil
}

func (m *mockSuggestions) Remember(_ context.Context, s domain.Suggestion) error {
	m.remembered = append(m.remembered, s)
	m.recent = m.recent.Push(s)
	return nil
}

func (m *mockSuggestions) Recent(_ context.Context) domain.RecentSuggestions { return m.recent }

func (m *mockSuggestions) ClearRecent(_ context.Context) error {
	m.cleared = true
	m.recent = nil
	return nil
}

// mockFavorites implements driving.FavoriteService.
type mockFavorites struct {
	remote    domain.FavoriteSet
	liked     domain.FavoriteSet
	syncErr   error
	toggleErr error
	syncs     int
	toggled   []string
}

func (m *mockFavorites) Toggle(_ context.Context, id, name string) error {
	m.toggled = append(m.toggled, id+"|"+name)
	if m.toggleErr != nil {
		return m.toggleErr
	}
	m.remote, _ = m.remote.Toggled(id)
	m.liked = m.remote.Clone()
	return nil
}

func (m *mockFavorites) Sync(_ context.Context) error {
	m.syncs++
	if m.syncErr != nil {
		return m.syncErr
	}
	m.liked = m.remote.Clone()
	return nil
}

func (m *mockFavorites) Liked() domain.FavoriteSet { return m.liked.Clone() }

func (m *mockFavorites) Subscribe(_ func(domain.FavoriteSet)) func() { return func() {} }

// mockCities implements driving.CityService.
type mockCities struct {
	cities    []domain.City
	current   string
	err       error
	refreshed bool
	forgotten bool
}

func (m *mockCities) List(_ context.Context) ([]domain.City, error) { return m.cities, m.err }

func (m *mockCities) Refresh(_ context.Context) ([]domain.City, error) {
	m.refreshed = true
	return m.cities, m.err
}

func (m *mockCities) Current(_ context.Context) string { return m.current }

func (m *mockCities) SetCurrent(_ context.Context, city string) error {
	m.current = city
	return nil
}

func (m *mockCities) Forget(_ context.Context) error {
	m.forgotten = true
	return nil
}

// mockPhotos implements driving.PhotoService.
type mockPhotos struct {
	cached int
}

func (m *mockPhotos) Resolve(_ context.Context, p domain.Property) string { return "" }

func (m *mockPhotos) Clear(_ context.Context) (int, error) {
	n := m.cached
	m.cached = 0
	return n, nil
}

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings    domain.AppSettings
	setErr      error
	validateErr error
	set         map[string]string
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout_seconds",
		"api.requests_per_second",
		"search.debounce_ms",
		"search.min_query_length",
		"favorites.rollback_on_failure",
		"data.dir",
	}
}

// mockSession implements driving.SessionService.
type mockSession struct {
	session domain.Session
}

func (m *mockSession) Login(userID, token string) error {
	m.session = domain.Session{UserID: userID, Token: token}
	return nil
}

func (m *mockSession) Logout() error {
	m.session = domain.Session{}
	return nil
}

func (m *mockSession) Current() domain.Session { return m.session }

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	discovery   *mockDiscovery
	suggestions *mockSuggestions
	favorites   *mockFavorites
	cities      *mockCities
	photos      *mockPhotos
	settings    *mockSettings
	session     *mockSession
}

// setupTestServices installs fresh mocks and removes them after the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		discovery:   newMockDiscovery(),
		suggestions: &mockSuggestions{},
		favorites:   &mockFavorites{remote: domain.NewFavoriteSet(), liked: domain.NewFavoriteSet()},
		cities:      &mockCities{},
		photos:      &mockPhotos{},
		settings:    newMockSettings(),
		session:     &mockSession{},
	}
	SetServices(&Services{
		Discovery:   ts.discovery,
		Suggestions: ts.suggestions,
		Favorites:   ts.favorites,
		Cities:      ts.cities,
		Photos:      ts.photos,
		Settings:    ts.settings,
		Session:     ts.session,
	})
	t.Cleanup(func() { SetServices(&Services{}) })
	return ts
}

// resetFlags restores every flag of cmd and its children to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func testProperty(id, name string, price float64) domain.Property {
	return domain.Property{
		ID:       id,
		Name:     name,
		Price:    price,
		SubType:  "Apartment",
		Bedrooms: "2 BHK",
		Locality: "Kondapur",
		City:     "Hyderabad",
	}
}
