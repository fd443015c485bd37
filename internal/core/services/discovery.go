package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure DiscoveryController implements the interface.
var _ driving.DiscoveryService = (*DiscoveryController)(nil)

// DiscoveryController owns the filter state of one discovery session and
// routes every change through the fetcher, the suggestion engine and the
// favourite store. Filter edits and generation bumps happen under one lock.
type DiscoveryController struct {
	fetcher     *PaginatedFetcher
	suggestions driving.SuggestionService
	favorites   driving.FavoriteService
	cities      driving.CityService

	mu     sync.Mutex
	filter domain.FilterState

	notifyMu  sync.Mutex
	listeners map[int]func(domain.DiscoveryState)
	nextID    int

	unsubscribe []func()
}

// NewDiscoveryController creates a controller starting from initial.
// Use domain.DefaultFilterState for a fresh session.
func NewDiscoveryController(
	fetcher *PaginatedFetcher,
	suggestions driving.SuggestionService,
	favorites driving.FavoriteService,
	cities driving.CityService,
	initial domain.FilterState,
) *DiscoveryController {
	c := &DiscoveryController{
		fetcher:     fetcher,
		suggestions: suggestions,
		favorites:   favorites,
		cities:      cities,
		filter:      initial,
		listeners:   make(map[int]func(domain.DiscoveryState)),
	}
	c.unsubscribe = append(c.unsubscribe,
		fetcher.Subscribe(func(FetchSnapshot) { c.notify() }),
		favorites.Subscribe(func(domain.FavoriteSet) { c.notify() }),
	)
	return c
}

// Start restores the persisted city, loads favourites and fetches page 1.
func (c *DiscoveryController) Start(ctx context.Context) error {
	logger.Section("Discovery")

	if city := c.cities.Current(ctx); city != "" {
		c.mu.Lock()
		if c.filter.City == "" {
			c.filter.City = city
		}
		c.mu.Unlock()
	}

	if err := c.favorites.Sync(ctx); err != nil {
		logger.Warn("discovery: load favourites: %v", err)
	}

	return c.update(ctx, func(f domain.FilterState) (domain.FilterState, bool, error) {
		return f, true, nil
	})
}

// ApplyFilter merges a partial update and refetches when the query changed.
func (c *DiscoveryController) ApplyFilter(ctx context.Context, update domain.FilterUpdate) error {
	return c.update(ctx, func(f domain.FilterState) (domain.FilterState, bool, error) {
		return f.Apply(update)
	})
}

// ClearFilters restores default filters, keeping the city.
func (c *DiscoveryController) ClearFilters(ctx context.Context) error {
	return c.update(ctx, func(f domain.FilterState) (domain.FilterState, bool, error) {
		next, refetch := f.Reset()
		return next, refetch, nil
	})
}

// SetCity persists the city and searches in it.
func (c *DiscoveryController) SetCity(ctx context.Context, city string) error {
	if err := c.cities.SetCurrent(ctx, city); err != nil {
		return err
	}
	return c.ApplyFilter(ctx, domain.FilterUpdate{City: &city})
}

// Search submits free text. Submitting unchanged text still reloads page 1.
func (c *DiscoveryController) Search(ctx context.Context, text string) error {
	return c.update(ctx, func(f domain.FilterState) (domain.FilterState, bool, error) {
		next, _, err := f.Apply(domain.FilterUpdate{SearchText: &text})
		return next, true, err
	})
}

// Suggest returns autocomplete entries for text in the active city.
func (c *DiscoveryController) Suggest(ctx context.Context, text string) ([]domain.Suggestion, error) {
	c.mu.Lock()
	city := c.filter.City
	c.mu.Unlock()
	return c.suggestions.Query(ctx, city, text)
}

// LoadMore fetches the next page of the active query.
func (c *DiscoveryController) LoadMore(ctx context.Context) error {
	return c.fetcher.LoadMore(ctx)
}

// Refresh reloads page 1 of the active query from the network.
func (c *DiscoveryController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	req, ok := c.fetcher.beginReset(c.filter.Query(1), false)
	c.mu.Unlock()

	c.fetcher.notify()
	if !ok {
		return nil
	}
	return c.fetcher.run(ctx, req)
}

// ToggleFavorite flips the liked state of a property.
func (c *DiscoveryController) ToggleFavorite(ctx context.Context, property domain.Property) error {
	return c.favorites.Toggle(ctx, property.ID, property.Name)
}

// ClearCache drops every cached first page.
func (c *DiscoveryController) ClearCache() {
	n := c.fetcher.ClearCache()
	logger.Debug("discovery: cleared %d cached queries", n)
}

// State returns a snapshot of the read model.
func (c *DiscoveryController) State() domain.DiscoveryState {
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	snap := c.fetcher.Snapshot()
	return domain.DiscoveryState{
		Results:    snap.Cursor.Results,
		Status:     snap.Status,
		Loading:    snap.Loading,
		HasMore:    snap.Cursor.HasMore,
		Err:        snap.Err,
		Filter:     filter,
		Page:       snap.Cursor.Page,
		Generation: snap.Cursor.Generation,
		Liked:      c.favorites.Liked(),
	}
}

// Subscribe registers fn to receive every read model change.
// Listeners must not call back into the controller synchronously.
func (c *DiscoveryController) Subscribe(fn func(domain.DiscoveryState)) func() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		delete(c.listeners, id)
	}
}

// Close detaches the controller from the fetcher and favourite store.
func (c *DiscoveryController) Close() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

// update applies fn to the filter and, when it asks for a refetch, starts
// a new generation before releasing the lock. The network call runs after.
func (c *DiscoveryController) update(
	ctx context.Context,
	fn func(domain.FilterState) (domain.FilterState, bool, error),
) error {
	c.mu.Lock()
	next, refetch, err := fn(c.filter)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.filter = next

	var (
		req fetchRequest
		run bool
	)
	if refetch {
		req, run = c.fetcher.beginReset(next.Query(1), true)
	}
	c.mu.Unlock()

	if !refetch {
		c.notify()
		return nil
	}
	c.fetcher.notify()
	if !run {
		return nil
	}
	return c.fetcher.run(ctx, req)
}

func (c *DiscoveryController) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if len(c.listeners) == 0 {
		return
	}
	state := c.State()
	for _, fn := range c.listeners {
		fn(state)
	}
}
