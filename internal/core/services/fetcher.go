package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// FetchSnapshot is a consistent view of the fetcher state.
type FetchSnapshot struct {
	Query   domain.Query
	Cursor  domain.PaginationCursor
	Status  domain.FetchStatus
	Loading bool
	Err     error
}

// fetchRequest is a network fetch planned under the fetcher lock.
type fetchRequest struct {
	query      domain.Query
	generation uint64
	reset      bool
}

// PaginatedFetcher pages through listing results for one active query.
// Every query change bumps the generation; responses captured under an
// older generation are discarded on arrival.
type PaginatedFetcher struct {
	client driven.ListingClient
	cache  *QueryCache

	mu          sync.Mutex
	query       domain.Query
	cursor      domain.PaginationCursor
	status      domain.FetchStatus
	err         error
	inFlight    bool
	inFlightGen uint64

	notifyMu  sync.Mutex
	listeners map[int]func(FetchSnapshot)
	nextID    int
}

// NewPaginatedFetcher creates an idle fetcher.
func NewPaginatedFetcher(client driven.ListingClient, cache *QueryCache) *PaginatedFetcher {
	return &PaginatedFetcher{
		client:    client,
		cache:     cache,
		status:    domain.FetchIdle,
		listeners: make(map[int]func(FetchSnapshot)),
	}
}

// FetchPage loads the first page of q when reset is true or q is a
// different search than the active one, and the next page otherwise.
// A reset consults the query cache first.
func (f *PaginatedFetcher) FetchPage(ctx context.Context, q domain.Query, reset bool) error {
	f.mu.Lock()
	if !reset && q.Key() != f.query.Key() {
		reset = true
	}
	var (
		req fetchRequest
		ok  bool
	)
	if reset {
		req, ok = f.beginResetLocked(q, true)
	} else {
		req, ok = f.beginNextLocked()
	}
	f.mu.Unlock()

	f.notify()
	if !ok {
		return nil
	}
	return f.run(ctx, req)
}

// LoadMore fetches the next page of the active query.
// It is a no-op when HasMore is false or a fetch for the current generation is running.
func (f *PaginatedFetcher) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	req, ok := f.beginNextLocked()
	f.mu.Unlock()
	if !ok {
		return nil
	}
	f.notify()
	return f.run(ctx, req)
}

// Refresh reloads page 1 of q from the network, skipping the cache check.
func (f *PaginatedFetcher) Refresh(ctx context.Context, q domain.Query) error {
	req, ok := f.beginReset(q, false)
	f.notify()
	if !ok {
		return nil
	}
	return f.run(ctx, req)
}

// ClearCache drops every cached first page and returns how many were removed.
func (f *PaginatedFetcher) ClearCache() int {
	return f.cache.Clear()
}

// Snapshot returns the current state.
func (f *PaginatedFetcher) Snapshot() FetchSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Subscribe registers fn to receive state changes.
// Listeners must not call FetchPage or LoadMore synchronously.
func (f *PaginatedFetcher) Subscribe(fn func(FetchSnapshot)) func() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.notifyMu.Lock()
		defer f.notifyMu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *PaginatedFetcher) beginReset(q domain.Query, useCache bool) (fetchRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.beginResetLocked(q, useCache)
}

// beginResetLocked starts a new generation for q. It returns false when the
// cache answered the request and no network call is needed.
func (f *PaginatedFetcher) beginResetLocked(q domain.Query, useCache bool) (fetchRequest, bool) {
	q = q.WithPage(1)
	f.query = q
	f.cursor = domain.PaginationCursor{
		Generation: f.cursor.Generation + 1,
		HasMore:    true,
	}
	f.err = nil

	if useCache {
		if entry, ok := f.cache.Get(q); ok {
			logger.Debug("fetch: cache hit for generation %d (%d results)", f.cursor.Generation, len(entry.Properties))
			f.cursor.Results = entry.Properties
			f.cursor.Page = 1
			f.status = domain.FetchLoaded
			return fetchRequest{}, false
		}
	}

	f.status = domain.FetchLoading
	f.inFlight = true
	f.inFlightGen = f.cursor.Generation
	return fetchRequest{query: q, generation: f.cursor.Generation, reset: true}, true
}

func (f *PaginatedFetcher) beginNextLocked() (fetchRequest, bool) {
	if f.cursor.Generation == 0 || !f.cursor.HasMore {
		return fetchRequest{}, false
	}
	if f.inFlight && f.inFlightGen == f.cursor.Generation {
		return fetchRequest{}, false
	}
	f.status = domain.FetchLoading
	f.inFlight = true
	f.inFlightGen = f.cursor.Generation
	return fetchRequest{
		query:      f.query.WithPage(f.cursor.Page + 1),
		generation: f.cursor.Generation,
	}, true
}

// run performs the network call outside the lock and applies the response
// only if its generation is still current.
func (f *PaginatedFetcher) run(ctx context.Context, req fetchRequest) error {
	logger.Debug("fetch: generation %d page %d", req.generation, req.query.Page)
	defer logger.Elapsed(fmt.Sprintf("fetch generation %d page %d", req.generation, req.query.Page), time.Now())

	page, err := f.client.FetchListings(ctx, req.query)

	f.mu.Lock()
	if current := f.cursor.Generation; req.generation != current {
		f.mu.Unlock()
		logger.Debug("fetch: dropping generation %d response, current is %d", req.generation, current)
		return nil
	}
	f.inFlight = false
	applyErr := f.applyLocked(req, page, err)
	f.mu.Unlock()

	f.notify()
	return applyErr
}

func (f *PaginatedFetcher) applyLocked(req fetchRequest, page domain.ListingPage, err error) error {
	if err != nil {
		f.err = err
		f.cursor.HasMore = false
		if req.reset {
			f.cursor.Results = nil
		}
		f.status = domain.FetchFailed
		logger.Warn("fetch: generation %d page %d failed: %v", req.generation, req.query.Page, err)
		return fmt.Errorf("fetch listings: %w", err)
	}

	f.status = domain.FetchLoaded
	if len(page.Properties) == 0 {
		f.cursor.HasMore = false
		return nil
	}

	if req.reset {
		f.cursor.Results = append([]domain.Property(nil), page.Properties...)
	} else {
		f.cursor.Results = append(f.cursor.Results, page.Properties...)
	}
	f.cursor.Page = req.query.Page
	f.cursor.HasMore = page.HasMore()
	if req.query.Page == 1 {
		f.cache.Put(req.query, page.Properties)
	}
	return nil
}

func (f *PaginatedFetcher) snapshotLocked() FetchSnapshot {
	return FetchSnapshot{
		Query: f.query,
		Cursor: domain.PaginationCursor{
			Page:       f.cursor.Page,
			HasMore:    f.cursor.HasMore,
			Results:    append([]domain.Property(nil), f.cursor.Results...),
			Generation: f.cursor.Generation,
		},
		Status:  f.status,
		Loading: f.inFlight && f.inFlightGen == f.cursor.Generation,
		Err:     f.err,
	}
}

// notify delivers the latest snapshot to every listener, one delivery at a time.
// It must not be called with f.mu held.
func (f *PaginatedFetcher) notify() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	if len(f.listeners) == 0 {
		return
	}
	snap := f.Snapshot()
	for _, fn := range f.listeners {
		fn(snap)
	}
}
