package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure SuggestionEngine implements the interface.
var _ driving.SuggestionService = (*SuggestionEngine)(nil)

// SuggestionEngine serves debounced location autocomplete backed by a
// persisted list of recent picks.
type SuggestionEngine struct {
	locations driven.LocationClient
	store     driven.KeyValueStore
	debouncer *Debouncer
	minLength int

	mu      sync.Mutex
	recents domain.RecentSuggestions
	loaded  bool
}

// NewSuggestionEngine creates a suggestion engine.
func NewSuggestionEngine(
	locations driven.LocationClient,
	store driven.KeyValueStore,
	settings domain.SuggestSettings,
) *SuggestionEngine {
	minLength := settings.MinQueryLength
	if minLength < 1 {
		minLength = domain.DefaultMinQueryLength
	}
	return &SuggestionEngine{
		locations: locations,
		store:     store,
		debouncer: NewDebouncer(settings.Debounce()),
		minLength: minLength,
	}
}

// Query returns suggestions for text in city. Short text or a missing city
// answers from the recent list without touching the network. Lookup
// failures are logged and answered from the recent list as well.
func (e *SuggestionEngine) Query(ctx context.Context, city, text string) ([]domain.Suggestion, error) {
	text = strings.TrimSpace(text)
	city = strings.TrimSpace(city)

	if city == "" || utf8.RuneCountInString(text) < e.minLength {
		e.debouncer.Cancel()
		return e.Recent(ctx), nil
	}

	if err := e.debouncer.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Debug("suggest: lookup %q in %s", text, city)
	results, err := e.locations.SearchLocations(ctx, city, text)
	if err != nil {
		logger.Warn("suggest: lookup failed, using recents: %v", err)
		return e.Recent(ctx), nil
	}

	recents := e.Recent(ctx)
	merged := domain.MergeSuggestions(recents, results, domain.MaxSuggestions)

	if top, ok := firstNew(recents, results); ok {
		if err := e.Remember(ctx, top); err != nil {
			logger.Warn("suggest: remember %q: %v", top.Value, err)
		}
	}

	return merged, nil
}

// Remember pushes an explicitly picked suggestion onto the recent list.
func (e *SuggestionEngine) Remember(ctx context.Context, s domain.Suggestion) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(ctx)
	e.recents = e.recents.Push(s)
	return e.persistLocked(ctx)
}

// Recent returns a copy of the recent suggestions.
func (e *SuggestionEngine) Recent(ctx context.Context) domain.RecentSuggestions {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(ctx)
	return append(domain.RecentSuggestions{}, e.recents...)
}

// ClearRecent empties the recent suggestions.
func (e *SuggestionEngine) ClearRecent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recents = nil
	e.loaded = true
	if err := e.store.Delete(ctx, driven.KeyRecentSuggestions); err != nil {
		return fmt.Errorf("clear recent suggestions: %w", err)
	}
	return nil
}

func (e *SuggestionEngine) loadLocked(ctx context.Context) {
	if e.loaded {
		return
	}
	e.loaded = true

	data, err := e.store.Get(ctx, driven.KeyRecentSuggestions)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("suggest: load recents: %v", err)
		}
		return
	}
	var recents domain.RecentSuggestions
	if err := json.Unmarshal(data, &recents); err != nil {
		logger.Warn("suggest: corrupt recents, discarding: %v", err)
		return
	}
	if len(recents) > domain.MaxRecentSuggestions {
		recents = recents[:domain.MaxRecentSuggestions]
	}
	e.recents = recents
}

func (e *SuggestionEngine) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(e.recents)
	if err != nil {
		return fmt.Errorf("encode recent suggestions: %w", err)
	}
	if err := e.store.Set(ctx, driven.KeyRecentSuggestions, data); err != nil {
		return fmt.Errorf("save recent suggestions: %w", err)
	}
	return nil
}

// firstNew returns the first result whose value is not already a recent.
func firstNew(recents, results []domain.Suggestion) (domain.Suggestion, bool) {
	for _, r := range results {
		known := false
		for _, s := range recents {
			if s.Value == r.Value {
				known = true
				break
			}
		}
		if !known && r.Value != "" {
			return r, true
		}
	}
	return domain.Suggestion{}, false
}
