package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// CacheEntry is a cached first page of results.
type CacheEntry struct {
	Key        string
	Properties []domain.Property
	StoredAt   time.Time
}

// QueryCache holds the first page of every query seen in this session.
// Entries never expire; they are dropped only by Clear.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	now     func() time.Time
}

// NewQueryCache creates an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]CacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached first page for the query's canonical key.
func (c *QueryCache) Get(q domain.Query) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[q.Key()]
	if !ok {
		return CacheEntry{}, false
	}
	e.Properties = append([]domain.Property(nil), e.Properties...)
	return e, true
}

// Put stores the first page for the query.
func (c *QueryCache) Put(q domain.Query, properties []domain.Property) {
	key := q.Key()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = CacheEntry{
		Key:        key,
		Properties: append([]domain.Property(nil), properties...),
		StoredAt:   c.now(),
	}
}

// Clear drops every entry and returns how many were removed.
func (c *QueryCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]CacheEntry)
	return n
}

// Len returns the number of cached queries.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
