package driven

import "context"

// Local store keys.
const (
	KeyCities            = "cities"
	KeyRecentSuggestions = "recent-suggestions"
	KeyCity              = "city"
	KeyPhotoPrefix       = "photo:"
)

// KeyValueStore persists small blobs of client state across sessions.
// Entries never expire; they are removed only by Delete or DeletePrefix.
type KeyValueStore interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Keys returns every key starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
