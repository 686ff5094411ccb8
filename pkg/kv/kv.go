// Package kv defines the contract for the shared persistent key/value store
// the cache layer sits on. Adhering to this interface keeps the cache
// independent of the underlying storage mechanism (SQLite, flat files,
// memory), mirroring how adapters plug into the rest of the engine.
package kv

import "context"

// Store is the raw key/value contract. All methods may fail with a storage
// error; the cache layer is responsible for catching those and degrading to
// a miss. The store is shared with unrelated application state, so callers
// must scope bulk operations to their own key namespace.
type Store interface {
	// Get returns the raw value for key, or ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns every key currently in the store, foreign namespaces
	// included. Callers filter by prefix.
	Keys(ctx context.Context) ([]string, error)

	// MultiRemove deletes the given keys in one pass.
	MultiRemove(ctx context.Context, keys []string) error

	// Close releases the underlying resources.
	Close() error
}

// Watchable is implemented by stores that can report external modification
// of their backing medium (e.g. another process rewriting a cache file).
type Watchable interface {
	// Watch emits the keys whose entries changed on the backing medium.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}
