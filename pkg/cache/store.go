// Package cache layers per-entry TTL semantics on top of a raw key/value
// store. Entries expire lazily: an expired or corrupt entry is deleted on
// read and reported as a miss, never on write, and there is no background
// sweep.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/kv"
)

// envelope is the persisted shape of one cache entry.
// Valid iff now - storedAt <= ttlSeconds.
type envelope struct {
	Payload    json.RawMessage `json:"payload"`
	StoredAt   int64           `json:"storedAt"`
	TTLSeconds int64           `json:"ttlSeconds"`
}

// Store is the persistent cache tier. It owns every key under core.KeyPrefix
// inside the shared store and never touches foreign keys.
type Store struct {
	kv     kv.Store
	logger *slog.Logger

	// now is injectable so tests can simulate expiry without sleeping.
	now func() time.Time
}

// New wraps a raw key/value store. A nil logger disables logging.
func New(store kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: store, logger: logger, now: time.Now}
}

// Set serializes the payload with its TTL envelope and writes it under key.
// Storage failures are returned as *core.StorageError for the caller to log;
// they are non-fatal by contract.
func (s *Store) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	data, err := json.Marshal(envelope{
		Payload:    payload,
		StoredAt:   s.now().Unix(),
		TTLSeconds: int64(ttl.Seconds()),
	})
	if err != nil {
		return &core.StorageError{Op: "encode", Err: err}
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
		return &core.StorageError{Op: "set", Err: err}
	}
	return nil
}

// Get returns the payload for key, or ok=false on miss. A corrupt entry is
// removed and treated as a miss rather than propagated — a bad cache entry
// must never block the fallback chain. An expired entry is deleted on read.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Payload == nil {
		s.logger.Warn("corrupt cache entry, dropping", "key", key)
		_ = s.kv.Remove(ctx, key)
		return nil, false
	}

	age := s.now().Unix() - env.StoredAt
	if age > env.TTLSeconds {
		s.logger.Debug("cache entry expired", "key", key, "age_s", age)
		_ = s.kv.Remove(ctx, key)
		return nil, false
	}

	return env.Payload, true
}

// Remove deletes a single entry.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.logger.Warn("cache remove failed", "key", key, "error", err)
	}
}

// Clear deletes the namespaced entries whose suffix (after core.KeyPrefix)
// matches the doublestar pattern. "**" clears the whole namespace. Keys
// outside the namespace are never touched, whatever the pattern says.
func (s *Store) Clear(ctx context.Context, pattern string) (int, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return 0, &core.StorageError{Op: "keys", Err: err}
	}

	var doomed []string
	for _, k := range keys {
		if !strings.HasPrefix(k, core.KeyPrefix) || k == core.VersionKey {
			continue
		}
		match, err := doublestar.Match(pattern, strings.TrimPrefix(k, core.KeyPrefix))
		if err != nil {
			return 0, err
		}
		if match {
			doomed = append(doomed, k)
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}
	if err := s.kv.MultiRemove(ctx, doomed); err != nil {
		return 0, &core.StorageError{Op: "multi-remove", Err: err}
	}
	return len(doomed), nil
}

// Size returns the summed serialized length of all namespaced entries.
// Diagnostics only; it reads every entry.
func (s *Store) Size(ctx context.Context) (int64, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return 0, &core.StorageError{Op: "keys", Err: err}
	}
	var total int64
	for _, k := range keys {
		if !strings.HasPrefix(k, core.KeyPrefix) {
			continue
		}
		raw, ok, err := s.kv.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		total += int64(len(raw))
	}
	return total, nil
}
