// Package filekv implements the key/value contract on a single JSON file.
// It exists for environments without SQLite (demo sandboxes, read-only
// media) and for inspecting the cache with plain tools.
package filekv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const storeFile = "store.json"

// state is the persisted file shape.
type state struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// Store keeps all entries in memory and persists the whole map atomically
// on every mutation. Fine for the small payload counts this engine caches;
// not a general-purpose database.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
	dirty   bool
}

// Open loads (or initializes) the store file inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("filekv: create dir: %w", err)
	}
	s := &Store{
		path:    filepath.Join(dir, storeFile),
		entries: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the file from disk. Missing file means start fresh; a corrupted
// file also starts fresh so the store can self-heal.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("filekv: read store: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		s.entries = make(map[string]string)
		return nil
	}
	if st.Entries != nil {
		s.entries = st.Entries
	}
	return nil
}

// flush persists the map if dirty. Caller must hold the write lock.
func (s *Store) flush() error {
	if !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(state{Version: 1, Entries: s.entries}, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("filekv: write store: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	s.dirty = true
	return s.flush()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	s.dirty = true
	return s.flush()
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if _, ok := s.entries[k]; ok {
			delete(s.entries, k)
			s.dirty = true
		}
	}
	return s.flush()
}

// Close flushes any pending state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// reload re-reads the file and returns the keys whose values changed or
// disappeared, used by the watcher to emit invalidations.
func (s *Store) reload() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		// Mid-write or corrupt; skip this round, the next event retries.
		return nil, err
	}
	if st.Entries == nil {
		st.Entries = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for k, v := range s.entries {
		if nv, ok := st.Entries[k]; !ok || nv != v {
			changed = append(changed, k)
		}
	}
	for k := range st.Entries {
		if _, ok := s.entries[k]; !ok {
			changed = append(changed, k)
		}
	}
	s.entries = st.Entries
	s.dirty = false
	return changed, nil
}
