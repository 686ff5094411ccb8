// Package resolve walks the tiered fallback chain for content entities:
// memory, persistent cache, remote (with write-through), bundled defaults,
// and a terminal mock. Resolution never fails; the worst case is a mock
// payload flagged by its provenance.
package resolve

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/stratum/pkg/bundled"
	"github.com/aretw0/stratum/pkg/cache"
	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/remote"
)

// tier is one strategy in the chain. A tier either yields a definitive hit
// or reports a miss; it never propagates an error upward.
type tier struct {
	source  core.Source
	resolve func(ctx context.Context, entityType core.EntityType, scopeID string) (json.RawMessage, bool)
}

// Resolver orchestrates the fallback chain. The in-memory tier is private to
// the instance: multiple resolvers share only the persistent tier.
type Resolver struct {
	cache   *cache.Store
	remote  *remote.Client
	bundled *bundled.Provider
	ttl     core.TTLPolicy
	logger  *slog.Logger

	mu     sync.RWMutex
	memory map[string]json.RawMessage

	// flight collapses concurrent remote fetches for the same key.
	flight singleflight.Group

	tiers []tier
}

// New wires a resolver. ttl may be nil to use the default policy; logger may
// be nil to disable logging.
func New(cacheStore *cache.Store, remoteClient *remote.Client, bundledProvider *bundled.Provider, ttl core.TTLPolicy, logger *slog.Logger) *Resolver {
	if ttl == nil {
		ttl = core.DefaultTTLPolicy()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Resolver{
		cache:   cacheStore,
		remote:  remoteClient,
		bundled: bundledProvider,
		ttl:     ttl,
		logger:  logger,
		memory:  make(map[string]json.RawMessage),
	}
	// The chain is an explicit ordered list; no tier is skipped or reordered
	// based on content type.
	r.tiers = []tier{
		{core.SourceMemory, r.fromMemory},
		{core.SourcePersistent, r.fromPersistent},
		{core.SourceRemote, r.fromRemote},
		{core.SourceBundled, r.fromBundled},
	}
	return r
}

// Resolve returns a usable payload for (entityType, scopeID), walking the
// chain in strict order and stopping at the first definitive hit. It never
// returns an error: when every tier misses, the result carries the built-in
// mock payload with Source set to core.SourceMock.
func (r *Resolver) Resolve(ctx context.Context, entityType core.EntityType, scopeID string) core.Result {
	for _, t := range r.tiers {
		if payload, ok := t.resolve(ctx, entityType, scopeID); ok {
			return core.Result{Payload: payload, Source: t.source}
		}
	}

	r.logger.Info("all tiers missed, serving mock", "type", entityType, "scope", scopeID)
	return core.Result{Payload: mockPayload(entityType, scopeID), Source: core.SourceMock}
}

func (r *Resolver) fromMemory(_ context.Context, entityType core.EntityType, scopeID string) (json.RawMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.memory[core.Key(entityType, scopeID)]
	return payload, ok
}

func (r *Resolver) fromPersistent(ctx context.Context, entityType core.EntityType, scopeID string) (json.RawMessage, bool) {
	key := core.Key(entityType, scopeID)
	payload, ok := r.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	r.remember(key, payload)
	return payload, true
}

func (r *Resolver) fromRemote(ctx context.Context, entityType core.EntityType, scopeID string) (json.RawMessage, bool) {
	key := core.Key(entityType, scopeID)

	v, err, _ := r.flight.Do(key, func() (any, error) {
		body, err := r.remote.Fetch(ctx, r.remote.EntityURL(entityType, scopeID))
		if err != nil {
			return nil, err
		}
		payload, err := validate(entityType, body)
		if err != nil {
			return nil, err
		}
		// Write-through before returning so the next cold resolve hits the
		// persistent tier. A failed write is logged inside the cache and
		// does not invalidate the fetched payload.
		_ = r.cache.Set(ctx, key, payload, r.ttl.TTL(entityType))
		return payload, nil
	})
	if err != nil {
		r.logger.Debug("remote tier miss", "key", key, "error", err)
		return nil, false
	}

	payload := v.(json.RawMessage)
	r.remember(key, payload)
	return payload, true
}

func (r *Resolver) fromBundled(_ context.Context, entityType core.EntityType, scopeID string) (json.RawMessage, bool) {
	payload, ok := r.bundled.Lookup(entityType, scopeID)
	if !ok {
		return nil, false
	}
	// Bundled content goes to memory only, never to the persistent cache:
	// once the remote becomes reachable again it must take precedence.
	r.remember(core.Key(entityType, scopeID), payload)
	return payload, true
}

// remember populates the memory tier. Memory entries carry no TTL of their
// own; they live until explicitly invalidated or the process exits.
func (r *Resolver) remember(key string, payload json.RawMessage) {
	r.mu.Lock()
	r.memory[key] = payload
	r.mu.Unlock()
}

// Invalidate drops a single key from the memory tier. The update worker and
// external store watchers call this after the persistent tier changes.
func (r *Resolver) Invalidate(key string) {
	r.mu.Lock()
	delete(r.memory, key)
	r.mu.Unlock()
}

// InvalidateAll flushes the whole memory tier.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.memory = make(map[string]json.RawMessage)
	r.mu.Unlock()
}

// Clear empties both the memory tier and the namespaced persistent entries
// matching pattern ("**" for everything).
func (r *Resolver) Clear(ctx context.Context, pattern string) (int, error) {
	r.InvalidateAll()
	return r.cache.Clear(ctx, pattern)
}

// TTLFor exposes the active policy for a type; the update worker reuses it
// so prefetched entries age exactly like resolved ones.
func (r *Resolver) TTLFor(entityType core.EntityType) time.Duration {
	return r.ttl.TTL(entityType)
}

// validate checks that a remote body parses as the expected entity shape and
// returns it in compact form. A body that does not parse is a tier miss.
func validate(entityType core.EntityType, body []byte) (json.RawMessage, error) {
	var err error
	switch entityType {
	case core.EntityCategories:
		var v core.CategoryIndex
		err = json.Unmarshal(body, &v)
	case core.EntityQuestionnaire:
		var v core.Questionnaire
		err = json.Unmarshal(body, &v)
	case core.EntityKnowledge:
		var v core.KnowledgeBlock
		err = json.Unmarshal(body, &v)
	default:
		// Resources are opaque blobs; require valid JSON but no shape.
		var v json.RawMessage
		err = json.Unmarshal(body, &v)
	}
	if err != nil {
		return nil, &core.ParseError{Key: string(entityType), Err: err}
	}
	return json.RawMessage(body), nil
}
