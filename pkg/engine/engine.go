// Package engine assembles the resolution pipeline: key/value adapter,
// TTL cache, remote client, bundled defaults, resolver, and the background
// update worker, with one lifecycle (Start/Close) for the whole set.
package engine

import (
	"context"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/stratum/pkg/cache"
	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/kv"
	"github.com/aretw0/stratum/pkg/resolve"
	"github.com/aretw0/stratum/pkg/update"
)

// Engine owns an assembled pipeline. Construct it through the module facade;
// there is deliberately no package-level singleton.
type Engine struct {
	resolver *resolve.Resolver
	checker  *update.Checker
	worker   *update.Worker
	cache    *cache.Store
	store    kv.Store
	logger   *slog.Logger

	watchCancel context.CancelFunc
}

// Deps carries the pre-built components into the engine.
type Deps struct {
	Resolver *resolve.Resolver
	Checker  *update.Checker
	Worker   *update.Worker // optional; nil disables background checks
	Cache    *cache.Store
	Store    kv.Store
	Logger   *slog.Logger
}

// New wraps assembled components. Wiring (adapter choice, URLs, policy)
// happens in the platform factory.
func New(d Deps) *Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		resolver: d.Resolver,
		checker:  d.Checker,
		worker:   d.Worker,
		cache:    d.Cache,
		store:    d.Store,
		logger:   logger,
	}
}

// Resolve walks the fallback chain for one entity. It never fails; inspect
// Result.Source to distinguish real data from fallback placeholders.
func (e *Engine) Resolve(ctx context.Context, entityType core.EntityType, scopeID string) core.Result {
	return e.resolver.Resolve(ctx, entityType, scopeID)
}

// CheckForUpdates performs a foreground manifest check. nil means either
// "up to date" or "check failed"; both degrade the same way by design.
func (e *Engine) CheckForUpdates(ctx context.Context) *update.Info {
	return e.checker.Check(ctx)
}

// ApplyUpdate performs the bulk refresh and advances the version marker.
func (e *Engine) ApplyUpdate(ctx context.Context) error {
	return e.checker.Apply(ctx)
}

// ClearCache drops the memory tier and the matching persistent entries.
func (e *Engine) ClearCache(ctx context.Context, pattern string) (int, error) {
	return e.resolver.Clear(ctx, pattern)
}

// CacheSize reports the summed serialized size of the namespaced entries.
func (e *Engine) CacheSize(ctx context.Context) (int64, error) {
	return e.cache.Size(ctx)
}

// Start launches the background update worker and, when the adapter supports
// it, a watch that invalidates the memory tier after external store changes.
// Start is optional; a foreground-only consumer can skip it.
func (e *Engine) Start(ctx context.Context) error {
	if w, ok := e.store.(kv.Watchable); ok {
		watchCtx, cancel := context.WithCancel(ctx)
		events, err := w.Watch(watchCtx)
		if err != nil {
			cancel()
			e.logger.Warn("store watch unavailable", "error", err)
		} else {
			e.watchCancel = cancel
			go func() {
				for key := range events {
					e.logger.Debug("store changed externally", "key", key)
					e.resolver.Invalidate(key)
				}
			}()
		}
	}

	if e.worker != nil {
		return e.worker.Start(ctx)
	}
	return nil
}

// Close stops background work and releases the store.
func (e *Engine) Close() error {
	if e.watchCancel != nil {
		e.watchCancel()
	}
	if e.worker != nil {
		_ = e.worker.Stop(context.Background())
	}
	return e.store.Close()
}

// EngineState exposes internal state for observability.
type EngineState struct {
	Resolver      any  `json:"resolver"`
	WorkerRunning bool `json:"worker_running"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	return EngineState{
		Resolver:      e.resolver.State(),
		WorkerRunning: e.worker != nil,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
