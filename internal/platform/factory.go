package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/stratum/pkg/adapters/filekv"
	"github.com/aretw0/stratum/pkg/adapters/sqlitekv"
	"github.com/aretw0/stratum/pkg/bundled"
	"github.com/aretw0/stratum/pkg/cache"
	"github.com/aretw0/stratum/pkg/engine"
	"github.com/aretw0/stratum/pkg/kv"
	"github.com/aretw0/stratum/pkg/remote"
	"github.com/aretw0/stratum/pkg/resolve"
	"github.com/aretw0/stratum/pkg/update"
)

// New assembles an engine rooted at dataDir. The dataDir argument is
// adapter-specific: the sqlite adapter stores a database file inside it, the
// file adapter a JSON store, and the memory adapter ignores it.
func New(dataDir string, opts ...Option) (*engine.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := openStore(dataDir, o)
	if err != nil {
		return nil, err
	}

	bundledProvider, err := bundled.New()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load bundled content: %w", err)
	}

	cacheStore := cache.New(store, logger)
	remoteClient := remote.New(o.baseURL, o.timeout, logger)
	resolver := resolve.New(cacheStore, remoteClient, bundledProvider, o.ttl, logger)
	checker := update.New(remoteClient, cacheStore, store, o.ttl, logger, resolver.InvalidateAll)

	var worker *update.Worker
	if o.background && o.baseURL != "" {
		worker = update.NewWorker(checker, o.updateDelay, o.updateInterval, o.autoApply, logger)
	}

	return engine.New(engine.Deps{
		Resolver: resolver,
		Checker:  checker,
		Worker:   worker,
		Cache:    cacheStore,
		Store:    store,
		Logger:   logger,
	}), nil
}

// openStore picks the persistent adapter. An injected store wins over the
// named adapter.
func openStore(dataDir string, o *options) (kv.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "sqlite":
		return sqlitekv.Open(filepath.Join(dataDir, "stratum.db"))
	case "file":
		return filekv.Open(dataDir)
	case "memory":
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
