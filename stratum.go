package stratum

import (
	"log/slog"
	"time"

	"github.com/aretw0/stratum/internal/platform"
	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/engine"
	"github.com/aretw0/stratum/pkg/kv"
)

// --- Types ---

// Engine is the assembled resolution pipeline.
type Engine = engine.Engine

// Result is the provenance-aware payload returned by Resolve.
type Result = core.Result

// EntityType identifies a kind of resolvable content.
type EntityType = core.EntityType

// Re-exported entity types and sources for callers that only import the root.
const (
	Categories    = core.EntityCategories
	Questionnaire = core.EntityQuestionnaire
	Knowledge     = core.EntityKnowledge
	Resource      = core.EntityResource

	SourceMemory     = core.SourceMemory
	SourcePersistent = core.SourcePersistent
	SourceRemote     = core.SourceRemote
	SourceBundled    = core.SourceBundled
	SourceMock       = core.SourceMock
)

// GlobalScope is the scope ID for singleton entities such as the categories
// index.
const GlobalScope = core.GlobalScope

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithStore injects a custom key/value store, skipping the named adapter.
func WithStore(store kv.Store) Option {
	return platform.WithStore(store)
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the persistent adapter by name ("sqlite", "file",
// "memory"). Defaults to "sqlite".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBaseURL sets the remote content base URL. Empty keeps the engine
// fully offline: the remote tier always misses.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithTTL overrides the cache lifetime for one entity type.
func WithTTL(entityType EntityType, ttl time.Duration) Option {
	return platform.WithTTL(entityType, ttl)
}

// WithRequestTimeout sets the per-attempt remote fetch timeout.
func WithRequestTimeout(d time.Duration) Option {
	return platform.WithRequestTimeout(d)
}

// WithUpdateSchedule configures the background checker: startup delay,
// repeat interval (zero for a single check), auto-apply on detection.
func WithUpdateSchedule(delay, interval time.Duration, autoApply bool) Option {
	return platform.WithUpdateSchedule(delay, interval, autoApply)
}

// WithBackgroundChecks enables or disables the background update worker.
func WithBackgroundChecks(enabled bool) Option {
	return platform.WithBackgroundChecks(enabled)
}

// --- Factory ---

// New assembles an engine rooted at dataDir.
//
//	eng, err := stratum.New("~/.stratum",
//		stratum.WithBaseURL("https://content.example.com"),
//		stratum.WithLogger(logger),
//	)
func New(dataDir string, opts ...Option) (*Engine, error) {
	return platform.New(dataDir, opts...)
}
