package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/kv"
)

// options holds the internal configuration for the engine factory.
type options struct {
	store          kv.Store
	logger         *slog.Logger
	adapter        string
	baseURL        string
	ttl            core.TTLPolicy
	timeout        time.Duration
	updateDelay    time.Duration
	updateInterval time.Duration
	autoApply      bool
	background     bool
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "sqlite",
		ttl:         core.DefaultTTLPolicy(),
		updateDelay: 5 * time.Second,
		background:  true,
	}
}

// WithStore injects a custom key/value store (e.g. a mock or a platform
// bridge). If provided, the named adapter is skipped.
func WithStore(store kv.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the persistent adapter by name ("sqlite", "file",
// "memory"). Defaults to "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithBaseURL sets the remote content base URL. An empty base URL leaves
// the remote tier permanently missing, which is a valid offline setup.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithTTL overrides the cache lifetime for one entity type.
func WithTTL(entityType core.EntityType, ttl time.Duration) Option {
	return func(o *options) {
		o.ttl[entityType] = ttl
	}
}

// WithRequestTimeout sets the per-attempt remote fetch timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUpdateSchedule configures the background checker: initial delay,
// repeat interval (zero for a single check), and whether a detected update
// is downloaded automatically.
func WithUpdateSchedule(delay, interval time.Duration, autoApply bool) Option {
	return func(o *options) {
		o.updateDelay = delay
		o.updateInterval = interval
		o.autoApply = autoApply
	}
}

// WithBackgroundChecks enables or disables the background update worker
// entirely. Foreground CLI commands disable it.
func WithBackgroundChecks(enabled bool) Option {
	return func(o *options) {
		o.background = enabled
	}
}
