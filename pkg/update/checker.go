// Package update compares the remote version manifest against the last
// applied version and pre-warms the persistent cache when they differ. It is
// a prefetch, never a prerequisite: resolution does not wait for it, and a
// partial download leaves previously cached entities intact.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/stratum/pkg/cache"
	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/kv"
	"github.com/aretw0/stratum/pkg/remote"
)

// Info communicates the outcome of a successful check that found a newer
// remote version.
type Info struct {
	CurrentVersion string `json:"currentVersion"`
	RemoteVersion  string `json:"remoteVersion"`
	Timestamp      string `json:"timestamp"`
}

// Checker performs manifest checks and bulk refreshes.
type Checker struct {
	remote *remote.Client
	cache  *cache.Store
	kv     kv.Store
	ttl    core.TTLPolicy
	logger *slog.Logger

	// onApplied is invoked after a successful Apply so the resolver can
	// drop its memory tier.
	onApplied func()
}

// New wires a checker. onApplied may be nil.
func New(remoteClient *remote.Client, cacheStore *cache.Store, store kv.Store, ttl core.TTLPolicy, logger *slog.Logger, onApplied func()) *Checker {
	if ttl == nil {
		ttl = core.DefaultTTLPolicy()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{
		remote:    remoteClient,
		cache:     cacheStore,
		kv:        store,
		ttl:       ttl,
		logger:    logger,
		onApplied: onApplied,
	}
}

// Check fetches the manifest and compares versions. Any remote version other
// than the applied one reports an update, so a published rollback is picked
// up too. It never returns an error: a failed check and "no update available"
// both yield nil. The manifest is fetched fresh every time and never cached.
func (c *Checker) Check(ctx context.Context) *Info {
	body, err := c.remote.Fetch(ctx, c.remote.ManifestURL())
	if err != nil {
		c.logger.Debug("manifest fetch failed", "error", err)
		return nil
	}

	var manifest core.Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		c.logger.Debug("manifest parse failed", "error", err)
		return nil
	}

	current := c.appliedVersion(ctx)
	if !versionChanged(current, manifest.Version) {
		return nil
	}

	return &Info{
		CurrentVersion: current,
		RemoteVersion:  manifest.Version,
		Timestamp:      manifest.Timestamp,
	}
}

// Apply refreshes the categories index and every reachable questionnaire
// through the remote client, writing through the cache with the same TTL
// policy the resolver uses, then persists the new version marker. Each cache
// write is independently atomic: failure partway through simply leaves some
// entities on the previous version until the next successful check.
func (c *Checker) Apply(ctx context.Context) error {
	body, err := c.remote.Fetch(ctx, c.remote.EntityURL(core.EntityCategories, core.GlobalScope))
	if err != nil {
		return err
	}
	var index core.CategoryIndex
	if err := json.Unmarshal(body, &index); err != nil {
		return &core.ParseError{Key: string(core.EntityCategories), Err: err}
	}

	key := core.Key(core.EntityCategories, core.GlobalScope)
	if err := c.cache.Set(ctx, key, body, c.ttl.TTL(core.EntityCategories)); err != nil {
		return err
	}

	refreshed := 1
	for _, cat := range index.Categories {
		n, err := c.refreshCategory(ctx, cat)
		refreshed += n
		if err != nil {
			// Already-written entries stay valid; report the failure so the
			// version marker is not advanced past a partial download.
			c.logger.Warn("category refresh incomplete", "category", cat.ID, "error", err)
			return err
		}
	}

	manifest, err := c.fetchManifest(ctx)
	if err != nil {
		return err
	}
	if err := c.kv.Set(ctx, core.VersionKey, manifest.Version); err != nil {
		return &core.StorageError{Op: "set version", Err: err}
	}

	c.logger.Info("content update applied", "version", manifest.Version, "entities", refreshed)
	if c.onApplied != nil {
		c.onApplied()
	}
	return nil
}

// refreshCategory downloads each questionnaire listed under a category path.
// The listing lives at the category's path, but every questionnaire is cached
// under its bare id so the updater, the resolver, and the bundled registry
// all address the same key.
func (c *Checker) refreshCategory(ctx context.Context, cat core.Category) (int, error) {
	body, err := c.remote.Fetch(ctx, c.remote.EntityURL(core.EntityQuestionnaire, cat.Path))
	if err != nil {
		// A category with no questionnaire listing is not fatal.
		c.logger.Debug("no questionnaire listing", "category", cat.ID, "error", err)
		return 0, nil
	}

	var listing struct {
		Questionnaires []core.Questionnaire `json:"questionnaires"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return 0, &core.ParseError{Key: cat.Path, Err: err}
	}

	n := 0
	for _, q := range listing.Questionnaires {
		payload, err := json.Marshal(q)
		if err != nil {
			continue
		}
		key := core.Key(core.EntityQuestionnaire, q.ID)
		if err := c.cache.Set(ctx, key, payload, c.ttl.TTL(core.EntityQuestionnaire)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Checker) fetchManifest(ctx context.Context) (*core.Manifest, error) {
	body, err := c.remote.Fetch(ctx, c.remote.ManifestURL())
	if err != nil {
		return nil, err
	}
	var manifest core.Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, &core.ParseError{Key: "manifest", Err: err}
	}
	return &manifest, nil
}

// appliedVersion reads the marker; an absent or unreadable marker means no
// version has ever been applied.
func (c *Checker) appliedVersion(ctx context.Context) string {
	v, ok, err := c.kv.Get(ctx, core.VersionKey)
	if err != nil || !ok {
		return ""
	}
	return v
}

// IsNewer reports whether remote is a strictly higher version than current.
// Versions are dot-separated integer components (YYYY.MM.DD.PATCH); the
// first non-equal component decides, and equal components throughout means
// equal versions. An empty current always yields true; an empty remote never
// does.
func IsNewer(current, remote string) bool {
	if remote == "" {
		return false
	}
	if current == "" {
		return true
	}

	currentParts := strings.Split(current, ".")
	remoteParts := strings.Split(remote, ".")

	n := len(currentParts)
	if len(remoteParts) > n {
		n = len(remoteParts)
	}
	for i := 0; i < n; i++ {
		c := componentAt(currentParts, i)
		r := componentAt(remoteParts, i)
		if r > c {
			return true
		}
		if r < c {
			return false
		}
	}
	return false
}

// versionChanged reports whether remote names a version other than current,
// in either direction. An empty remote version never signals a change.
func versionChanged(current, remote string) bool {
	if remote == "" {
		return false
	}
	return IsNewer(current, remote) || IsNewer(remote, current)
}

func componentAt(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	return parseIntSafe(parts[i])
}

// parseIntSafe converts the leading digits of s to an int, 0 on no digits.
func parseIntSafe(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

// interval sanity bound for the background worker configuration.
const minCheckDelay = time.Second
