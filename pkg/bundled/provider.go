// Package bundled serves the default content compiled into the binary.
// It is the always-available tier: immune to network and storage failures,
// immutable at runtime. A requested key that is absent from the bundle is a
// plain miss, not an error, so the resolver can fall through to its mock.
package bundled

import (
	"embed"
	"encoding/json"
	"path"
	"strings"

	"github.com/aretw0/stratum/pkg/core"
)

//go:embed content/*.json
var contentFS embed.FS

// Provider exposes the embedded content as a static registry keyed by
// (entityType, scopeID). Built once at construction, never mutated.
type Provider struct {
	registry map[string]json.RawMessage
}

// New scans the embedded files into the registry. File names follow
// "<entityType>_<scopeID>.json"; "categories.json" is the index singleton.
func New() (*Provider, error) {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil, err
	}

	registry := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		data, err := contentFS.ReadFile(path.Join("content", name))
		if err != nil {
			return nil, err
		}

		base := strings.TrimSuffix(name, ".json")
		if base == string(core.EntityCategories) {
			registry[core.Key(core.EntityCategories, core.GlobalScope)] = data
			continue
		}
		entityType, scopeID, ok := strings.Cut(base, "_")
		if !ok {
			continue // Not a registry file; ignore.
		}
		registry[core.Key(core.EntityType(entityType), scopeID)] = data
	}

	return &Provider{registry: registry}, nil
}

// Lookup returns the bundled payload for (entityType, scopeID), or ok=false
// when the bundle has no default for that key.
func (p *Provider) Lookup(entityType core.EntityType, scopeID string) (json.RawMessage, bool) {
	payload, ok := p.registry[core.Key(entityType, scopeID)]
	return payload, ok
}

// Len reports how many defaults are bundled. Exposed for diagnostics.
func (p *Provider) Len() int {
	return len(p.registry)
}
