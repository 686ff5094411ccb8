package resolve

import (
	"github.com/aretw0/introspection"
)

// ResolverState exposes internal state for observability.
type ResolverState struct {
	MemoryEntries int `json:"memory_entries"`
	Tiers         int `json:"tiers"`
}

// State implements introspection.Introspectable.
func (r *Resolver) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return ResolverState{
		MemoryEntries: len(r.memory),
		Tiers:         len(r.tiers) + 1, // chain plus the terminal mock
	}
}

// ComponentType implements introspection.Component.
func (r *Resolver) ComponentType() string {
	return "resolver"
}

var _ introspection.Introspectable = (*Resolver)(nil)
var _ introspection.Component = (*Resolver)(nil)
