package core

import "time"

// EntityType identifies a kind of resolvable content.
type EntityType string

const (
	EntityCategories    EntityType = "categories"
	EntityQuestionnaire EntityType = "questionnaire"
	EntityKnowledge     EntityType = "knowledge"
	EntityResource      EntityType = "resource"
)

// KeyPrefix isolates this subsystem's entries inside the shared key/value
// store. Bulk-clear operations match on it and must never touch foreign keys.
const KeyPrefix = "stratum_cache_"

// VersionKey is the single well-known key holding the last-applied content
// version. It lives next to the cache entries but is not an entry itself.
const VersionKey = KeyPrefix + "meta_version"

// GlobalScope is the scope ID for singleton entities such as the categories
// index, which exists once rather than per category.
const GlobalScope = "_"

// Key builds the namespaced cache key for an entity.
// Keys are unique per (entityType, scopeID) pair.
func Key(entityType EntityType, scopeID string) string {
	return KeyPrefix + string(entityType) + "_" + scopeID
}

// TTLPolicy maps entity types to cache lifetimes. TTL is a configuration
// concern of the resolver, not of the cache store.
type TTLPolicy map[EntityType]time.Duration

// DefaultTTLPolicy returns the stock lifetimes: listing content changes
// rarely (a day), heavy resource blobs even more rarely (a week).
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		EntityCategories:    24 * time.Hour,
		EntityQuestionnaire: 24 * time.Hour,
		EntityKnowledge:     24 * time.Hour,
		EntityResource:      7 * 24 * time.Hour,
	}
}

// TTL returns the lifetime for a type, falling back to 24h for unknown types.
func (p TTLPolicy) TTL(t EntityType) time.Duration {
	if d, ok := p[t]; ok {
		return d
	}
	return 24 * time.Hour
}
