package core

import "encoding/json"

// Source records which tier satisfied a resolution request. It is the one
// piece of information the fallback chain must not discard: UI code renders
// a subdued affordance for mock data, and tests assert on it.
type Source string

const (
	SourceMemory     Source = "memory"
	SourcePersistent Source = "persistent"
	SourceRemote     Source = "remote"
	SourceBundled    Source = "bundled"
	SourceMock       Source = "mock"
)

// Result is the provenance-aware payload returned by the resolver.
// Payload is always usable; Source tells the caller how real it is.
type Result struct {
	Payload json.RawMessage `json:"payload"`
	Source  Source          `json:"source"`
}

// Fallback reports whether the payload came from a degraded tier rather
// than live or cached data.
func (r Result) Fallback() bool {
	return r.Source == SourceBundled || r.Source == SourceMock
}
