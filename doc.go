// Package stratum is the Composition Root for the Stratum content engine.
//
// It connects the resolution logic (resolver, update checker) with the
// infrastructure adapters (SQLite, flat file, memory stores and the remote
// HTTP client) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Stratum is an offline-first content resolution layer for assistant-style
// applications. Every requested entity — category index, questionnaire,
// knowledge block, static resource — is resolved through a tiered fallback
// chain, and the caller always receives a usable payload:
//
//	memory → persistent cache → remote (write-through) → bundled → mock
//
// Failures never cross tier boundaries; the only caller-visible degradation
// is the provenance on the result. A background worker compares a remote
// version manifest against the last-applied version and pre-warms the
// persistent cache when content has been republished.
//
// Features:
//
//   - **Explicit tier chain**: the fallback order is an ordered strategy
//     list, not nested error handling, and is observable via provenance.
//   - **TTL cache with lazy eviction**: expired or corrupt entries are
//     dropped on read; there is no background sweep.
//   - **Pluggable persistence**: SQLite by default, flat JSON file or pure
//     memory via `WithAdapter`, custom stores via `WithStore`.
//   - **Bundled defaults**: content compiled into the binary keeps the app
//     usable on first launch and fully offline.
//   - **Manifest-driven updates**: a dated version string (YYYY.MM.DD.PATCH)
//     gates bulk refreshes; partial downloads never corrupt cached entries.
//   - **Typed Retrieval**: generic wrapper (`ResolveAs[T]`) for type-safe
//     payload access.
//
// Usage:
//
//	eng, err := stratum.New(dataDir,
//		stratum.WithBaseURL("https://content.example.com"),
//		stratum.WithLogger(logger),
//	)
//
//	res := eng.Resolve(ctx, stratum.Categories, stratum.GlobalScope)
//	if res.Source == stratum.SourceMock {
//		// placeholder data; render a subdued state
//	}
package stratum
