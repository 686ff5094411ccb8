package stratum

import _ "embed"

// Version exposes the version of the library, embedded from the VERSION
// file so release tooling and the binary never drift.
//
//go:embed VERSION
var Version string
