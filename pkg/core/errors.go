package core

import "errors"

// Common errors.
var (
	// ErrNotFound marks an entity that is legitimately absent from a tier,
	// as opposed to a transient failure. A non-2xx HTTP status maps here.
	ErrNotFound = errors.New("entity not found")

	// ErrReadOnly is returned by stores opened in read-only mode.
	ErrReadOnly = errors.New("store is in read-only mode")
)

// StorageError wraps failures of the underlying key/value store.
// The cache layer catches these and degrades to a miss.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// NetworkError wraps transport-level fetch failures (timeout, DNS, refused).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string { return "fetch " + e.URL + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps malformed payloads. A corrupt cache entry or remote body
// is treated as a miss by the resolver, never surfaced to callers.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string { return "parse " + e.Key + ": " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
