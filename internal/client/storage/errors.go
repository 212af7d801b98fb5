package storage

import "errors"

// Common client storage errors
var (
	// ErrKeyNotFound indicates that no value exists under the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorageUnavailable indicates that the backing medium cannot be
	// read or written. Callers must treat this as "not authenticated"
	// rather than crashing.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
