// Package storage defines the client-side persistent key-value store.
//
// Values are opaque strings; callers serialize whatever they need (the
// session layer stores the raw bearer token and a JSON-encoded user record).
// The store itself knows nothing about sessions: pair-wise consistency of
// related keys is enforced by the caller's write and clear ordering.
package storage

import "context"

// KV is the lowest storage layer. Implementations must be safe for
// concurrent use.
type KV interface {
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backing medium.
	Close() error
}
