// Package cache provides pluggable byte-level storage backends.
//
// Backends hold opaque serialized values keyed by strings. depscope uses them
// for reverse-index snapshots, which are written once per run and reloaded
// verbatim on later runs. Entries have no TTL and are never invalidated by
// the engine; staleness against a changed registry snapshot is the operator's
// concern.
//
// Three backends are provided:
//   - FileCache: directory-backed storage for CLI usage
//   - RedisCache: shared storage for multi-machine runs
//   - NullCache: no-op backend that disables persistence
package cache

import "context"

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value, replacing any existing entry.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
