// Package cache provides byte caching with pluggable backends.
//
// Backends:
//   - MemoryCache: process-local, used for the renderer's image cache
//   - FileCache: on-disk, used for generation response caching in the CLI
//   - NullCache: no-op, for tests and when caching is disabled
//
// All backends share the Cache interface. Keys are opaque strings; the
// file backend hashes them onto a two-level directory layout. Entries may
// carry a TTL; expired entries read as misses.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Key builds a namespaced cache key by hashing the parts. Namespacing
// keeps generation responses, images, and document blobs from colliding
// in a shared backend.
func Key(namespace string, parts ...any) string {
	return hashKey(namespace, parts...)
}
