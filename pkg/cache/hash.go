package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: namespace:hash(parts...)
func hashKey(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions between prompts
	// or URLs that share a prefix.
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(sum[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
