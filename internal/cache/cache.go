// Package cache memoizes per-content results keyed by a hash of the source
// buffer, so repeated checks over the same files cost one classification.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key from a source buffer.
func ContentKey(content []byte) string {
	hash := sha256.Sum256(content)
	return "plsqlnorm:v1:" + hex.EncodeToString(hash[:])
}
