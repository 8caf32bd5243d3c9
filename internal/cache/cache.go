package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// KeyPrefix namespaces every key written by claimcheck
const KeyPrefix = "claimcheck:v1:"

// CacheKey generates a cache key for a namespaced value.
// Parts are case-folded so "Covid" and "covid" share an entry.
func CacheKey(namespace, value string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(value)))
	return KeyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}
