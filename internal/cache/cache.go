// Package cache stores analysis results so that resubmitting the same text
// does not spend detector and fact-check quota again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a namespace and the analyzed input.
// The input itself is never stored in the key.
func Key(namespace, input string) string {
	hash := sha256.Sum256([]byte(input))
	return "aegis:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// GetJSON loads a cached value into v. It reports false on a miss or when
// the cached bytes no longer decode (e.g. after a schema change).
func GetJSON(c Cache, key string, v any) bool {
	data, found := c.Get(key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(key)
		return false
	}
	return true
}

// SetJSON stores v as JSON
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// Nop is a cache that never stores anything; used when caching is disabled
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
