// Package cache stores computed realizations and renders between runs.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTL. The CLI
// defaults to [FileCache]; the server can share a [RedisCache] or
// [MongoCache] across instances; [NullCache] disables caching. A [Keyer]
// turns request parameters into stable keys so every backend agrees on
// them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the storage contract shared by all backends.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Entry lifetimes. Realizations are pure functions of their inputs, so
// TTLs only bound storage.
const (
	TTLRealization = 7 * 24 * time.Hour
	TTLRender      = 30 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// RealizationKey identifies a bounded realization listing.
	RealizationKey(degrees []int, k int, opts RealizationKeyOpts) string
	// RenderKey identifies a rendered artifact of a stored hypergraph.
	RenderKey(graphHash, format string) string
}

// RealizationKeyOpts are the search options that change a listing.
// Strategy is deliberately absent: both strategies give the same output.
type RealizationKeyOpts struct {
	Limit int `json:"limit"`
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RealizationKey returns "realize:<sha256>".
func (DefaultKeyer) RealizationKey(degrees []int, k int, opts RealizationKeyOpts) string {
	return hashKey("realize", degrees, k, opts)
}

// RenderKey returns "render:<format>:<sha256>".
func (DefaultKeyer) RenderKey(graphHash, format string) string {
	return hashKey("render:"+format, graphHash)
}

// hashKey formats prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
