// Package cache stores encoded puzzle images keyed by their inputs.
//
// Rendering is deterministic, so an image is fully described by the puzzle,
// the style config, the output format and the scale. [Keyer] hashes those
// inputs into a key; a [Cache] maps keys to encoded bytes.
//
// # Backends
//
//   - [FileCache]: hash-sharded JSON entries under the XDG cache dir, for the CLI
//   - [RedisCache]: a shared cache for several render servers
//   - [NullCache]: caching disabled
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// TTL defaults.
const (
	// ArtifactTTL is how long an encoded image stays cached.
	ArtifactTTL = 30 * 24 * time.Hour
)

// Key types passed to observability hooks.
const (
	KeyTypeArtifact = "artifact"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the render settings that change the encoded bytes.
type ArtifactKeyOpts struct {
	Style  string `json:"style"` // hash of the raster config
	Format string `json:"format"`
	Scale  int    `json:"scale"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for the image of the puzzle whose content
	// hash is puzzleHash, rendered with opts.
	ArtifactKey(puzzleHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(puzzleHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, puzzleHash, opts)
}
