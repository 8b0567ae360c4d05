package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the TTL. The caller should fetch again and [Cache.Set] the result.
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files named by the SHA-256 of
// their key. Entries expire by file modification time; a TTL of 0 means
// never.
//
// A Cache is not safe for concurrent use of the same key, but several
// processes may share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache in dir, or ~/.cache/gridtile/feeds/ if dir is
// empty. The directory is created if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "gridtile", "feeds")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime. Zero means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads the entry for key into v.
//
//   - (true, nil): fresh hit, v is populated
//   - (false, nil): miss, v is unchanged
//   - (false, ErrExpired): the entry is older than the TTL
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores v under key, replacing any existing entry and restarting its
// TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the same directory that prefixes every key.
// Calls chain: c.Namespace("a:").Namespace("b:") uses "a:b:".
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
