package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache and the "none" backend: every render is a miss
// and encoded images are never kept. The runner also falls back to it when
// constructed without a cache.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
