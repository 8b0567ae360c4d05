//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/cache/
func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "gridtile:test:").ArtifactKey("h", ArtifactKeyOpts{Format: "png", Scale: 1})
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit %v err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("png"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "png" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key should be gone after Delete")
	}

	for _, k := range []string{"gridtile:test:a", "gridtile:test:b"} {
		if err := c.Set(ctx, k, []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.DeletePrefix(ctx, "gridtile:test:")
	if err != nil {
		t.Fatalf("DeletePrefix error: %v", err)
	}
	if n != 2 {
		t.Errorf("DeletePrefix removed %d keys, want 2", n)
	}
}
