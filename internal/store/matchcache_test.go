package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*MatchCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewMatchCache(rdb, "", ttl), mr
}

func TestMatchCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "hunter2"); err != nil || found {
		t.Fatalf("expected miss on empty cache, found=%v err=%v", found, err)
	}

	if err := c.Put(ctx, "hunter2", true); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, "s3cure!pass", false); err != nil {
		t.Fatalf("put: %v", err)
	}

	hit, found, err := c.Get(ctx, "hunter2")
	if err != nil || !found || !hit {
		t.Fatalf("expected positive verdict, hit=%v found=%v err=%v", hit, found, err)
	}
	hit, found, err = c.Get(ctx, "s3cure!pass")
	if err != nil || !found || hit {
		t.Fatalf("expected negative verdict, hit=%v found=%v err=%v", hit, found, err)
	}
}

func TestMatchCacheKeysAreHashed(t *testing.T) {
	c, mr := newTestCache(t, 0)
	if err := c.Put(context.Background(), "plaintext-password", true); err != nil {
		t.Fatalf("put: %v", err)
	}
	for _, key := range mr.Keys() {
		if key == "pfm:plaintext-password" {
			t.Fatal("candidate stored in plaintext")
		}
	}
}

func TestMatchCacheTTL(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	if err := c.Put(ctx, "expiring", true); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if _, found, err := c.Get(ctx, "expiring"); err != nil || found {
		t.Fatalf("expected expiry, found=%v err=%v", found, err)
	}
}

func TestMatchCachePurge(t *testing.T) {
	c, _ := newTestCache(t, 0)
	ctx := context.Background()

	for _, candidate := range []string{"one", "two", "three"} {
		if err := c.Put(ctx, candidate, true); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := c.Purge(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, found, _ := c.Get(ctx, "one"); found {
		t.Fatal("verdict survived purge")
	}
}

func TestMatchCacheUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewMatchCache(rdb, "", 0)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "x"); !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
	if err := c.Put(context.Background(), "x", true); !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
}

func TestMatchCacheNilSafe(t *testing.T) {
	var c *MatchCache
	if _, found, err := c.Get(context.Background(), "x"); err != nil || found {
		t.Fatalf("nil cache must be a silent miss, found=%v err=%v", found, err)
	}
	if err := c.Put(context.Background(), "x", true); err != nil {
		t.Fatalf("nil cache put must be a no-op: %v", err)
	}
}
