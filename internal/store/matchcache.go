// Package store holds the optional Redis-backed caches shared by
// passforge engines. Nothing here is required for correctness: every
// cache degrades to a direct dictionary scan when Redis is absent or
// unreachable.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheUnavailable wraps Redis transport failures so callers can
// distinguish a degraded cache from a negative answer.
var ErrCacheUnavailable = errors.New("match cache unavailable")

const defaultPrefix = "pfm"

// MatchCache memoizes dictionary-match verdicts in Redis. Candidates
// are keyed by their SHA-256 so plaintext passwords never reach the
// cache server.
type MatchCache struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewMatchCache returns a cache on the given client. A zero ttl stores
// verdicts without expiry.
func NewMatchCache(client redis.UniversalClient, prefix string, ttl time.Duration) *MatchCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &MatchCache{redis: client, prefix: prefix, ttl: ttl}
}

func (c *MatchCache) key(candidate string) string {
	sum := sha256.Sum256([]byte(candidate))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}

// Get looks up a cached verdict for candidate. found is false on a
// cache miss; a transport failure returns ErrCacheUnavailable.
func (c *MatchCache) Get(ctx context.Context, candidate string) (hit, found bool, err error) {
	if c == nil || c.redis == nil {
		return false, false, nil
	}
	val, err := c.redis.Get(ctx, c.key(candidate)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return val == "1", true, nil
}

// Put stores a verdict for candidate under the cache TTL.
func (c *MatchCache) Put(ctx context.Context, candidate string, hit bool) error {
	if c == nil || c.redis == nil {
		return nil
	}
	val := "0"
	if hit {
		val = "1"
	}
	if err := c.redis.Set(ctx, c.key(candidate), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Purge drops every cached verdict under the cache prefix. Callers use
// it after swapping the underlying wordlist.
func (c *MatchCache) Purge(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}
	iter := c.redis.Scan(ctx, 0, c.prefix+":*", 256).Iterator()
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
