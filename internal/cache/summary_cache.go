package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when no summary exists for the fingerprint.
var ErrCacheMiss = errors.New("cache miss")

// Fingerprint returns the SHA-256 hex digest of resolved content. The
// digest is the cache key, so identical content always maps to the same
// entry regardless of whether it arrived as text or via a URL.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SummaryCache maps content fingerprints to previously produced
// summaries. Writes are best-effort: callers log and continue on error,
// a miss is always safe. Entries for the same fingerprint are
// semantically identical, so concurrent writers may race freely.
type SummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSummaryCache(redisClient *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get returns the cached summary for a fingerprint, or ErrCacheMiss.
func (c *SummaryCache) Get(ctx context.Context, fingerprint string) (string, error) {
	summary, err := c.redis.Get(ctx, cacheKey(fingerprint)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return summary, nil
}

// Set stores a summary under the fingerprint. Last writer wins.
func (c *SummaryCache) Set(ctx context.Context, fingerprint, summary string) error {
	return c.redis.Set(ctx, cacheKey(fingerprint), summary, c.ttl).Err()
}

func cacheKey(fingerprint string) string {
	return fmt.Sprintf("summary:%s", fingerprint)
}
