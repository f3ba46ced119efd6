package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SummaryCache {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	return NewSummaryCache(redisClient, 0)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("some resolved content")
	b := Fingerprint("some resolved content")
	c := Fingerprint("different content")

	assert.Equal(t, a, b, "identical content must share a fingerprint")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "SHA-256 hex digest")
}

func TestSummaryCache_MissThenHit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	fp := Fingerprint("the article body")

	_, err := c.Get(ctx, fp)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, fp, "A short summary."))

	summary, err := c.Get(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
}

func TestSummaryCache_LastWriterWins(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	fp := Fingerprint("raced content")

	// Two workers computing the same fingerprint may both write; the
	// values are semantically identical so either result is fine.
	require.NoError(t, c.Set(ctx, fp, "summary v1"))
	require.NoError(t, c.Set(ctx, fp, "summary v2"))

	summary, err := c.Get(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, "summary v2", summary)
}
