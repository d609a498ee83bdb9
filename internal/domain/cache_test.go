package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheEnvelope_ExpiredBoundary(t *testing.T) {
	now := time.UnixMilli(10_000_000_000)
	maxAge := time.Hour

	justOver := CacheEnvelope[string]{Payload: "x", FetchedAt: now.UnixMilli() - 3_600_001}
	assert.True(t, justOver.Expired(now, maxAge))

	justUnder := CacheEnvelope[string]{Payload: "x", FetchedAt: now.UnixMilli() - 3_599_999}
	assert.False(t, justUnder.Expired(now, maxAge))

	exactly := CacheEnvelope[string]{Payload: "x", FetchedAt: now.UnixMilli() - 3_600_000}
	assert.False(t, exactly.Expired(now, maxAge))
}

func TestCacheEnvelope_ZeroTimestampAlwaysExpired(t *testing.T) {
	var env CacheEnvelope[[]int]
	assert.True(t, env.Expired(time.Now(), time.Hour))
}

func TestNewCacheEnvelope_StampsFetchTime(t *testing.T) {
	fetchedAt := time.UnixMilli(1_700_000_000_000)
	env := NewCacheEnvelope([]string{"a"}, fetchedAt)

	assert.Equal(t, fetchedAt.UnixMilli(), env.FetchedAt)
	assert.False(t, env.Expired(fetchedAt.Add(30*time.Minute), time.Hour))
	assert.True(t, env.Expired(fetchedAt.Add(2*time.Hour), time.Hour))
}
