package dataaggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

func TestResultCacheTTL(t *testing.T) {
	now := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })
	payload := []*ctdf.AggregatedGroup{{GroupName: "TO WORK"}}

	_, ok := cache.Get(8*time.Second, 0)
	assert.False(t, ok)

	cache.Put(CacheEntry{Payload: payload})

	cached, ok := cache.Get(8*time.Second, 0)
	assert.True(t, ok)
	assert.Equal(t, payload, cached)

	now = now.Add(9 * time.Second)
	_, ok = cache.Get(8*time.Second, 0)
	assert.False(t, ok)
}

func TestResultCacheZeroTTLAlwaysMisses(t *testing.T) {
	cache := NewResultCache(nil)
	cache.Put(CacheEntry{Payload: []*ctdf.AggregatedGroup{}})

	_, ok := cache.Get(0, 0)
	assert.False(t, ok)
}

func TestResultCacheShortValidity(t *testing.T) {
	now := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })

	cache.Put(CacheEntry{Payload: []*ctdf.AggregatedGroup{}, ValidFor: 2 * time.Second})

	now = now.Add(time.Second)
	_, ok := cache.Get(8*time.Second, 0)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get(8*time.Second, 0)
	assert.False(t, ok)
}

func TestResultCacheGeneration(t *testing.T) {
	now := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })

	cache.Put(CacheEntry{Payload: []*ctdf.AggregatedGroup{{GroupName: "old"}}, Generation: 1})

	_, ok := cache.Get(8*time.Second, 2)
	assert.False(t, ok)
	_, ok = cache.Get(8*time.Second, 1)
	assert.True(t, ok)
}

func TestResultCacheReplaceAndInvalidate(t *testing.T) {
	now := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })

	cache.Put(CacheEntry{Payload: []*ctdf.AggregatedGroup{{GroupName: "old"}}, Generation: 1})
	now = now.Add(5 * time.Second)
	cache.Put(CacheEntry{Payload: []*ctdf.AggregatedGroup{{GroupName: "new"}}, Generation: 2})

	assert.Equal(t, now, cache.Entry().CapturedAt)

	now = now.Add(5 * time.Second)
	cached, ok := cache.Get(8*time.Second, 2)
	assert.True(t, ok)
	assert.Equal(t, "new", cached[0].GroupName)

	assert.False(t, cache.Invalidate(2))
	assert.False(t, cache.Invalidate(1))
	assert.NotNil(t, cache.Entry())

	assert.True(t, cache.Invalidate(3))
	assert.Nil(t, cache.Entry())
	assert.False(t, cache.Invalidate(3))
}
