package dataaggregator

import (
	"sync/atomic"
	"time"

	"github.com/travigo/sltraffic/pkg/ctdf"
)

type CacheEntry struct {
	Payload    []*ctdf.AggregatedGroup
	CapturedAt time.Time

	// Non-zero when the entry expires before the TTL
	ValidFor time.Duration

	// Configuration generation the payload was built from
	Generation uint64
}

// ResultCache is a single slot holding the latest aggregated result
type ResultCache struct {
	Clock func() time.Time

	entry atomic.Pointer[CacheEntry]
}

func NewResultCache(clock func() time.Time) *ResultCache {
	if clock == nil {
		clock = time.Now
	}

	return &ResultCache{Clock: clock}
}

// Get returns the stored payload while it is younger than ttl and was built from generation
func (c *ResultCache) Get(ttl time.Duration, generation uint64) ([]*ctdf.AggregatedGroup, bool) {
	entry := c.entry.Load()
	if entry == nil || entry.Generation != generation {
		return nil, false
	}

	if entry.ValidFor > 0 && entry.ValidFor < ttl {
		ttl = entry.ValidFor
	}

	if c.Clock().Sub(entry.CapturedAt) < ttl {
		return entry.Payload, true
	}

	return nil, false
}

// Put replaces the slot with entry, captured now
func (c *ResultCache) Put(entry CacheEntry) {
	entry.CapturedAt = c.Clock()
	c.entry.Store(&entry)
}

func (c *ResultCache) Entry() *CacheEntry {
	return c.entry.Load()
}

// Invalidate drops the entry if it was built from a generation older than generation
func (c *ResultCache) Invalidate(generation uint64) bool {
	for {
		entry := c.entry.Load()
		if entry == nil || entry.Generation >= generation {
			return false
		}
		if c.entry.CompareAndSwap(entry, nil) {
			return true
		}
	}
}
