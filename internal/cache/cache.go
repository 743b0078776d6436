package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

const snapshotKey = "snapshot"

type Cache struct {
	cache    *gocache.Cache
	mu       sync.RWMutex
	duration time.Duration
}

func New(duration time.Duration) *Cache {
	return &Cache{
		cache:    gocache.New(duration, duration*2),
		duration: duration,
	}
}

// SetSnapshot replaces the cached league snapshot. Offers and valuations
// computed from the previous snapshot are dropped with it.
func (c *Cache) SetSnapshot(s *league.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
	c.cache.Set(snapshotKey, s, gocache.NoExpiration)
}

func (c *Cache) GetSnapshot() (*league.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, found := c.cache.Get(snapshotKey); found {
		return s.(*league.Snapshot), true
	}
	return nil, false
}

func offersKey(version string, tid int, seed int64) string {
	return fmt.Sprintf("offers:%s:%d:%d", version, tid, seed)
}

// SetOffers stores generated offers for a team under the seed and snapshot
// version that produced them.
func (c *Cache) SetOffers(version string, tid int, seed int64, offers []models.TradeSummary) {
	c.cache.Set(offersKey(version, tid, seed), slices.Clone(offers), c.duration)
}

func (c *Cache) GetOffers(version string, tid int, seed int64) ([]models.TradeSummary, bool) {
	if offers, found := c.cache.Get(offersKey(version, tid, seed)); found {
		return slices.Clone(offers.([]models.TradeSummary)), true
	}
	return nil, false
}

// Memo returns a view of the cache usable as a valuation memo. Its keys
// already carry the snapshot version.
func (c *Cache) Memo() *Memo {
	return &Memo{c: c}
}

type Memo struct {
	c *Cache
}

func (m *Memo) Get(key string) (interface{}, bool) {
	return m.c.cache.Get(key)
}

func (m *Memo) Set(key string, value interface{}) {
	m.c.cache.Set(key, value, m.c.duration)
}

// ItemCount reports how many live entries the cache holds.
func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}
