package bookings

import (
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

type cacheEntry struct {
	bookings []models.Booking
	total    int
	at       time.Time
}

// pageCache keeps the most recently inserted pages for ttl. When full the
// oldest insertion goes first.
type pageCache struct {
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	order   []string
}

func newPageCache(ttl time.Duration, max int) *pageCache {
	return &pageCache{ttl: ttl, max: max, entries: map[string]cacheEntry{}}
}

func (c *pageCache) get(key string, now time.Time) (cacheEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if now.Sub(e.at) >= c.ttl {
		c.remove(key)
		return cacheEntry{}, false
	}
	return e, true
}

func (c *pageCache) put(key string, e cacheEntry) {
	if c.max <= 0 {
		return
	}
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	for len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *pageCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *pageCache) clear() {
	c.entries = map[string]cacheEntry{}
	c.order = nil
}

func (c *pageCache) len() int {
	return len(c.entries)
}
