package cache

import (
	"encoding/json"
	"log"
	"math"
	"sort"
)

// pruneFraction is the share of persisted entries dropped when a write fails.
const pruneFraction = 0.2

// persist mirrors e to storage. Failures are logged, never returned: after one
// failed write the oldest persisted entries are pruned and the write retried once.
func (c *TTLCache[V]) persist(e *entry[V]) {
	if c.storage == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		log.Printf("[cache] encode %s%s: %v", c.prefix, e.Key, err)
		return
	}
	err = c.storage.Set(c.prefix+e.Key, raw)
	if err == nil {
		return
	}
	log.Printf("[cache] storage write failed for %s%s, pruning old entries: %v", c.prefix, e.Key, err)
	c.pruneStorage()
	if err := c.storage.Set(c.prefix+e.Key, raw); err != nil {
		log.Printf("[cache] storage retry failed for %s%s: %v", c.prefix, e.Key, err)
	}
}

func (c *TTLCache[V]) pruneStorage() {
	keys, err := c.storage.Keys(c.prefix)
	if err != nil || len(keys) == 0 {
		return
	}
	type aged struct {
		key string
		e   entry[V]
	}
	all := make([]aged, 0, len(keys))
	for _, k := range keys {
		raw, err := c.storage.Get(k)
		if err != nil {
			continue
		}
		var e entry[V]
		if err := json.Unmarshal(raw, &e); err != nil {
			// unreadable entries go first
			_ = c.storage.Delete(k)
			continue
		}
		all = append(all, aged{key: k, e: e})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].e.CreatedAt.Before(all[j].e.CreatedAt) })
	n := int(math.Ceil(float64(len(all)) * pruneFraction))
	for i := 0; i < n; i++ {
		_ = c.storage.Delete(all[i].key)
	}
}

// load restores unexpired persisted entries up to maxSize, oldest dropped first.
// Expired or unreadable entries are deleted from storage.
func (c *TTLCache[V]) load() {
	if c.storage == nil {
		return
	}
	keys, err := c.storage.Keys(c.prefix)
	if err != nil {
		log.Printf("[cache] load %s: %v", c.prefix, err)
		return
	}
	nowTs := now()
	for _, k := range keys {
		raw, err := c.storage.Get(k)
		if err != nil {
			continue
		}
		var e entry[V]
		if err := json.Unmarshal(raw, &e); err != nil || e.expired(nowTs) {
			_ = c.storage.Delete(k)
			continue
		}
		e.Key = k[len(c.prefix):]
		c.items[e.Key] = &e
	}
	// storage may hold more than this instance's capacity
	for len(c.items) > c.maxSize {
		c.evictOldestLocked()
	}
}
