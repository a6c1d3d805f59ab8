package cache

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// entry stores a cached value with its write time and lifetime.
type entry[V any] struct {
	Data      V             `json:"data"`
	CreatedAt time.Time     `json:"createdAt"`
	TTL       time.Duration `json:"ttl"`
	Hits      int64         `json:"hits"`
	Key       string        `json:"key"`
}

func (e *entry[V]) expired(at time.Time) bool {
	return at.Sub(e.CreatedAt) > e.TTL
}

// TTLCache is a map-backed cache with per-entry TTL, capacity-bounded eviction
// and optional mirroring to durable Storage.
//
// Eviction removes the entry with the oldest write time, not the oldest read:
// reads never refresh an entry's position. Expiry is enforced lazily on every
// read; PurgeExpired exists for callers that want to reclaim memory eagerly.
type TTLCache[V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	muPtr *sync.Mutex

	items  map[string]*entry[V]
	hits   int64
	misses int64

	maxSize    int
	defaultTTL time.Duration
	storage    Storage
	prefix     string
}

// Options controls construction of a TTLCache.
type Options struct {
	// MaxSize bounds the number of entries. Zero means 500.
	MaxSize int

	// DefaultTTL applies to Set calls without an explicit TTL. Zero means five minutes.
	DefaultTTL time.Duration

	// Storage enables persistence when non-nil. Every Set/Delete is mirrored
	// under Prefix+key and unexpired entries are reloaded on construction.
	Storage Storage
	Prefix  string

	// ConcurrencySafe controls whether operations are guarded by a mutex.
	ConcurrencySafe bool
}

const (
	defaultMaxSize = 500
	defaultTTL     = 5 * time.Minute
)

// AppOptions mirrors general application data (students, users) to storage for five minutes.
func AppOptions(storage Storage) Options {
	return Options{MaxSize: 500, DefaultTTL: 5 * time.Minute, Storage: storage, Prefix: "app:", ConcurrencySafe: true}
}

// RealtimeOptions keeps short-lived counts and today's attendance in memory only.
func RealtimeOptions() Options {
	return Options{MaxSize: 100, DefaultTTL: 30 * time.Second, Prefix: "rt:", ConcurrencySafe: true}
}

// StaticOptions holds rarely changing structural data (settings, classes) for thirty minutes.
func StaticOptions(storage Storage) Options {
	return Options{MaxSize: 200, DefaultTTL: 30 * time.Minute, Storage: storage, Prefix: "static:", ConcurrencySafe: true}
}

// New constructs a TTLCache and, if persistence is enabled, reloads its entries.
func New[V any](opts Options) *TTLCache[V] {
	var mu *sync.Mutex
	if opts.ConcurrencySafe {
		mu = &sync.Mutex{}
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaultTTL
	}
	c := &TTLCache[V]{
		muPtr:      mu,
		items:      make(map[string]*entry[V]),
		maxSize:    opts.MaxSize,
		defaultTTL: opts.DefaultTTL,
		storage:    opts.Storage,
		prefix:     opts.Prefix,
	}
	c.load()
	return c
}

func (c *TTLCache[V]) lock() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get implements Cache.Get.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	unlock := c.lock()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if e.expired(now()) {
		c.deleteLocked(key)
		c.misses++
		return zero, false
	}
	e.Hits++
	c.hits++
	return e.Data, true
}

// Set implements Cache.Set.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	unlock := c.lock()
	defer unlock()
	c.setLocked(key, value, ttl)
}

func (c *TTLCache[V]) setLocked(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}
	e := &entry[V]{
		Data:      value,
		CreatedAt: now(),
		TTL:       ttl,
		Key:       key,
	}
	c.items[key] = e
	c.persist(e)
}

// GetOrSet implements Cache.GetOrSet. The lock is not held while compute runs.
func (c *TTLCache[V]) GetOrSet(ctx context.Context, key string, compute func(context.Context) (V, error), ttl time.Duration) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

// Delete implements Cache.Delete.
func (c *TTLCache[V]) Delete(key string) bool {
	unlock := c.lock()
	defer unlock()
	return c.deleteLocked(key)
}

func (c *TTLCache[V]) deleteLocked(key string) bool {
	if c.storage != nil {
		if err := c.storage.Delete(c.prefix + key); err != nil {
			log.Printf("[cache] remove %s%s: %v", c.prefix, key, err)
		}
	}
	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	return true
}

// Has implements Cache.Has.
func (c *TTLCache[V]) Has(key string) bool {
	unlock := c.lock()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	if e.expired(now()) {
		c.deleteLocked(key)
		return false
	}
	return true
}

// InvalidatePattern implements Cache.InvalidatePattern.
func (c *TTLCache[V]) InvalidatePattern(pattern string) int {
	unlock := c.lock()
	defer unlock()
	count := 0
	for key := range c.items {
		if strings.Contains(key, pattern) {
			c.deleteLocked(key)
			count++
		}
	}
	return count
}

// Touch implements Cache.Touch.
func (c *TTLCache[V]) Touch(key string, ttl time.Duration) bool {
	unlock := c.lock()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	e.CreatedAt = now()
	if ttl > 0 {
		e.TTL = ttl
	}
	c.persist(e)
	return true
}

// TTL returns the remaining lifetime of key, zero once expired.
func (c *TTLCache[V]) TTL(key string) (time.Duration, bool) {
	unlock := c.lock()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return 0, false
	}
	remaining := e.TTL - now().Sub(e.CreatedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Keys returns every held key, expired or not.
func (c *TTLCache[V]) Keys() []string {
	unlock := c.lock()
	defer unlock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Stats implements Cache.Stats.
func (c *TTLCache[V]) Stats() Stats {
	unlock := c.lock()
	defer unlock()
	var bytes int64
	for _, e := range c.items {
		if raw, err := json.Marshal(e); err == nil {
			bytes += int64(len(raw)) * 2
		}
	}
	rate := 0
	if total := c.hits + c.misses; total > 0 {
		rate = int(math.Round(float64(c.hits) / float64(total) * 100))
	}
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Size:        len(c.items),
		HitRate:     rate,
		MemoryBytes: bytes,
		MemoryUsage: humanize.Bytes(uint64(bytes)),
	}
}

// Len implements Cache.Len.
func (c *TTLCache[V]) Len() int {
	unlock := c.lock()
	defer unlock()
	return len(c.items)
}

// Clear implements Cache.Clear.
func (c *TTLCache[V]) Clear() {
	unlock := c.lock()
	defer unlock()
	c.items = make(map[string]*entry[V])
	c.hits, c.misses = 0, 0
	if c.storage == nil {
		return
	}
	keys, err := c.storage.Keys(c.prefix)
	if err != nil {
		log.Printf("[cache] clear %s: %v", c.prefix, err)
		return
	}
	for _, k := range keys {
		_ = c.storage.Delete(k)
	}
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *TTLCache[V]) PurgeExpired() int {
	unlock := c.lock()
	defer unlock()
	nowTs := now()
	n := 0
	for k, e := range c.items {
		if e.expired(nowTs) {
			c.deleteLocked(k)
			n++
		}
	}
	return n
}

func (c *TTLCache[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range c.items {
		if !found || e.CreatedAt.Before(oldest) {
			oldestKey, oldest, found = k, e.CreatedAt, true
		}
	}
	if found {
		c.deleteLocked(oldestKey)
	}
}

// Ensure TTLCache implements Cache at compile time.
var _ Cache[any] = (*TTLCache[any])(nil)
