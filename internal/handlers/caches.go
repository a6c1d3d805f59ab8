package handlers

import (
	"context"
	"log"
	"time"

	"school-attendance-api/internal/cache"
	"school-attendance-api/internal/models"
)

// Cache key prefixes. Writes invalidate by prefix.
const (
	studentsKeyPrefix = "students:"
	statsKeyPrefix    = "stats:"
	settingsKey       = "settings"
)

// Caches holds the three cache instances the admin API reads through.
type Caches struct {
	// Students caches roster queries (persisted, 5 minutes).
	Students *cache.TTLCache[[]models.Student]
	// Stats caches dashboard numbers (memory only, 30 seconds).
	Stats *cache.TTLCache[models.DashboardStats]
	// Settings caches the settings row (persisted, 30 minutes).
	Settings *cache.TTLCache[models.Settings]
}

// NewCaches builds the caches. A nil storage keeps everything in memory.
func NewCaches(storage cache.Storage) *Caches {
	return &Caches{
		Students: cache.New[[]models.Student](cache.AppOptions(storage)),
		Stats:    cache.New[models.DashboardStats](cache.RealtimeOptions()),
		Settings: cache.New[models.Settings](cache.StaticOptions(storage)),
	}
}

// AllStats reports every instance by name.
func (c *Caches) AllStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"app":      c.Students.Stats(),
		"realtime": c.Stats.Stats(),
		"static":   c.Settings.Stats(),
	}
}

// RunJanitor purges expired entries from every instance until ctx is done.
func (c *Caches) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := c.Students.PurgeExpired() + c.Stats.PurgeExpired() + c.Settings.PurgeExpired()
			if n > 0 {
				log.Printf("[cache] purged %d expired entries", n)
			}
		}
	}
}
