package streak

import (
	"sync"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/models"
)

type cachedEntries struct {
	entries  []models.HabitEntry
	cachedAt time.Time
}

type cachedDay struct {
	has      bool
	cachedAt time.Time
}

// Cache holds recently read entry lists and per-day completion flags.
// Values older than the freshness window read as misses.
//
// Every habit carries a generation that Invalidate bumps. Writers of cached
// values pass the generation they observed before reading the store, and the
// value is dropped if an invalidation happened in between, so a slow read
// can never park pre-write data in the cache.
type Cache struct {
	mu        sync.Mutex
	clock     clock.Clock
	freshness time.Duration
	entries   map[string]cachedEntries
	days      map[string]map[string]cachedDay
	gens      map[string]uint64
}

func NewCache(c clock.Clock, freshness time.Duration) *Cache {
	return &Cache{
		clock:     c,
		freshness: freshness,
		entries:   make(map[string]cachedEntries),
		days:      make(map[string]map[string]cachedDay),
		gens:      make(map[string]uint64),
	}
}

// Generation returns the habit's current invalidation count.
func (c *Cache) Generation(habitID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[habitID]
}

func (c *Cache) fresh(at time.Time) bool {
	return c.clock.Now().Sub(at) < c.freshness
}

// Entries returns a copy of the cached, day-descending entry list.
func (c *Cache) Entries(habitID string) ([]models.HabitEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.entries[habitID]
	if !ok {
		return nil, false
	}
	if !c.fresh(item.cachedAt) {
		delete(c.entries, habitID)
		return nil, false
	}
	return append([]models.HabitEntry(nil), item.entries...), true
}

func (c *Cache) PutEntries(habitID string, gen uint64, entries []models.HabitEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[habitID] != gen {
		return
	}
	c.entries[habitID] = cachedEntries{
		entries:  append([]models.HabitEntry(nil), entries...),
		cachedAt: c.clock.Now(),
	}
}

func (c *Cache) Day(habitID, day string) (has bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.days[habitID][day]
	if !ok {
		return false, false
	}
	if !c.fresh(item.cachedAt) {
		delete(c.days[habitID], day)
		return false, false
	}
	return item.has, true
}

func (c *Cache) PutDay(habitID, day string, gen uint64, has bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[habitID] != gen {
		return
	}
	byDay, ok := c.days[habitID]
	if !ok {
		byDay = make(map[string]cachedDay)
		c.days[habitID] = byDay
	}
	byDay[day] = cachedDay{has: has, cachedAt: c.clock.Now()}
}

// Invalidate evicts everything cached for the habit.
func (c *Cache) Invalidate(habitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[habitID]++
	delete(c.entries, habitID)
	delete(c.days, habitID)
}
