package streak

import (
	"testing"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/models"
)

func TestCachePutAfterInvalidateIsDropped(t *testing.T) {
	fake := clock.NewFake(testNow)
	c := NewCache(fake, 3*time.Second)

	gen := c.Generation("h1")
	c.Invalidate("h1")
	c.PutEntries("h1", gen, []models.HabitEntry{{Day: "2025-03-12"}})
	c.PutDay("h1", "2025-03-12", gen, true)

	if _, ok := c.Entries("h1"); ok {
		t.Error("entries from an older generation were cached")
	}
	if _, ok := c.Day("h1", "2025-03-12"); ok {
		t.Error("day flag from an older generation was cached")
	}
}

func TestCacheInvalidateIsPerHabit(t *testing.T) {
	fake := clock.NewFake(testNow)
	c := NewCache(fake, 3*time.Second)

	c.PutDay("h1", "2025-03-12", c.Generation("h1"), true)
	c.PutDay("h2", "2025-03-12", c.Generation("h2"), true)
	c.Invalidate("h1")

	if _, ok := c.Day("h1", "2025-03-12"); ok {
		t.Error("h1 still cached after invalidation")
	}
	if has, ok := c.Day("h2", "2025-03-12"); !ok || !has {
		t.Error("h2 evicted by h1 invalidation")
	}
}

func TestCacheEntriesAreCopied(t *testing.T) {
	fake := clock.NewFake(testNow)
	c := NewCache(fake, 3*time.Second)

	entries := []models.HabitEntry{{Day: "2025-03-12"}}
	c.PutEntries("h1", c.Generation("h1"), entries)
	entries[0].Day = "mutated"

	got, ok := c.Entries("h1")
	if !ok || got[0].Day != "2025-03-12" {
		t.Errorf("cached entries = %+v, want unaffected by caller mutation", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	fake := clock.NewFake(testNow)
	c := NewCache(fake, 3*time.Second)
	c.PutEntries("h1", c.Generation("h1"), []models.HabitEntry{{Day: "2025-03-12"}})

	fake.Advance(2999 * time.Millisecond)
	if _, ok := c.Entries("h1"); !ok {
		t.Error("entries expired early")
	}
	fake.Advance(time.Millisecond)
	if _, ok := c.Entries("h1"); ok {
		t.Error("entries still served at the freshness boundary")
	}
}
