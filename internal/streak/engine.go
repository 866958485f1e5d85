// Package streak computes habit completion streaks over calendar-day entries.
package streak

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/constants"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/utils"
)

// EntryStore is the slice of storage.Provider the engine reads and writes.
type EntryStore interface {
	GetHabit(id string) (models.Habit, error)
	GetHabitEntry(habitID, day string) (models.HabitEntry, error)
	GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error)
	AddHabitEntry(entry models.HabitEntry) error
	DeleteHabitEntry(id string) error
}

type Engine struct {
	store EntryStore
	cache *Cache
	clock clock.Clock
	loc   *time.Location
}

// NewEngine wires an engine whose calendar days are taken in loc.
func NewEngine(store EntryStore, cache *Cache, c clock.Clock, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{store: store, cache: cache, clock: c, loc: loc}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() string {
	return utils.DayKey(e.clock.Now(), e.loc)
}

// DayOf returns the calendar day t falls on in the engine's location.
func (e *Engine) DayOf(t time.Time) string {
	return utils.DayKey(t, e.loc)
}

// EntriesSorted returns the habit's entries, newest day first.
func (e *Engine) EntriesSorted(habitID string) ([]models.HabitEntry, error) {
	if entries, ok := e.cache.Entries(habitID); ok {
		return entries, nil
	}

	gen := e.cache.Generation(habitID)
	entries, err := e.store.GetHabitEntriesForHabit(habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for habit %s: %w", habitID, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day > entries[j].Day })

	e.cache.PutEntries(habitID, gen, entries)
	return entries, nil
}

// HasEntry reports whether the habit was completed on day (YYYY-MM-DD).
func (e *Engine) HasEntry(habitID, day string) (bool, error) {
	if has, ok := e.cache.Day(habitID, day); ok {
		return has, nil
	}

	gen := e.cache.Generation(habitID)
	entries, err := e.EntriesSorted(habitID)
	if err != nil {
		return false, err
	}

	has := false
	for _, entry := range entries {
		if entry.Day == day {
			has = true
			break
		}
	}

	e.cache.PutDay(habitID, day, gen, has)
	return has, nil
}

// CurrentStreak counts consecutive completed days ending at asOf. It is 0
// when asOf itself was not completed.
func (e *Engine) CurrentStreak(habitID string, asOf time.Time) (int, error) {
	day := e.DayOf(asOf)
	has, err := e.HasEntry(habitID, day)
	if err != nil || !has {
		return 0, err
	}

	entries, err := e.EntriesSorted(habitID)
	if err != nil {
		return 0, err
	}
	completed := daySet(entries)

	streak := 1
	for {
		prev, err := utils.AddDays(day, -1)
		if err != nil {
			return 0, err
		}
		if !completed[prev] {
			return streak, nil
		}
		streak++
		day = prev
	}
}

// LongestStreak returns the longest run of consecutive completed days.
func (e *Engine) LongestStreak(habitID string) (int, error) {
	entries, err := e.EntriesSorted(habitID)
	if err != nil {
		return 0, err
	}
	return longestRun(entries)
}

// longestRun walks entries oldest first. A gap of exactly one day extends
// the running streak, anything else starts a new one at 1.
func longestRun(entries []models.HabitEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	days := make([]string, len(entries))
	for i, entry := range entries {
		days[i] = entry.Day
	}
	sort.Strings(days)

	longest, running := 1, 1
	for i := 1; i < len(days); i++ {
		gap, err := utils.DaysBetween(days[i-1], days[i])
		if err != nil {
			return 0, err
		}
		if gap == 1 {
			running++
		} else {
			running = 1
		}
		if running > longest {
			longest = running
		}
	}
	return longest, nil
}

// ToggleCompletion removes the day's entry if present and creates one
// otherwise. It reports whether the day is completed afterwards.
func (e *Engine) ToggleCompletion(habitID, day string) (bool, error) {
	if _, err := utils.ParseDay(day); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	defer e.cache.Invalidate(habitID)

	existing, err := e.store.GetHabitEntry(habitID, day)
	switch {
	case err == nil:
		if err := e.store.DeleteHabitEntry(existing.ID); err != nil {
			return true, fmt.Errorf("failed to remove entry: %w", err)
		}
		logger.Debug("Habit entry removed", "habit", habitID, "day", day)
		return false, nil
	case errors.Is(err, apperrors.ErrNotFound):
		if err := e.addEntry(habitID, day, ""); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up entry: %w", err)
	}
}

// SetCompletion makes the day's completion state match completed. Setting a
// state that already holds is a no-op; the note only applies to new entries.
func (e *Engine) SetCompletion(habitID, day string, completed bool, note string) error {
	if _, err := utils.ParseDay(day); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	defer e.cache.Invalidate(habitID)

	existing, err := e.store.GetHabitEntry(habitID, day)
	found := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up entry: %w", err)
	}

	switch {
	case completed && !found:
		return e.addEntry(habitID, day, note)
	case !completed && found:
		if err := e.store.DeleteHabitEntry(existing.ID); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}
	}
	return nil
}

func (e *Engine) addEntry(habitID, day, note string) error {
	habit, err := e.store.GetHabit(habitID)
	if err != nil {
		return fmt.Errorf("failed to load habit: %w", err)
	}

	entry := models.HabitEntry{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		OwnerID:     habit.OwnerID,
		Day:         day,
		CompletedAt: e.completionTime(day),
		Note:        note,
	}
	if err := e.store.AddHabitEntry(entry); err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	logger.Debug("Habit entry added", "habit", habitID, "day", day)
	return nil
}

// completionTime stamps day with the current wall-clock time of day so the
// instant still lands on day in the engine's location.
func (e *Engine) completionTime(day string) time.Time {
	now := e.clock.Now().In(e.loc)
	if utils.DayKey(now, e.loc) == day {
		return now
	}
	d, err := utils.ParseDayInLocation(day, e.loc)
	if err != nil {
		return now
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, e.loc)
}

// Stats summarizes the habit as of today.
func (e *Engine) Stats(habitID string) (models.HabitStats, error) {
	current, err := e.CurrentStreak(habitID, e.clock.Now())
	if err != nil {
		return models.HabitStats{}, err
	}

	entries, err := e.EntriesSorted(habitID)
	if err != nil {
		return models.HabitStats{}, err
	}
	longest, err := longestRun(entries)
	if err != nil {
		return models.HabitStats{}, err
	}

	today := e.Today()
	windowStart, err := utils.AddDays(today, -(constants.CompletionRateDays - 1))
	if err != nil {
		return models.HabitStats{}, err
	}
	inWindow := 0
	for _, entry := range entries {
		if entry.Day >= windowStart && entry.Day <= today {
			inWindow++
		}
	}

	return models.HabitStats{
		CurrentStreak:  current,
		LongestStreak:  longest,
		TotalEntries:   len(entries),
		CompletionRate: float64(inWindow) / float64(constants.CompletionRateDays),
	}, nil
}

func daySet(entries []models.HabitEntry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, entry := range entries {
		set[entry.Day] = true
	}
	return set
}
