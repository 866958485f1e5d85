// Package memory is an in-process storage.Provider. Nothing survives Close.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

type entryKey struct {
	habitID string
	day     string
}

type Store struct {
	mu      sync.RWMutex
	values  map[string][]byte
	habits  map[string]models.Habit
	entries map[string]models.HabitEntry
	byDay   map[entryKey]string
	tasks   map[string]models.Task
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.values = make(map[string][]byte)
	s.habits = make(map[string]models.Habit)
	s.entries = make(map[string]models.HabitEntry)
	s.byDay = make(map[entryKey]string)
	s.tasks = make(map[string]models.Task)
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string {
	return "memory"
}

func (s *Store) GetValue(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) SetValue(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) DeleteValue(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[habit.ID]; ok {
		return fmt.Errorf("habit %s: %w", habit.ID, apperrors.ErrAlreadyExists)
	}
	s.habits[habit.ID] = habit
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, apperrors.ErrNotFound)
	}
	return h, nil
}

func (s *Store) GetHabitByTitle(ownerID, title string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if h.OwnerID == ownerID && strings.EqualFold(h.Title, title) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", title, apperrors.ErrNotFound)
}

func (s *Store) GetAllHabits(ownerID, search string) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	habits := []models.Habit{}
	for _, h := range s.habits {
		if h.OwnerID != ownerID {
			continue
		}
		if search != "" && !containsFold(h.Title, search) && !containsFold(h.Description, search) {
			continue
		}
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].UpdatedAt.After(habits[j].UpdatedAt)
	})
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.habits[habit.ID]
	if !ok {
		return fmt.Errorf("habit %s: %w", habit.ID, apperrors.ErrNotFound)
	}
	existing.Title = habit.Title
	existing.Description = habit.Description
	existing.Icon = habit.Icon
	existing.Color = habit.Color
	existing.UpdatedAt = habit.UpdatedAt
	s.habits[habit.ID] = existing
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.habits, id)
	for entryID, e := range s.entries {
		if e.HabitID == id {
			delete(s.entries, entryID)
			delete(s.byDay, entryKey{e.HabitID, e.Day})
		}
	}
	return nil
}

func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entryKey{entry.HabitID, entry.Day}
	if _, ok := s.byDay[key]; ok {
		return fmt.Errorf("entry for %s on %s: %w", entry.HabitID, entry.Day, apperrors.ErrAlreadyExists)
	}
	s.entries[entry.ID] = entry
	s.byDay[key] = entry.ID
	return nil
}

func (s *Store) GetHabitEntry(habitID, day string) (models.HabitEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byDay[entryKey{habitID, day}]
	if !ok {
		return models.HabitEntry{}, fmt.Errorf("entry for %s on %s: %w", habitID, day, apperrors.ErrNotFound)
	}
	return s.entries[id], nil
}

func (s *Store) GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error) {
	entries := s.collectEntries(habitID, "", "")
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day > entries[j].Day })
	return entries, nil
}

func (s *Store) GetHabitEntriesInRange(habitID, startDay, endDay string) ([]models.HabitEntry, error) {
	entries := s.collectEntries(habitID, startDay, endDay)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	return entries, nil
}

// collectEntries filters by habit and an optional inclusive day range.
// Day keys are YYYY-MM-DD so string comparison orders them by date.
func (s *Store) collectEntries(habitID, startDay, endDay string) []models.HabitEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.HabitEntry{}
	for _, e := range s.entries {
		if e.HabitID != habitID {
			continue
		}
		if startDay != "" && e.Day < startDay {
			continue
		}
		if endDay != "" && e.Day > endDay {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (s *Store) DeleteHabitEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("habit entry %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.entries, id)
	delete(s.byDay, entryKey{e.HabitID, e.Day})
	return nil
}

func (s *Store) AddTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("task %s: %w", task.ID, apperrors.ErrAlreadyExists)
	}
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	return cloneTask(t), nil
}

func (s *Store) GetAllTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if search != "" && !containsFold(t.Title, search) && !containsFold(t.Description, search) {
			continue
		}
		if filter.Tag != "" && !hasTag(t.Tags, filter.Tag) {
			continue
		}
		tasks = append(tasks, cloneTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return tasks, nil
}

func (s *Store) UpdateTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok {
		return fmt.Errorf("task %s: %w", task.ID, apperrors.ErrNotFound)
	}
	task.OwnerID = existing.OwnerID
	task.CreatedAt = existing.CreatedAt
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.tasks, id)
	return nil
}

func cloneTask(t models.Task) models.Task {
	t.Tags = append([]string(nil), t.Tags...)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
