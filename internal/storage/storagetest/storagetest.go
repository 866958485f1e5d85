// Package storagetest holds behavior checks shared by every storage.Provider.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/storage"
)

const owner = "owner-1"

// Run exercises p against the contract the streak engine and CLI rely on.
// newProvider must return an initialized, empty provider.
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Run("Values", func(t *testing.T) { testValues(t, newProvider(t)) })
	t.Run("Habits", func(t *testing.T) { testHabits(t, newProvider(t)) })
	t.Run("HabitEntries", func(t *testing.T) { testHabitEntries(t, newProvider(t)) })
	t.Run("DeleteHabitCascades", func(t *testing.T) { testDeleteHabitCascades(t, newProvider(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newProvider(t)) })
}

// NewHabit builds a habit owned by the shared test owner.
func NewHabit(title string, updated time.Time) models.Habit {
	return models.Habit{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Title:     title,
		Icon:      models.DefaultHabitIcon,
		Color:     models.DefaultHabitColor,
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

// NewEntry builds an entry for habit on day.
func NewEntry(habit models.Habit, day string) models.HabitEntry {
	return models.HabitEntry{
		ID:          uuid.NewString(),
		HabitID:     habit.ID,
		OwnerID:     habit.OwnerID,
		Day:         day,
		CompletedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testValues(t *testing.T, p storage.Provider) {
	if _, ok, err := p.GetValue("missing"); err != nil || ok {
		t.Fatalf("GetValue(missing) = ok %v, err %v; want not ok", ok, err)
	}

	if err := p.SetValue("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := p.SetValue("k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("SetValue() overwrite error = %v", err)
	}
	got, ok, err := p.GetValue("k")
	if err != nil || !ok {
		t.Fatalf("GetValue() = ok %v, err %v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("GetValue() = %s, want overwritten value", got)
	}

	if err := p.DeleteValue("k"); err != nil {
		t.Fatalf("DeleteValue() error = %v", err)
	}
	if _, ok, _ := p.GetValue("k"); ok {
		t.Error("value still present after DeleteValue")
	}
}

func testHabits(t *testing.T, p storage.Provider) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	read := NewHabit("Read", base)
	run := NewHabit("Run", base.Add(time.Hour))
	read.Description = "twenty pages"

	for _, h := range []models.Habit{read, run} {
		if err := p.AddHabit(h); err != nil {
			t.Fatalf("AddHabit(%s) error = %v", h.Title, err)
		}
	}

	got, err := p.GetHabit(read.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Title != "Read" || got.Description != "twenty pages" || !got.CreatedAt.Equal(base) {
		t.Errorf("GetHabit() = %+v", got)
	}

	byTitle, err := p.GetHabitByTitle(owner, "run")
	if err != nil {
		t.Fatalf("GetHabitByTitle() error = %v", err)
	}
	if byTitle.ID != run.ID {
		t.Errorf("GetHabitByTitle() id = %s, want %s", byTitle.ID, run.ID)
	}

	all, err := p.GetAllHabits(owner, "")
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(all) != 2 || all[0].ID != run.ID {
		t.Fatalf("GetAllHabits() want Run first, got %+v", all)
	}

	read.Title = "Read books"
	read.UpdatedAt = base.Add(2 * time.Hour)
	if err := p.UpdateHabit(read); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	all, _ = p.GetAllHabits(owner, "")
	if all[0].ID != read.ID {
		t.Errorf("updated habit should sort first, got %s", all[0].Title)
	}

	found, err := p.GetAllHabits(owner, "books")
	if err != nil {
		t.Fatalf("GetAllHabits(search) error = %v", err)
	}
	if len(found) != 1 || found[0].ID != read.ID {
		t.Errorf("search returned %+v", found)
	}

	other, _ := p.GetAllHabits("someone-else", "")
	if len(other) != 0 {
		t.Errorf("habits leaked across owners: %+v", other)
	}

	if _, err := p.GetHabit("nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit(nope) error = %v, want ErrNotFound", err)
	}
	if err := p.UpdateHabit(NewHabit("ghost", base)); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateHabit(ghost) error = %v, want ErrNotFound", err)
	}
}

func testHabitEntries(t *testing.T, p storage.Provider) {
	h := NewHabit("Meditate", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err := p.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	days := []string{"2025-03-02", "2025-03-04", "2025-03-03"}
	for _, d := range days {
		if err := p.AddHabitEntry(NewEntry(h, d)); err != nil {
			t.Fatalf("AddHabitEntry(%s) error = %v", d, err)
		}
	}

	if err := p.AddHabitEntry(NewEntry(h, "2025-03-03")); !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("duplicate AddHabitEntry error = %v, want ErrAlreadyExists", err)
	}

	entries, err := p.GetHabitEntriesForHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabitEntriesForHabit() error = %v", err)
	}
	want := []string{"2025-03-04", "2025-03-03", "2025-03-02"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Day != want[i] {
			t.Errorf("entries[%d].Day = %s, want %s", i, e.Day, want[i])
		}
	}

	ranged, err := p.GetHabitEntriesInRange(h.ID, "2025-03-03", "2025-03-10")
	if err != nil {
		t.Fatalf("GetHabitEntriesInRange() error = %v", err)
	}
	if len(ranged) != 2 || ranged[0].Day != "2025-03-03" {
		t.Errorf("GetHabitEntriesInRange() = %+v", ranged)
	}

	entry, err := p.GetHabitEntry(h.ID, "2025-03-02")
	if err != nil {
		t.Fatalf("GetHabitEntry() error = %v", err)
	}
	if err := p.DeleteHabitEntry(entry.ID); err != nil {
		t.Fatalf("DeleteHabitEntry() error = %v", err)
	}
	if _, err := p.GetHabitEntry(h.ID, "2025-03-02"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabitEntry after delete error = %v, want ErrNotFound", err)
	}
	if err := p.DeleteHabitEntry(entry.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second DeleteHabitEntry error = %v, want ErrNotFound", err)
	}

	// The day is free again once its entry is gone
	if err := p.AddHabitEntry(NewEntry(h, "2025-03-02")); err != nil {
		t.Errorf("re-adding deleted day error = %v", err)
	}
}

func testDeleteHabitCascades(t *testing.T, p storage.Provider) {
	h := NewHabit("Stretch", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err := p.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := p.AddHabitEntry(NewEntry(h, "2025-03-01")); err != nil {
		t.Fatalf("AddHabitEntry() error = %v", err)
	}

	if err := p.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}
	if _, err := p.GetHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit after delete error = %v, want ErrNotFound", err)
	}
	entries, err := p.GetHabitEntriesForHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabitEntriesForHabit() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries survived habit deletion: %+v", entries)
	}
	if err := p.DeleteHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second DeleteHabit error = %v, want ErrNotFound", err)
	}
}

func testTasks(t *testing.T, p storage.Provider) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	report := models.Task{
		ID: uuid.NewString(), OwnerID: owner, Title: "Write report", Description: "quarterly",
		DueDate: &due, Priority: models.PriorityHigh, Tags: []string{"work", "writing"},
		CreatedAt: now, UpdatedAt: now,
	}
	groceries := models.Task{
		ID: uuid.NewString(), OwnerID: owner, Title: "Groceries", Priority: models.PriorityLow,
		Tags: []string{"home"}, CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute),
	}
	for _, task := range []models.Task{report, groceries} {
		if err := p.AddTask(task); err != nil {
			t.Fatalf("AddTask(%s) error = %v", task.Title, err)
		}
	}

	got, err := p.GetTask(report.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) || len(got.Tags) != 2 || got.Priority != models.PriorityHigh {
		t.Errorf("GetTask() = %+v", got)
	}

	all, err := p.GetAllTasks(owner, models.TaskFilter{})
	if err != nil {
		t.Fatalf("GetAllTasks() error = %v", err)
	}
	if len(all) != 2 || all[0].ID != report.ID {
		t.Fatalf("GetAllTasks() want high priority first, got %+v", all)
	}

	byTag, _ := p.GetAllTasks(owner, models.TaskFilter{Tag: "home"})
	if len(byTag) != 1 || byTag[0].ID != groceries.ID {
		t.Errorf("tag filter returned %+v", byTag)
	}
	bySearch, _ := p.GetAllTasks(owner, models.TaskFilter{Search: "quarter"})
	if len(bySearch) != 1 || bySearch[0].ID != report.ID {
		t.Errorf("search filter returned %+v", bySearch)
	}
	high := models.PriorityHigh
	byPriority, _ := p.GetAllTasks(owner, models.TaskFilter{Priority: &high})
	if len(byPriority) != 1 {
		t.Errorf("priority filter returned %+v", byPriority)
	}

	groceries.Completed = true
	groceries.UpdatedAt = now.Add(time.Hour)
	if err := p.UpdateTask(groceries); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	done := true
	completed, _ := p.GetAllTasks(owner, models.TaskFilter{Completed: &done})
	if len(completed) != 1 || completed[0].ID != groceries.ID {
		t.Errorf("completed filter returned %+v", completed)
	}

	if err := p.DeleteTask(report.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := p.GetTask(report.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetTask after delete error = %v, want ErrNotFound", err)
	}
}
