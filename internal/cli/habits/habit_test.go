package habits

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/config"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *clock.Fake) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg := config.Default()
	cfg.Owner = "tester"
	cfg.Timezone = "UTC"
	cfg.Storage.Path = dbPath

	c := clock.NewFake(time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC))
	ctx, err := cli.NewContext(store, cfg, "", c)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return ctx, c
}

func addHabit(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	cmd := &HabitAddCmd{Title: title}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add %q failed: %v", title, err)
	}
}

func TestHabitAdd(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &HabitAddCmd{Title: "  Read  ", Description: "20 pages", Icon: "Reading", Color: "blue"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	habit, err := ctx.FindHabit("read")
	if err != nil {
		t.Fatalf("FindHabit() error = %v", err)
	}
	if habit.Title != "Read" || habit.Icon != "book" || habit.Color != "#2196F3" || habit.OwnerID != "tester" {
		t.Errorf("habit = %+v", habit)
	}

	if err := (&HabitAddCmd{Title: "READ"}).Run(ctx); !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("duplicate add error = %v, want ErrAlreadyExists", err)
	}
}

func TestHabitAddRejectsBadOptions(t *testing.T) {
	ctx, _ := setupTestDB(t)

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{name: "blank title", cmd: HabitAddCmd{Title: "   "}},
		{name: "unknown icon", cmd: HabitAddCmd{Title: "Run", Icon: "rocket"}},
		{name: "unknown color", cmd: HabitAddCmd{Title: "Run", Color: "plaid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestHabitMarkToggles(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Stretch")
	habit, _ := ctx.FindHabit("Stretch")

	mark := &HabitMarkCmd{Title: "Stretch"}
	if err := mark.Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if has, _ := ctx.Streaks.HasEntry(habit.ID, "2025-03-12"); !has {
		t.Fatal("today not marked")
	}

	if err := mark.Run(ctx); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if has, _ := ctx.Streaks.HasEntry(habit.ID, "2025-03-12"); has {
		t.Error("second mark did not unmark")
	}

	withNote := &HabitMarkCmd{Title: "Stretch", Date: "2025-03-10", Note: "felt great"}
	if err := withNote.Run(ctx); err != nil {
		t.Fatalf("mark with note failed: %v", err)
	}
	entry, err := ctx.Store.GetHabitEntry(habit.ID, "2025-03-10")
	if err != nil || entry.Note != "felt great" {
		t.Errorf("entry = %+v, %v, want note", entry, err)
	}

	bad := &HabitMarkCmd{Title: "Stretch", Date: "03/10/2025"}
	if err := bad.Run(ctx); err == nil {
		t.Error("mark with bad date error = nil")
	}
	missing := &HabitMarkCmd{Title: "Nope"}
	if err := missing.Run(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("mark unknown habit error = %v, want ErrNotFound", err)
	}
}

func TestHabitSetAndStats(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Meditate")
	habit, _ := ctx.FindHabit("Meditate")

	for _, day := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		set := &HabitSetCmd{Title: "Meditate", Date: day, Done: true}
		if err := set.Run(ctx); err != nil {
			t.Fatalf("set %s failed: %v", day, err)
		}
	}
	// Setting an existing state again is a no-op.
	if err := (&HabitSetCmd{Title: "Meditate", Date: "2025-03-12", Done: true}).Run(ctx); err != nil {
		t.Fatalf("repeat set failed: %v", err)
	}

	stats, err := ctx.Streaks.Stats(habit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CurrentStreak != 3 || stats.TotalEntries != 3 {
		t.Errorf("stats = %+v, want streak 3 over 3 entries", stats)
	}

	if err := (&HabitSetCmd{Title: "Meditate", Date: "2025-03-11", Done: false}).Run(ctx); err != nil {
		t.Fatalf("unset failed: %v", err)
	}
	if got, _ := ctx.Streaks.CurrentStreak(habit.ID, ctx.Now()); got != 1 {
		t.Errorf("CurrentStreak() = %d, want 1 after gap", got)
	}

	if err := (&HabitStatsCmd{Title: "Meditate"}).Run(ctx); err != nil {
		t.Errorf("stats failed: %v", err)
	}
	if err := (&HabitGridCmd{Title: "Meditate", Weeks: 4}).Run(ctx); err != nil {
		t.Errorf("grid failed: %v", err)
	}
	if err := (&HabitLogCmd{Days: 7}).Run(ctx); err != nil {
		t.Errorf("log failed: %v", err)
	}
}

func TestHabitEdit(t *testing.T) {
	ctx, c := setupTestDB(t)
	addHabit(t, ctx, "Walk")
	addHabit(t, ctx, "Swim")

	c.Advance(time.Hour)
	newTitle := "Evening walk"
	color := "Orange"
	if err := (&HabitEditCmd{Title: "walk", NewTitle: &newTitle, Color: &color}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	habit, err := ctx.FindHabit("Evening walk")
	if err != nil {
		t.Fatalf("renamed habit not found: %v", err)
	}
	if habit.Color != "#FF9800" || !habit.UpdatedAt.Equal(c.Now()) {
		t.Errorf("habit = %+v", habit)
	}

	taken := "Swim"
	if err := (&HabitEditCmd{Title: "Evening walk", NewTitle: &taken}).Run(ctx); !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("rename onto existing title error = %v, want ErrAlreadyExists", err)
	}
}

func TestHabitDelete(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Journal")
	habit, _ := ctx.FindHabit("Journal")
	if err := (&HabitMarkCmd{Title: "Journal"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitDeleteCmd{Title: "Journal", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.FindHabit("Journal"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("FindHabit() after delete error = %v", err)
	}
	if entries, _ := ctx.Store.GetHabitEntriesForHabit(habit.ID); len(entries) != 0 {
		t.Errorf("%d entries survived delete", len(entries))
	}
	if backups, _ := ctx.Backups().List(); len(backups) != 1 {
		t.Errorf("automatic backups = %d, want 1", len(backups))
	}
}

func TestHabitListSearch(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Guitar practice")

	if err := (&HabitListCmd{Search: "guitar"}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&HabitListCmd{Search: "nothing matches"}).Run(ctx); err != nil {
		t.Errorf("empty list failed: %v", err)
	}
}
