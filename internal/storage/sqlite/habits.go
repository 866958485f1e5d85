package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

const habitColumns = "id, owner_id, title, description, icon, color, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.OwnerID, &h.Title, &h.Description, &h.Icon, &h.Color, &createdAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}

	var err error
	h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return h, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.OwnerID, habit.Title, habit.Description, habit.Icon, habit.Color,
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, apperrors.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByTitle(ownerID, title string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(
		"SELECT "+habitColumns+" FROM habits WHERE owner_id = ? AND title = ? COLLATE NOCASE", ownerID, title))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", title, apperrors.ErrNotFound)
	}
	return h, err
}

// GetAllHabits lists the owner's habits, most recently modified first.
// A non-empty search matches title or description case-insensitively.
func (s *Store) GetAllHabits(ownerID, search string) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE owner_id = ?"
	args := []any{ownerID}
	if search = strings.TrimSpace(search); search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET title = ?, description = ?, icon = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		habit.Title, habit.Description, habit.Icon, habit.Color, formatTime(habit.UpdatedAt), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res, "habit", habit.ID)
}

// DeleteHabit removes the habit and every entry recorded for it.
func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_entries WHERE habit_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habit entries: %w", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := requireAffected(res, "habit", id); err != nil {
		return err
	}
	return tx.Commit()
}

const entryColumns = "id, habit_id, owner_id, day, completed_at, note"

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var completedAt string
	if err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.Day, &completedAt, &e.Note); err != nil {
		return models.HabitEntry{}, err
	}
	var err error
	e.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	return e, nil
}

// AddHabitEntry records a completion. A second entry for the same habit and
// day fails with ErrAlreadyExists.
func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	res, err := s.db.Exec(`
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		entry.ID, entry.HabitID, entry.OwnerID, entry.Day, formatTime(entry.CompletedAt), entry.Note)
	if err != nil {
		return fmt.Errorf("failed to add habit entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry for %s on %s: %w", entry.HabitID, entry.Day, apperrors.ErrAlreadyExists)
	}
	return nil
}

func (s *Store) GetHabitEntry(habitID, day string) (models.HabitEntry, error) {
	e, err := scanEntry(s.db.QueryRow(
		"SELECT "+entryColumns+" FROM habit_entries WHERE habit_id = ? AND day = ?", habitID, day))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, fmt.Errorf("entry for %s on %s: %w", habitID, day, apperrors.ErrNotFound)
	}
	return e, err
}

// GetHabitEntriesForHabit returns every entry, newest day first.
func (s *Store) GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM habit_entries WHERE habit_id = ? ORDER BY day DESC", habitID)
}

// GetHabitEntriesInRange returns entries with startDay <= day <= endDay, oldest first.
func (s *Store) GetHabitEntriesInRange(habitID, startDay, endDay string) ([]models.HabitEntry, error) {
	return s.queryEntries(`
		SELECT `+entryColumns+` FROM habit_entries
		WHERE habit_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC`, habitID, startDay, endDay)
}

func (s *Store) queryEntries(query string, args ...any) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HabitEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteHabitEntry(id string) error {
	res, err := s.db.Exec("DELETE FROM habit_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit entry: %w", err)
	}
	return requireAffected(res, "habit entry", id)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
	}
	return nil
}
