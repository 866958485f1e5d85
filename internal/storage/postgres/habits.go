package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

const habitColumns = "id, owner_id, title, description, icon, color, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	err := row.Scan(&h.ID, &h.OwnerID, &h.Title, &h.Description, &h.Icon, &h.Color, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		habit.ID, habit.OwnerID, habit.Title, habit.Description, habit.Icon, habit.Color,
		habit.CreatedAt.UTC(), habit.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, apperrors.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByTitle(ownerID, title string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(
		"SELECT "+habitColumns+" FROM habits WHERE owner_id = $1 AND lower(title) = lower($2)", ownerID, title))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", title, apperrors.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(ownerID, search string) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE owner_id = $1"
	args := []any{ownerID}
	if search = strings.TrimSpace(search); search != "" {
		query += " AND (title ILIKE $2 OR description ILIKE $2)"
		args = append(args, "%"+search+"%")
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
		UPDATE habits SET title = $1, description = $2, icon = $3, color = $4, updated_at = $5
		WHERE id = $6`,
		habit.Title, habit.Description, habit.Icon, habit.Color, habit.UpdatedAt.UTC(), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res, "habit", habit.ID)
}

// DeleteHabit removes the habit; its entries go with it via ON DELETE CASCADE.
func (s *Store) DeleteHabit(id string) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireAffected(res, "habit", id)
}

const entryColumns = "id, habit_id, owner_id, to_char(day, 'YYYY-MM-DD'), completed_at, note"

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.Day, &e.CompletedAt, &e.Note)
	return e, err
}

func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	res, err := s.db.Exec(`
		INSERT INTO habit_entries (id, habit_id, owner_id, day, completed_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		entry.ID, entry.HabitID, entry.OwnerID, entry.Day, entry.CompletedAt.UTC(), entry.Note)
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
		"SELECT "+entryColumns+" FROM habit_entries WHERE habit_id = $1 AND day = $2", habitID, day))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, fmt.Errorf("entry for %s on %s: %w", habitID, day, apperrors.ErrNotFound)
	}
	return e, err
}

func (s *Store) GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM habit_entries WHERE habit_id = $1 ORDER BY day DESC", habitID)
}

func (s *Store) GetHabitEntriesInRange(habitID, startDay, endDay string) ([]models.HabitEntry, error) {
	return s.queryEntries(`
		SELECT `+entryColumns+` FROM habit_entries
		WHERE habit_id = $1 AND day >= $2 AND day <= $3
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
	res, err := s.db.Exec("DELETE FROM habit_entries WHERE id = $1", id)
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
