package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

const taskColumns = "id, owner_id, title, description, due_date, priority, tags, completed, created_at, updated_at"

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var dueDate sql.NullString
	var tags, createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &dueDate, &t.Priority, &tags, &t.Completed, &createdAt, &updatedAt)
	if err != nil {
		return models.Task{}, err
	}

	if dueDate.Valid {
		due, err := time.Parse(time.RFC3339Nano, dueDate.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("failed to parse due_date: %w", err)
		}
		t.DueDate = &due
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return models.Task{}, fmt.Errorf("failed to parse tags: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return models.Task{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return models.Task{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return t, nil
}

func taskArgs(t models.Task) ([]any, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	var due any
	if t.DueDate != nil {
		due = formatTime(*t.DueDate)
	}
	return []any{
		t.ID, t.OwnerID, t.Title, t.Description, due, int(t.Priority), string(tagsJSON), t.Completed,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	}, nil
}

func (s *Store) AddTask(task models.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	return t, err
}

// GetAllTasks lists the owner's tasks matching filter. Open tasks come first,
// then higher priority, then newest.
func (s *Store) GetAllTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE owner_id = ?"
	args := []any{ownerID}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *filter.Completed)
	}
	if filter.Priority != nil {
		query += " AND priority = ?"
		args = append(args, int(*filter.Priority))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Tag != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)"
		args = append(args, filter.Tag)
	}
	query += " ORDER BY completed ASC, priority DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?, tags = ?,
			completed = ?, updated_at = ?
		WHERE id = ?`,
		args[2], args[3], args[4], args[5], args[6], args[7], args[9], args[0])
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task", task.ID)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res, "task", id)
}
