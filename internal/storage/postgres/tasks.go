package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

const taskColumns = "id, owner_id, title, description, due_date, priority, tags, completed, created_at, updated_at"

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var due sql.NullTime
	var tags []string
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &due, &t.Priority,
		pq.Array(&tags), &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	t.Tags = tags
	return t, nil
}

func nullDue(t models.Task) sql.NullTime {
	if t.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.DueDate.UTC(), Valid: true}
}

func tagsOf(t models.Task) []string {
	if t.Tags == nil {
		return []string{}
	}
	return t.Tags
}

func (s *Store) AddTask(task models.Task) error {
	_, err := s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID, task.OwnerID, task.Title, task.Description, nullDue(task), int(task.Priority),
		pq.Array(tagsOf(task)), task.Completed, task.CreatedAt.UTC(), task.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetAllTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	var where []string
	args := []any{ownerID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	where = append(where, "owner_id = $1")
	if filter.Completed != nil {
		where = append(where, "completed = "+next(*filter.Completed))
	}
	if filter.Priority != nil {
		where = append(where, "priority = "+next(int(*filter.Priority)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := next("%" + search + "%")
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if filter.Tag != "" {
		where = append(where, next(filter.Tag)+" = ANY(tags)")
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " + strings.Join(where, " AND ") +
		" ORDER BY completed ASC, priority DESC, created_at DESC"

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
	res, err := s.db.Exec(`
		UPDATE tasks SET title = $1, description = $2, due_date = $3, priority = $4, tags = $5,
			completed = $6, updated_at = $7
		WHERE id = $8`,
		task.Title, task.Description, nullDue(task), int(task.Priority), pq.Array(tagsOf(task)),
		task.Completed, task.UpdatedAt.UTC(), task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task", task.ID)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res, "task", id)
}
