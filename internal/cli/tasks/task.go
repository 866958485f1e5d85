package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/constants"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/utils"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a new task."`
	List   TaskListCmd   `cmd:"" help:"List tasks."`
	Edit   TaskEditCmd   `cmd:"" help:"Edit a task."`
	Done   TaskDoneCmd   `cmd:"" help:"Toggle a task's completed state."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
}

// parseTags splits a comma-separated list, dropping blanks and duplicates.
func parseTags(s string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func parseDue(ctx *cli.Context, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	due, err := utils.ParseDayInLocation(s, ctx.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due date %q (expected YYYY-MM-DD)", apperrors.ErrInvalidInput, s)
	}
	return &due, nil
}

// findTask accepts a full id or a unique id prefix.
func findTask(ctx *cli.Context, id string) (models.Task, error) {
	task, err := ctx.Store.GetTask(id)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return models.Task{}, err
	}
	all, err := ctx.Store.GetAllTasks(ctx.Owner(), models.TaskFilter{})
	if err != nil {
		return models.Task{}, err
	}
	var matches []models.Task
	for _, t := range all {
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%w: task id prefix %q is ambiguous", apperrors.ErrInvalidInput, id)
	}
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Description."`
	Due         string `help:"Due date (YYYY-MM-DD)."`
	Priority    string `short:"p" help:"Priority (low|medium|high)." default:"low"`
	Tags        string `short:"t" help:"Comma-separated tags."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("%w: task title cannot be empty", apperrors.ErrInvalidInput)
	}
	priority, err := models.ParsePriority(c.Priority)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	due, err := parseDue(ctx, c.Due)
	if err != nil {
		return err
	}

	now := ctx.Now()
	task := models.Task{
		ID:          uuid.New().String(),
		OwnerID:     ctx.Owner(),
		Title:       title,
		Description: strings.TrimSpace(c.Description),
		DueDate:     due,
		Priority:    priority,
		Tags:        parseTags(c.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ctx.Store.AddTask(task); err != nil {
		return err
	}
	fmt.Printf("Added task %s: %s\n", task.ID[:8], task.Title)
	return nil
}

type TaskListCmd struct {
	All      bool   `short:"a" help:"Include completed tasks."`
	Done     bool   `help:"Only show completed tasks."`
	Search   string `short:"s" help:"Filter by title or description."`
	Priority string `short:"p" help:"Filter by priority."`
	Tag      string `short:"t" help:"Filter by tag."`
}

func (c *TaskListCmd) filter() (models.TaskFilter, error) {
	filter := models.TaskFilter{Search: c.Search, Tag: strings.ToLower(strings.TrimSpace(c.Tag))}
	switch {
	case c.Done:
		done := true
		filter.Completed = &done
	case !c.All:
		open := false
		filter.Completed = &open
	}
	if c.Priority != "" {
		p, err := models.ParsePriority(c.Priority)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		filter.Priority = &p
	}
	return filter, nil
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	filter, err := c.filter()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.GetAllTasks(ctx.Owner(), filter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, t := range tasks {
		status := "[ ]"
		if t.Completed {
			status = "[x]"
		}
		line := fmt.Sprintf("%s %s  %-6s  %s", status, t.ID[:8], t.Priority, t.Title)
		if t.DueDate != nil {
			line += "  due " + t.DueDate.In(ctx.Location).Format(constants.DateFormat)
		}
		if len(t.Tags) > 0 {
			line += "  #" + strings.Join(t.Tags, " #")
		}
		fmt.Println(line)
	}
	return nil
}

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task id or id prefix."`
	Title       *string `help:"New title."`
	Description *string `short:"d" help:"New description."`
	Due         *string `help:"New due date (YYYY-MM-DD), or empty to clear."`
	Priority    *string `short:"p" help:"New priority."`
	Tags        *string `short:"t" help:"Replace tags (comma-separated)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}

	updated := false
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title == "" {
			return fmt.Errorf("%w: task title cannot be empty", apperrors.ErrInvalidInput)
		}
		task.Title = title
		updated = true
	}
	if c.Description != nil {
		task.Description = strings.TrimSpace(*c.Description)
		updated = true
	}
	if c.Due != nil {
		if task.DueDate, err = parseDue(ctx, *c.Due); err != nil {
			return err
		}
		updated = true
	}
	if c.Priority != nil {
		p, err := models.ParsePriority(*c.Priority)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		task.Priority = p
		updated = true
	}
	if c.Tags != nil {
		task.Tags = parseTags(*c.Tags)
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	task.UpdatedAt = ctx.Now()
	if err := ctx.Store.UpdateTask(task); err != nil {
		return err
	}
	fmt.Printf("Updated task %s: %s\n", task.ID[:8], task.Title)
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id or id prefix."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}
	task.Completed = !task.Completed
	task.UpdatedAt = ctx.Now()
	if err := ctx.Store.UpdateTask(task); err != nil {
		return err
	}
	if task.Completed {
		fmt.Printf("Completed: %s\n", task.Title)
	} else {
		fmt.Printf("Reopened: %s\n", task.Title)
	}
	return nil
}

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task id or id prefix."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := findTask(ctx, c.ID)
	if err != nil {
		return err
	}
	if !c.Yes {
		confirmed := false
		if err := huh.NewConfirm().Title(fmt.Sprintf("Delete task %q?", task.Title)).Value(&confirmed).Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}
