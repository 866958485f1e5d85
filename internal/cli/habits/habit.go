package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/julianstephens/focusday/internal/cli"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with their streaks."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Mark   HabitMarkCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Set    HabitSetCmd    `cmd:"" help:"Set a habit's completion for a day."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show streaks and completion rate."`
	Grid   HabitGridCmd   `cmd:"" help:"Show the activity grid."`
	Log    HabitLogCmd    `cmd:"" help:"Show recent days for every habit."`
}

func resolveIcon(value string) (string, error) {
	if value == "" {
		return models.DefaultHabitIcon, nil
	}
	icon, ok := models.LookupIcon(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown icon %q", apperrors.ErrInvalidInput, value)
	}
	return icon.Key, nil
}

func resolveColor(value string) (string, error) {
	if value == "" {
		return models.DefaultHabitColor, nil
	}
	hex, ok := models.LookupColor(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown color %q", apperrors.ErrInvalidInput, value)
	}
	return hex, nil
}

func styledTitle(h models.Habit) string {
	glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(h.ColorHex())).Render(h.Glyph())
	return glyph + " " + titleStyle.Render(h.Title)
}

type HabitAddCmd struct {
	Title       string `arg:"" optional:"" help:"Habit title. Opens a form when omitted."`
	Description string `short:"d" help:"Description."`
	Icon        string `help:"Icon key or name (see the form for options)."`
	Color       string `help:"Color name or hex value."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Title == "" {
		fm := &habitFormModel{Icon: models.DefaultHabitIcon, Color: models.DefaultHabitColor}
		if err := newHabitForm(fm).Run(); err != nil {
			return err
		}
		c.Title, c.Description, c.Icon, c.Color = fm.Title, fm.Description, fm.Icon, fm.Color
	}

	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("%w: habit title cannot be empty", apperrors.ErrInvalidInput)
	}
	icon, err := resolveIcon(c.Icon)
	if err != nil {
		return err
	}
	color, err := resolveColor(c.Color)
	if err != nil {
		return err
	}

	if _, err := ctx.FindHabit(title); err == nil {
		return fmt.Errorf("habit %q: %w", title, apperrors.ErrAlreadyExists)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	now := ctx.Now()
	habit := models.Habit{
		ID:          uuid.New().String(),
		OwnerID:     ctx.Owner(),
		Title:       title,
		Description: strings.TrimSpace(c.Description),
		Icon:        icon,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", styledTitle(habit))
	return nil
}

type HabitListCmd struct {
	Search string `short:"s" help:"Only show habits whose title or description contains this text."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.Owner(), c.Search)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Streaks.Today()
	for _, habit := range habits {
		done, err := ctx.Streaks.HasEntry(habit.ID, today)
		if err != nil {
			return err
		}
		current, err := ctx.Streaks.CurrentStreak(habit.ID, ctx.Now())
		if err != nil {
			return err
		}
		status := "[ ]"
		if done {
			status = "[x]"
		}
		fmt.Printf("%s %s  %s\n", status, styledTitle(habit), labelStyle.Render(fmt.Sprintf("%d day streak", current)))
	}
	return nil
}

type HabitEditCmd struct {
	Title       string  `arg:"" help:"Current habit title."`
	NewTitle    *string `name:"title" help:"New title."`
	Description *string `short:"d" help:"New description."`
	Icon        *string `help:"New icon."`
	Color       *string `help:"New color."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}

	updated := false
	if c.NewTitle != nil {
		title := strings.TrimSpace(*c.NewTitle)
		if title == "" {
			return fmt.Errorf("%w: habit title cannot be empty", apperrors.ErrInvalidInput)
		}
		if !strings.EqualFold(title, habit.Title) {
			if _, err := ctx.FindHabit(title); err == nil {
				return fmt.Errorf("habit %q: %w", title, apperrors.ErrAlreadyExists)
			}
		}
		habit.Title = title
		updated = true
	}
	if c.Description != nil {
		habit.Description = strings.TrimSpace(*c.Description)
		updated = true
	}
	if c.Icon != nil {
		if habit.Icon, err = resolveIcon(*c.Icon); err != nil {
			return err
		}
		updated = true
	}
	if c.Color != nil {
		if habit.Color, err = resolveColor(*c.Color); err != nil {
			return err
		}
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	habit.UpdatedAt = ctx.Now()
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", styledTitle(habit))
	return nil
}

type HabitDeleteCmd struct {
	Title string `arg:"" help:"Habit title."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its entire history?", habit.Title)).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}

type HabitMarkCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string `help:"Note attached when marking done."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	var done bool
	if c.Note == "" {
		if done, err = ctx.Streaks.ToggleCompletion(habit.ID, day); err != nil {
			return err
		}
	} else {
		has, err := ctx.Streaks.HasEntry(habit.ID, day)
		if err != nil {
			return err
		}
		done = !has
		if err := ctx.Streaks.SetCompletion(habit.ID, day, done, c.Note); err != nil {
			return err
		}
	}

	if done {
		fmt.Printf("Marked %s done for %s\n", habit.Title, day)
	} else {
		fmt.Printf("Unmarked %s for %s\n", habit.Title, day)
	}
	return printStreak(ctx, habit)
}

type HabitSetCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Done  bool   `negatable:"" default:"true" help:"Whether the habit was completed."`
	Note  string `help:"Note attached to a new entry."`
}

func (c *HabitSetCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Streaks.SetCompletion(habit.ID, day, c.Done, c.Note); err != nil {
		return err
	}

	state := "not done"
	if c.Done {
		state = "done"
	}
	fmt.Printf("%s is %s for %s\n", habit.Title, state, day)
	return printStreak(ctx, habit)
}

func printStreak(ctx *cli.Context, habit models.Habit) error {
	current, err := ctx.Streaks.CurrentStreak(habit.ID, ctx.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Current streak: %d\n", current)
	return nil
}

type HabitStatsCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}
	stats, err := ctx.Streaks.Stats(habit.ID)
	if err != nil {
		return err
	}

	fmt.Println(styledTitle(habit))
	if habit.Description != "" {
		fmt.Println(labelStyle.Render(habit.Description))
	}
	fmt.Printf("\n  Current streak:   %d\n", stats.CurrentStreak)
	fmt.Printf("  Longest streak:   %d\n", stats.LongestStreak)
	fmt.Printf("  Total days:       %d\n", stats.TotalEntries)
	fmt.Printf("  Last 30 days:     %.0f%%\n", stats.CompletionRate*100)
	return nil
}

type HabitGridCmd struct {
	Title string `arg:"" help:"Habit title."`
	Weeks int    `short:"w" help:"Number of weeks to show." default:"52"`
}

func (c *HabitGridCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Title)
	if err != nil {
		return err
	}
	grid, err := ctx.Streaks.ActivityGrid(habit.ID, c.Weeks)
	if err != nil {
		return err
	}

	fmt.Println(styledTitle(habit))
	fmt.Println()
	fmt.Print(renderGrid(grid, habit.ColorHex()))
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"7"`
	Habit string `help:"Show the log for one habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	var habits []models.Habit
	if c.Habit != "" {
		habit, err := ctx.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		all, err := ctx.Store.GetAllHabits(ctx.Owner(), "")
		if err != nil {
			return err
		}
		habits = all
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	days := ctx.Streaks.RecentDays(c.Days)
	fmt.Printf("%s .. %s\n\n", days[0], days[len(days)-1])

	width := 0
	for _, h := range habits {
		width = max(width, lipgloss.Width(h.Title))
	}
	for _, habit := range habits {
		completed := make(map[string]bool, len(days))
		for _, day := range days {
			has, err := ctx.Streaks.HasEntry(habit.ID, day)
			if err != nil {
				return err
			}
			completed[day] = has
		}
		fmt.Printf("%-*s  %s\n", width, habit.Title, renderDays(days, completed, habit.ColorHex()))
	}
	return nil
}
