package storage

import "github.com/julianstephens/focusday/internal/models"

// Provider is the record store and key/value preference store shared by the
// streak engine, the pomodoro timer and the CLI.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key/value preferences
	GetValue(key string) ([]byte, bool, error)
	SetValue(key string, value []byte) error
	DeleteValue(key string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(ownerID, title string) (models.Habit, error)
	// GetAllHabits returns the owner's habits, most recently modified first.
	// A non-empty search matches title or description, case-insensitively.
	GetAllHabits(ownerID, search string) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	// DeleteHabit removes the habit and all of its entries.
	DeleteHabit(id string) error

	// Habit entries
	AddHabitEntry(models.HabitEntry) error
	GetHabitEntry(habitID, day string) (models.HabitEntry, error)
	// GetHabitEntriesForHabit returns entries ordered by day, newest first.
	GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error)
	GetHabitEntriesInRange(habitID, startDay, endDay string) ([]models.HabitEntry, error)
	DeleteHabitEntry(id string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed providers.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
