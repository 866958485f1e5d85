package models

import "time"

// Habit represents a recurring activity tracked by daily completion
type Habit struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"` // hex, e.g. "#4CAF50"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HabitEntry marks a habit as completed on a single calendar day
type HabitEntry struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	OwnerID     string    `json:"owner_id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	CompletedAt time.Time `json:"completed_at"`
	Note        string    `json:"note"`
}

// HabitStats summarizes a habit's completion history
type HabitStats struct {
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	TotalEntries   int     `json:"total_entries"`
	CompletionRate float64 `json:"completion_rate"` // fraction of the last N days completed
}
