package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusday/internal/backup"
	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/config"
	"github.com/julianstephens/focusday/internal/constants"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/notifier"
	"github.com/julianstephens/focusday/internal/storage"
	"github.com/julianstephens/focusday/internal/streak"
	"github.com/julianstephens/focusday/internal/utils"
)

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigPath string
	Clock      clock.Clock
	Location   *time.Location
	Streaks    *streak.Engine
}

// NewContext wires the streak engine for store using the configured
// timezone. A nil clock selects the system clock.
func NewContext(store storage.Provider, cfg config.Config, configPath string, c clock.Clock) (*Context, error) {
	if c == nil {
		c = clock.System{}
	}
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	cache := streak.NewCache(c, constants.StreakCacheFreshness)
	return &Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
		Clock:      c,
		Location:   loc,
		Streaks:    streak.NewEngine(store, cache, c, loc),
	}, nil
}

func (c *Context) Owner() string {
	return c.Config.Owner
}

func (c *Context) Now() time.Time {
	return c.Clock.Now()
}

// FindHabit looks a habit up by title for the current owner.
func (c *Context) FindHabit(title string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByTitle(c.Owner(), title)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", title, apperrors.ErrNotFound)
	}
	return habit, err
}

// ResolveDay validates a YYYY-MM-DD flag, defaulting to today.
func (c *Context) ResolveDay(day string) (string, error) {
	if day == "" {
		return c.Streaks.Today(), nil
	}
	if _, err := utils.ParseDay(day); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	return day, nil
}

// NewDeliverer picks the notification channel from the config.
func (c *Context) NewDeliverer() notifier.Deliverer {
	if !c.Config.Notifications.Enabled || !c.Config.Notifications.Tray {
		return notifier.LogDeliverer{}
	}
	return notifier.Fallback{Primary: notifier.NewTrayNotifier(), Secondary: notifier.LogDeliverer{}}
}

// IsSQLite reports whether the store is a database file that can be backed up.
func (c *Context) IsSQLite() bool {
	return c.Config.Storage.Driver == constants.DriverSQLite
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store.GetConfigPath(), c.Clock)
}

// PerformAutomaticBackup snapshots the SQLite database before destructive
// commands. Failures are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	if _, err := c.Backups().Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
