package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/notifier"
	"github.com/julianstephens/focusday/internal/storage"
	"github.com/julianstephens/focusday/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warn checks never fail the run.
	warn bool
	// needsDB checks are skipped when the store is unreachable.
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Habit entries", run: checkHabitEntries, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Tray notifications", run: checkTray, warn: true},
}

var errDoctorFailed = errors.New("diagnostics found problems")

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			fmt.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		return errDoctorFailed
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run 'focusday migrate'", current, latest)
	}
	return nil
}

func checkHabitEntries(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.Owner(), "")
	if err != nil {
		return err
	}
	for _, h := range habits {
		entries, err := ctx.Store.GetHabitEntriesForHabit(h.ID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if _, err := utils.ParseDay(e.Day); err != nil {
				return fmt.Errorf("habit %q has an entry with bad day %q", h.Title, e.Day)
			}
			if seen[e.Day] {
				return fmt.Errorf("habit %q has more than one entry on %s", h.Title, e.Day)
			}
			seen[e.Day] = true
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	if now := ctx.Now(); now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	backups, err := ctx.Backups().List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups yet, run 'focusday backup create'")
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled || !ctx.Config.Notifications.Tray {
		return nil
	}
	if err := notifier.NewTrayNotifier().Probe(); err != nil {
		return fmt.Errorf("notifications will go to the log: %w", err)
	}
	return nil
}
