package timer

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusday/internal/audio"
	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/notifier"
	"github.com/julianstephens/focusday/internal/pomodoro"
	"github.com/julianstephens/focusday/internal/quotes"
	"github.com/julianstephens/focusday/internal/tui"
)

type TimerCmd struct {
	Run      TimerRunCmd      `cmd:"" default:"1" help:"Open the pomodoro timer."`
	Stats    TimerStatsCmd    `cmd:"" help:"Show completed pomodoro statistics."`
	Settings TimerSettingsCmd `cmd:"" help:"Show or change timer settings."`
}

type TimerRunCmd struct {
	Start bool `help:"Start the focus countdown immediately."`
}

func (c *TimerRunCmd) Run(ctx *cli.Context) error {
	scheduler := notifier.NewLocalScheduler(ctx.NewDeliverer(), ctx.Clock)
	defer scheduler.Close()

	manager := pomodoro.NewManager(ctx.Store, ctx.Clock)
	timer := pomodoro.NewTimer(manager, scheduler, pomodoro.Options{
		Clock: ctx.Clock,
		Audio: audio.NewMetronome(os.Stderr, time.Second),
	})
	defer timer.Close()

	reminders := quotes.NewService(ctx.Store, scheduler, ctx.Clock)
	if _, err := reminders.Recheck(); err != nil {
		logger.Warn("Failed to schedule quote reminders", "error", err)
	}

	if c.Start {
		timer.Start()
	}

	p := tea.NewProgram(tui.NewModel(timer), tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("timer UI failed: %w", err)
	}
	return nil
}

type TimerStatsCmd struct {
	Reset bool `help:"Zero the statistics."`
}

func (c *TimerStatsCmd) Run(ctx *cli.Context) error {
	manager := pomodoro.NewManager(ctx.Store, ctx.Clock)
	if c.Reset {
		if err := manager.ResetSession(); err != nil {
			return fmt.Errorf("failed to reset statistics: %w", err)
		}
		fmt.Println("✓ Timer statistics reset")
		return nil
	}

	s := manager.Session()
	fmt.Printf("Focus sessions:  %d\n", s.CompletedFocus)
	fmt.Printf("Time focused:    %s\n", pomodoro.FormatFocusTotal(s.TotalFocus))
	fmt.Printf("Short breaks:    %d\n", s.CompletedShortBreak)
	fmt.Printf("Long breaks:     %d\n", s.CompletedLongBreak)
	if s.LastCompletedAt != nil {
		fmt.Printf("Last completed:  %s\n", s.LastCompletedAt.In(ctx.Location).Format(constants.DateFormat+" "+constants.TimeFormat))
	}
	return nil
}
