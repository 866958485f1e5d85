package timer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusday/internal/cli"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/models"
	"github.com/julianstephens/focusday/internal/pomodoro"
)

// TimerSettingsCmd prints the settings when no flag is given.
type TimerSettingsCmd struct {
	Focus      time.Duration `help:"Focus length, e.g. 25m."`
	ShortBreak time.Duration `help:"Short break length."`
	LongBreak  time.Duration `help:"Long break length."`
	Rounds     int           `help:"Focus sessions before a long break."`
	AutoBreaks string        `enum:",on,off" default:"" help:"Start breaks automatically (on|off)."`
	AutoFocus  string        `enum:",on,off" default:"" help:"Start focus automatically after a break (on|off)."`
	Metronome  string        `enum:",on,off" default:"" help:"Tick once a second while running (on|off)."`
	Edit       bool          `help:"Edit settings in a form."`
}

func (c *TimerSettingsCmd) changed() bool {
	return c.Focus != 0 || c.ShortBreak != 0 || c.LongBreak != 0 || c.Rounds != 0 ||
		c.AutoBreaks != "" || c.AutoFocus != "" || c.Metronome != ""
}

func (c *TimerSettingsCmd) apply(s models.TimerSettings) models.TimerSettings {
	if c.Focus != 0 {
		s.FocusDuration = c.Focus
	}
	if c.ShortBreak != 0 {
		s.ShortBreakDuration = c.ShortBreak
	}
	if c.LongBreak != 0 {
		s.LongBreakDuration = c.LongBreak
	}
	if c.Rounds != 0 {
		s.RoundsBeforeLongBreak = c.Rounds
	}
	setToggle(&s.AutoStartBreaks, c.AutoBreaks)
	setToggle(&s.AutoStartFocus, c.AutoFocus)
	setToggle(&s.MetronomeEnabled, c.Metronome)
	return s
}

func setToggle(dst *bool, value string) {
	switch value {
	case "on":
		*dst = true
	case "off":
		*dst = false
	}
}

func (c *TimerSettingsCmd) Run(ctx *cli.Context) error {
	manager := pomodoro.NewManager(ctx.Store, ctx.Clock)
	settings := manager.Settings()

	switch {
	case c.Edit:
		edited, err := editSettings(settings)
		if err != nil {
			return err
		}
		settings = edited
	case c.changed():
		settings = c.apply(settings)
	default:
		printSettings(settings)
		return nil
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := manager.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save timer settings: %w", err)
	}
	fmt.Println("✓ Timer settings updated")
	printSettings(settings)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printSettings(s models.TimerSettings) {
	fmt.Printf("Focus:              %s\n", s.FocusDuration)
	fmt.Printf("Short break:        %s\n", s.ShortBreakDuration)
	fmt.Printf("Long break:         %s\n", s.LongBreakDuration)
	fmt.Printf("Rounds:             %d\n", s.RoundsBeforeLongBreak)
	fmt.Printf("Auto-start breaks:  %s\n", onOff(s.AutoStartBreaks))
	fmt.Printf("Auto-start focus:   %s\n", onOff(s.AutoStartFocus))
	fmt.Printf("Metronome:          %s\n", onOff(s.MetronomeEnabled))
}

type settingsFormModel struct {
	Focus      string
	ShortBreak string
	LongBreak  string
	Rounds     string
	AutoBreaks bool
	AutoFocus  bool
	Metronome  bool
}

func validMinutes(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of minutes")
	}
	return nil
}

func editSettings(s models.TimerSettings) (models.TimerSettings, error) {
	fm := &settingsFormModel{
		Focus:      strconv.Itoa(int(s.FocusDuration.Minutes())),
		ShortBreak: strconv.Itoa(int(s.ShortBreakDuration.Minutes())),
		LongBreak:  strconv.Itoa(int(s.LongBreakDuration.Minutes())),
		Rounds:     strconv.Itoa(s.RoundsBeforeLongBreak),
		AutoBreaks: s.AutoStartBreaks,
		AutoFocus:  s.AutoStartFocus,
		Metronome:  s.MetronomeEnabled,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (minutes)").Value(&fm.Focus).Validate(validMinutes),
			huh.NewInput().Title("Short break (minutes)").Value(&fm.ShortBreak).Validate(validMinutes),
			huh.NewInput().Title("Long break (minutes)").Value(&fm.LongBreak).Validate(validMinutes),
			huh.NewInput().Title("Rounds before a long break").Value(&fm.Rounds).Validate(validMinutes),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Start breaks automatically?").Value(&fm.AutoBreaks),
			huh.NewConfirm().Title("Start focus automatically after a break?").Value(&fm.AutoFocus),
			huh.NewConfirm().Title("Metronome while running?").Value(&fm.Metronome),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return s, err
	}
	return fm.settings(s), nil
}

func (fm *settingsFormModel) settings(base models.TimerSettings) models.TimerSettings {
	minutes := func(v string) time.Duration {
		n, _ := strconv.Atoi(v)
		return time.Duration(n) * time.Minute
	}
	base.FocusDuration = minutes(fm.Focus)
	base.ShortBreakDuration = minutes(fm.ShortBreak)
	base.LongBreakDuration = minutes(fm.LongBreak)
	base.RoundsBeforeLongBreak, _ = strconv.Atoi(fm.Rounds)
	base.AutoStartBreaks = fm.AutoBreaks
	base.AutoStartFocus = fm.AutoFocus
	base.MetronomeEnabled = fm.Metronome
	return base
}
