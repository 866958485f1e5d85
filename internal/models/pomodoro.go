package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/focusday/internal/constants"
)

// TimerMode is the countdown state of the pomodoro timer
type TimerMode int

const (
	ModeInitial TimerMode = iota
	ModeRunning
	ModePaused
	ModeFinished
)

func (m TimerMode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	case ModeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// TimerPhase is one step of the pomodoro cycle
type TimerPhase int

const (
	PhaseFocus TimerPhase = iota
	PhaseShortBreak
	PhaseLongBreak
)

func (p TimerPhase) String() string {
	switch p {
	case PhaseFocus:
		return "focus"
	case PhaseShortBreak:
		return "short break"
	case PhaseLongBreak:
		return "long break"
	default:
		return "unknown"
	}
}

// IsBreak reports whether the phase is a short or long break.
func (p TimerPhase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// TimerSettings holds the user-configurable pomodoro options
type TimerSettings struct {
	FocusDuration         time.Duration `json:"focus_duration"`
	ShortBreakDuration    time.Duration `json:"short_break_duration"`
	LongBreakDuration     time.Duration `json:"long_break_duration"`
	AutoStartBreaks       bool          `json:"auto_start_breaks"`
	AutoStartFocus        bool          `json:"auto_start_focus"`
	MetronomeEnabled      bool          `json:"metronome_enabled"`
	RoundsBeforeLongBreak int           `json:"rounds_before_long_break"`
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusDuration:         constants.DefaultFocusDuration,
		ShortBreakDuration:    constants.DefaultShortBreakDuration,
		LongBreakDuration:     constants.DefaultLongBreakDuration,
		AutoStartBreaks:       constants.DefaultAutoStartBreaks,
		AutoStartFocus:        constants.DefaultAutoStartFocus,
		MetronomeEnabled:      constants.DefaultMetronomeEnabled,
		RoundsBeforeLongBreak: constants.DefaultRoundsBeforeLongBreak,
	}
}

// Validate checks that every duration is positive and rounds is at least one.
func (s TimerSettings) Validate() error {
	if s.FocusDuration <= 0 {
		return fmt.Errorf("focus duration must be positive, got %v", s.FocusDuration)
	}
	if s.ShortBreakDuration <= 0 {
		return fmt.Errorf("short break duration must be positive, got %v", s.ShortBreakDuration)
	}
	if s.LongBreakDuration <= 0 {
		return fmt.Errorf("long break duration must be positive, got %v", s.LongBreakDuration)
	}
	if s.RoundsBeforeLongBreak < 1 {
		return fmt.Errorf("rounds before long break must be at least 1, got %d", s.RoundsBeforeLongBreak)
	}
	return nil
}

// DurationFor returns the configured length of a phase.
func (s TimerSettings) DurationFor(phase TimerPhase) time.Duration {
	switch phase {
	case PhaseShortBreak:
		return s.ShortBreakDuration
	case PhaseLongBreak:
		return s.LongBreakDuration
	default:
		return s.FocusDuration
	}
}

// TimerSession accumulates completed pomodoro statistics
type TimerSession struct {
	CompletedFocus      int           `json:"completed_focus"`
	CompletedShortBreak int           `json:"completed_short_breaks"`
	CompletedLongBreak  int           `json:"completed_long_breaks"`
	TotalFocus          time.Duration `json:"total_focus"`
	LastCompletedAt     *time.Time    `json:"last_completed_at,omitempty"`
}
