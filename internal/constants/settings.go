package constants

import "time"

const (
	// Preference keys
	SettingPomodoroSettings          = "pomodoro_settings"
	SettingPomodoroSession           = "pomodoro_session"
	SettingNotificationsEnabled      = "notifications_enabled"
	SettingQuoteNotificationsEnabled = "quote_notifications_enabled"

	// Default timer settings
	DefaultFocusDuration         = 25 * time.Minute
	DefaultShortBreakDuration    = 5 * time.Minute
	DefaultLongBreakDuration     = 15 * time.Minute
	DefaultAutoStartBreaks       = true
	DefaultAutoStartFocus        = false
	DefaultMetronomeEnabled      = false
	DefaultRoundsBeforeLongBreak = 4

	DefaultNotificationsEnabled = true
	DefaultTimezone             = "Local" // Use system local timezone by default
)
