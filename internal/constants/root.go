package constants

import "time"

const (
	AppName            = "focusday"
	Version            = "v0.1.0"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/focusday/config.yaml"
	DefaultDBName      = "focusday.db"
	DBConnectionEnvVar = "FOCUSDAY_DB_CONNECTION"

	// Storage drivers
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focusday-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "focusday-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.focusday"
	TrayProcessPrefix      = "focusday-tray"

	// Streak cache
	StreakCacheFreshness = 3 * time.Second
	DefaultGridWeeks     = 52
	DefaultRecentDays    = 7
	CompletionRateDays   = 30

	// Notification identifiers
	TimerEndNotificationID  = "timer-end"
	QuoteNotificationPrefix = "quote-notification-"
	QuoteNotificationCount  = 12
	QuoteNotificationEvery  = 2 * time.Hour
)
