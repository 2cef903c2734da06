package constants

import "time"

const (
	AppName            = "moodlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/moodlog/moodlog.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "moodlog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "moodlog-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.moodlog"
	TrayProcessPrefix      = "moodlog-tray"
	TraySecretHeader       = "X-Moodlog-Secret"

	// Mood scale bounds (inclusive)
	MinMood = 1
	MaxMood = 10

	// Dispatcher constants
	DefaultTickInterval    = 30 * time.Second
	DefaultReminderWindow  = 10 * time.Minute
	DefaultProviderTimeout = 10 * time.Second

	// OverrideMaxAge is how long a schedule override is kept after it was created.
	OverrideMaxAge = 30 * 24 * time.Hour
)
