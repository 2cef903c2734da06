package constants

const (
	SettingMorningTime          = "morning_time"
	SettingEveningTime          = "evening_time"
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTickIntervalSec      = "tick_interval_sec"
	SettingReminderWindowMin    = "reminder_window_min"
	SettingProviderTimeoutSec   = "provider_timeout_sec"

	// Default Settings Values
	DefaultMorningTime          = "09:00"
	DefaultEveningTime          = "17:30"
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultTickIntervalSec      = 30
	DefaultReminderWindowMin    = 10
	DefaultProviderTimeoutSec   = 10
)
