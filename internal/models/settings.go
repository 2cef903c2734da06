package models

// Settings represents application-wide settings
type Settings struct {
	MorningTime          string `json:"morning_time"`          // base morning reminder time, e.g. "09:00"
	EveningTime          string `json:"evening_time"`          // base evening reminder time, e.g. "17:30"
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether reminders are sent to the tray app
	TickIntervalSec      int    `json:"tick_interval_sec"`     // dispatcher tick interval in seconds
	ReminderWindowMin    int    `json:"reminder_window_min"`   // minutes after the scheduled time a reminder may fire
	ProviderTimeoutSec   int    `json:"provider_timeout_sec"`  // timeout for a single storage call made by the dispatcher
}
