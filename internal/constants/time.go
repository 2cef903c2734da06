package constants

const (
	// DateFormat is the date format used for record keys and overrides (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used for reminder times (HH:MM)
	TimeFormat = "15:04"

	// BackupTimestampFormat names backup files; BackupTimestampFormatSeconds is the collision fallback.
	BackupTimestampFormat        = "20060102-1504"
	BackupTimestampFormatSeconds = "20060102-150405"
)
