package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Schema
	// MigrationStatus returns the applied and the latest known schema version.
	MigrationStatus() (current int, latest int, err error)
	Migrate(logFn func(string)) (int, error)

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Mood records
	// GetMoodRecord returns ErrNotFound when no record exists for date.
	GetMoodRecord(ctx context.Context, date string) (models.MoodRecord, error)
	// SaveMoodRecord inserts or replaces the record for record.Date.
	SaveMoodRecord(ctx context.Context, record models.MoodRecord) error
	// GetMoodRecords returns records with startDate <= date <= endDate, oldest first.
	GetMoodRecords(ctx context.Context, startDate, endDate string) ([]models.MoodRecord, error)

	// Schedule overrides
	GetScheduleOverrides(ctx context.Context) ([]models.ScheduleOverride, error)
	// SaveScheduleOverride inserts the override or replaces the one for the same date.
	SaveScheduleOverride(ctx context.Context, override models.ScheduleOverride) error
	// DeleteScheduleOverride returns ErrNotFound when date has no override.
	DeleteScheduleOverride(ctx context.Context, date string) error
	// DeleteExpiredScheduleOverrides removes overrides dated before beforeDate or
	// created before createdBefore, returning how many were removed.
	DeleteExpiredScheduleOverrides(ctx context.Context, beforeDate string, createdBefore time.Time) (int, error)

	// Utils
	GetConfigPath() string
}

// TimestampFormat is fixed-width so stored timestamps compare correctly as text.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t the way timestamps are persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
