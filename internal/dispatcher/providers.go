package dispatcher

import (
	"context"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
)

// ScheduleProvider supplies the reminder schedule. UpdateConfig with the
// current base times and a nil override only removes expired overrides.
type ScheduleProvider interface {
	LoadConfig(ctx context.Context) (models.ScheduleConfig, error)
	UpdateConfig(ctx context.Context, morningTime, eveningTime string, override *models.ScheduleOverride) (models.ScheduleConfig, error)
}

// RecordProvider reads and writes mood records. GetRecord returns nil, nil
// when no record exists for date.
type RecordProvider interface {
	GetRecord(ctx context.Context, date string) (*models.MoodRecord, error)
	SaveRecord(ctx context.Context, record models.MoodRecord, useAutoSaveDefaults bool) error
}

// timeoutSchedule bounds every schedule call so a hung backend stalls one call, not the tick.
type timeoutSchedule struct {
	inner   ScheduleProvider
	timeout time.Duration
}

func (s timeoutSchedule) LoadConfig(ctx context.Context) (models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.LoadConfig(ctx)
}

func (s timeoutSchedule) UpdateConfig(ctx context.Context, morningTime, eveningTime string, override *models.ScheduleOverride) (models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.UpdateConfig(ctx, morningTime, eveningTime, override)
}

type timeoutRecords struct {
	inner   RecordProvider
	timeout time.Duration
}

func (r timeoutRecords) GetRecord(ctx context.Context, date string) (*models.MoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.GetRecord(ctx, date)
}

func (r timeoutRecords) SaveRecord(ctx context.Context, record models.MoodRecord, useAutoSaveDefaults bool) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.SaveRecord(ctx, record, useAutoSaveDefaults)
}

// recordFor returns known when it belongs to date, otherwise asks the provider.
func recordFor(ctx context.Context, records RecordProvider, date string, known *models.MoodRecord) (*models.MoodRecord, error) {
	if known != nil && known.Date == date {
		return known, nil
	}
	return records.GetRecord(ctx, date)
}
