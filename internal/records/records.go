// Package records is the mood record provider used by the CLI and the dispatcher.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/storage"
)

var ErrInvalidMood = fmt.Errorf("mood must be between %d and %d", constants.MinMood, constants.MaxMood)

// Store is the subset of storage.Provider the record provider needs.
type Store interface {
	GetMoodRecord(ctx context.Context, date string) (models.MoodRecord, error)
	SaveMoodRecord(ctx context.Context, record models.MoodRecord) error
	GetMoodRecords(ctx context.Context, startDate, endDate string) ([]models.MoodRecord, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func New(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// GetRecord returns the record for date, or nil when none has been saved.
func (s *Service) GetRecord(ctx context.Context, date string) (*models.MoodRecord, error) {
	rec, err := s.store.GetMoodRecord(ctx, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// SaveRecord validates and persists record. With useAutoSaveDefaults a
// missing evening mood is filled in from the morning mood.
func (s *Service) SaveRecord(ctx context.Context, record models.MoodRecord, useAutoSaveDefaults bool) error {
	now := s.now()
	if useAutoSaveDefaults {
		ApplyAutoSaveDefaults(&record, now)
	}
	if err := record.Validate(); err != nil {
		return err
	}
	record.UpdatedAt = now
	return s.store.SaveMoodRecord(ctx, record)
}

// ApplyAutoSaveDefaults fills a missing evening mood with the morning value.
// Records without a morning mood are left untouched.
func ApplyAutoSaveDefaults(record *models.MoodRecord, now time.Time) {
	if record.MorningMood == nil || record.EveningMood != nil {
		return
	}
	record.EveningMood = models.IntPtr(*record.MorningMood)
	record.EveningAt = &now
	record.AutoSaved = true
}

// SetMorning records the morning mood for date, creating the record if needed.
func (s *Service) SetMorning(ctx context.Context, date string, mood int) (models.MoodRecord, error) {
	return s.set(ctx, date, mood, func(r *models.MoodRecord, at time.Time) {
		r.MorningMood = models.IntPtr(mood)
		r.MorningAt = &at
	})
}

// SetEvening records the evening mood for date, creating the record if needed.
// A manual entry clears the auto-saved flag.
func (s *Service) SetEvening(ctx context.Context, date string, mood int) (models.MoodRecord, error) {
	return s.set(ctx, date, mood, func(r *models.MoodRecord, at time.Time) {
		r.EveningMood = models.IntPtr(mood)
		r.EveningAt = &at
		r.AutoSaved = false
	})
}

func (s *Service) set(ctx context.Context, date string, mood int, apply func(*models.MoodRecord, time.Time)) (models.MoodRecord, error) {
	if !models.ValidMood(mood) {
		return models.MoodRecord{}, ErrInvalidMood
	}

	existing, err := s.GetRecord(ctx, date)
	if err != nil {
		return models.MoodRecord{}, fmt.Errorf("failed to load record for %s: %w", date, err)
	}
	rec := models.MoodRecord{Date: date}
	if existing != nil {
		rec = *existing
	}

	apply(&rec, s.now())
	if err := s.SaveRecord(ctx, rec, false); err != nil {
		return models.MoodRecord{}, fmt.Errorf("failed to save record for %s: %w", date, err)
	}
	return rec, nil
}

// List returns the records between from and to inclusive, oldest first.
func (s *Service) List(ctx context.Context, from, to string) ([]models.MoodRecord, error) {
	if from > to {
		return nil, fmt.Errorf("start date %s is after end date %s", from, to)
	}
	return s.store.GetMoodRecords(ctx, from, to)
}
