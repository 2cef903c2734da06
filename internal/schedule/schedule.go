// Package schedule resolves the effective reminder times for a day and
// maintains date-specific overrides.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/logger"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/storage"
	"github.com/julianstephens/moodlog/internal/utils"
)

var (
	ErrInvalidTime  = errors.New("time must be in HH:MM format")
	ErrPastOverride = errors.New("override date is in the past")
)

// Store is the subset of storage.Provider the schedule provider needs.
type Store interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
	GetScheduleOverrides(ctx context.Context) ([]models.ScheduleOverride, error)
	SaveScheduleOverride(ctx context.Context, override models.ScheduleOverride) error
	DeleteScheduleOverride(ctx context.Context, date string) error
	DeleteExpiredScheduleOverrides(ctx context.Context, beforeDate string, createdBefore time.Time) (int, error)
}

type Service struct {
	store Store
	// now must return wall-clock time in the user's timezone; "today" is derived from it.
	now func() time.Time
}

func New(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// LoadConfig returns the schedule with effective times resolved for today.
func (s *Service) LoadConfig(ctx context.Context) (models.ScheduleConfig, error) {
	return s.LoadConfigFor(ctx, utils.DateOf(s.now()))
}

// LoadConfigFor returns the schedule with effective times resolved for date.
func (s *Service) LoadConfigFor(ctx context.Context, date string) (models.ScheduleConfig, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.ScheduleConfig{}, fmt.Errorf("failed to load settings: %w", err)
	}
	overrides, err := s.store.GetScheduleOverrides(ctx)
	if err != nil {
		return models.ScheduleConfig{}, fmt.Errorf("failed to load schedule overrides: %w", err)
	}

	cfg := models.ScheduleConfig{
		MorningTime: settings.MorningTime,
		EveningTime: settings.EveningTime,
		Overrides:   overrides,
	}
	cfg.Resolve(date)
	return cfg, nil
}

// UpdateConfig stores the base times, adds override when non-nil, and drops
// overrides for past dates or created more than 30 days ago. Passing the
// current base times and a nil override is a pure cleanup pass.
func (s *Service) UpdateConfig(ctx context.Context, morningTime, eveningTime string, override *models.ScheduleOverride) (models.ScheduleConfig, error) {
	if !utils.ValidateTimeFormat(morningTime) {
		return models.ScheduleConfig{}, fmt.Errorf("morning %q: %w", morningTime, ErrInvalidTime)
	}
	if !utils.ValidateTimeFormat(eveningTime) {
		return models.ScheduleConfig{}, fmt.Errorf("evening %q: %w", eveningTime, ErrInvalidTime)
	}

	now := s.now()
	today := utils.DateOf(now)

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return models.ScheduleConfig{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.MorningTime != morningTime || settings.EveningTime != eveningTime {
		settings.MorningTime = morningTime
		settings.EveningTime = eveningTime
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return models.ScheduleConfig{}, fmt.Errorf("failed to save schedule: %w", err)
		}
	}

	if override != nil {
		o := *override
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if err := o.Validate(); err != nil {
			return models.ScheduleConfig{}, err
		}
		if o.Date < today {
			return models.ScheduleConfig{}, fmt.Errorf("%s: %w", o.Date, ErrPastOverride)
		}
		if err := s.store.SaveScheduleOverride(ctx, o); err != nil {
			return models.ScheduleConfig{}, err
		}
	}

	removed, err := s.store.DeleteExpiredScheduleOverrides(ctx, today, now.Add(-constants.OverrideMaxAge))
	if err != nil {
		return models.ScheduleConfig{}, fmt.Errorf("failed to clean up schedule overrides: %w", err)
	}
	if removed > 0 {
		logger.Info("Removed expired schedule overrides", "count", removed, "today", today)
	}

	return s.LoadConfigFor(ctx, today)
}

// ClearOverride removes the override for date.
func (s *Service) ClearOverride(ctx context.Context, date string) error {
	if err := s.store.DeleteScheduleOverride(ctx, date); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no override for %s: %w", date, err)
		}
		return err
	}
	return nil
}
