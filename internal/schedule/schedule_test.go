package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
)

func newTestService(t *testing.T, now time.Time) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "moodlog.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return New(store, func() time.Time { return now }), store
}

func TestLoadConfigDefaults(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))

	cfg, err := svc.LoadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", cfg.Date)
	assert.Equal(t, "09:00", cfg.EffectiveMorningTime)
	assert.Equal(t, "17:30", cfg.EffectiveEveningTime)
	assert.Empty(t, cfg.Overrides)
}

func TestUpdateConfigWithOverride(t *testing.T) {
	now := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	cfg, err := svc.UpdateConfig(ctx, "08:30", "18:00", &models.ScheduleOverride{
		Date:        "2026-01-15",
		MorningTime: "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "08:30", cfg.MorningTime)
	assert.Equal(t, "10:00", cfg.EffectiveMorningTime)
	assert.Equal(t, "18:00", cfg.EffectiveEveningTime)
	require.Len(t, cfg.Overrides, 1)
	assert.NotEmpty(t, cfg.Overrides[0].ID, "override should get an id")
	assert.WithinDuration(t, now, cfg.Overrides[0].CreatedAt, time.Second)
}

func TestUpdateConfigRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.UpdateConfig(ctx, "8am", "18:00", nil)
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.UpdateConfig(ctx, "08:00", "24:30", nil)
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.UpdateConfig(ctx, "08:00", "18:00", &models.ScheduleOverride{Date: "2026-01-14", MorningTime: "07:00"})
	assert.ErrorIs(t, err, ErrPastOverride)

	_, err = svc.UpdateConfig(ctx, "08:00", "18:00", &models.ScheduleOverride{Date: "2026-01-16"})
	assert.Error(t, err, "override without any time should be rejected")
}

func TestUpdateConfigCleansUpExpiredOverrides(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 30, 0, time.UTC)
	svc, store := newTestService(t, now)
	ctx := context.Background()

	seed := []models.ScheduleOverride{
		{ID: "past", Date: "2026-01-14", MorningTime: "07:00", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "today", Date: "2026-01-15", MorningTime: "07:30", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "stale", Date: "2026-04-01", EveningTime: "20:00", CreatedAt: now.Add(-31 * 24 * time.Hour)},
		{ID: "future", Date: "2026-02-01", EveningTime: "19:00", CreatedAt: now.Add(-29 * 24 * time.Hour)},
	}
	for _, o := range seed {
		require.NoError(t, store.SaveScheduleOverride(ctx, o))
	}

	base, err := svc.LoadConfig(ctx)
	require.NoError(t, err)
	cfg, err := svc.UpdateConfig(ctx, base.MorningTime, base.EveningTime, nil)
	require.NoError(t, err)

	var ids []string
	for _, o := range cfg.Overrides {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{"today", "future"}, ids)
	assert.Equal(t, "07:30", cfg.EffectiveMorningTime)
}

func TestClearOverride(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.UpdateConfig(ctx, "09:00", "17:30", &models.ScheduleOverride{Date: "2026-01-20", EveningTime: "21:00"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearOverride(ctx, "2026-01-20"))
	assert.Error(t, svc.ClearOverride(ctx, "2026-01-20"))

	cfg, err := svc.LoadConfigFor(ctx, "2026-01-20")
	require.NoError(t, err)
	assert.Equal(t, "17:30", cfg.EffectiveEveningTime)
}
