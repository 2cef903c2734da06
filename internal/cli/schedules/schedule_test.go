package schedules

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/schedule"
	"github.com/julianstephens/moodlog/internal/storage"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := &cli.Context{Store: store}
	if err := ctx.Bind(context.Background()); err != nil {
		t.Fatalf("failed to bind context: %v", err)
	}
	return ctx
}

func TestSetCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&SetCmd{Morning: "08:15"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	cfg, err := ctx.Schedule.LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MorningTime != "08:15" || cfg.EveningTime != "17:30" {
		t.Errorf("base times = %s/%s, want 08:15/17:30", cfg.MorningTime, cfg.EveningTime)
	}

	err = (&SetCmd{Evening: "25:00"}).Run(ctx)
	if !errors.Is(err, schedule.ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
	if err := (&SetCmd{}).Run(ctx); err == nil {
		t.Error("expected error when no times are given")
	}
}

func TestOverrideAndClearCmd(t *testing.T) {
	ctx := setupTestDB(t)
	bg := context.Background()
	today := ctx.Today()

	if err := (&OverrideCmd{Date: today, Evening: "21:00"}).Run(ctx); err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}

	cfg, err := ctx.Schedule.LoadConfig(bg)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.EffectiveEveningTime != "21:00" || cfg.EffectiveMorningTime != "09:00" {
		t.Errorf("effective times = %s/%s, want 09:00/21:00", cfg.EffectiveMorningTime, cfg.EffectiveEveningTime)
	}

	if err := (&ClearCmd{Date: today}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	err = (&ClearCmd{Date: today}).Run(ctx)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound clearing twice, got %v", err)
	}
}

func TestOverrideCmd_RejectsPastDate(t *testing.T) {
	ctx := setupTestDB(t)

	err := (&OverrideCmd{Date: "2001-01-01", Morning: "07:00"}).Run(ctx)
	if !errors.Is(err, schedule.ErrPastOverride) {
		t.Errorf("expected ErrPastOverride, got %v", err)
	}
}
