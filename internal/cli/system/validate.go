package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/validation"
)

// ValidateCmd reports inconsistent records and schedule entries.
type ValidateCmd struct {
	Fix bool `help:"Remove expired schedule overrides."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	result, err := c.collect(bg, ctx)
	if err != nil {
		return err
	}

	if c.Fix && result.Count(validation.ConflictExpiredOverride) > 0 {
		cfg, err := ctx.Schedule.LoadConfig(bg)
		if err != nil {
			return err
		}
		if _, err := ctx.Schedule.UpdateConfig(bg, cfg.MorningTime, cfg.EveningTime, nil); err != nil {
			return fmt.Errorf("failed to remove expired overrides: %w", err)
		}
		fmt.Printf("✓ Removed %d expired override(s)\n", result.Count(validation.ConflictExpiredOverride))

		if result, err = c.collect(bg, ctx); err != nil {
			return err
		}
	}

	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}

func (c *ValidateCmd) collect(bg context.Context, ctx *cli.Context) (validation.ValidationResult, error) {
	v := validation.New(ctx.Now())

	recs, err := ctx.Store.GetMoodRecords(bg, "0001-01-01", "9999-12-31")
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get mood records: %w", err)
	}
	settings, err := ctx.Store.GetSettings(bg)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get settings: %w", err)
	}
	overrides, err := ctx.Store.GetScheduleOverrides(bg)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get schedule overrides: %w", err)
	}

	result := v.ValidateRecords(recs)
	result.Merge(v.ValidateSchedule(settings, overrides))
	return result, nil
}
