package mood

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/utils"
)

const (
	slotMorning = "morning"
	slotEvening = "evening"
)

type LogCmd struct {
	Date    string `short:"d" help:"Day to record (YYYY-MM-DD). Defaults to today."`
	Morning *int   `short:"m" help:"Morning mood (1-10)."`
	Evening *int   `short:"e" help:"Evening mood (1-10)."`
}

func (c *LogCmd) Validate() error {
	if c.Date != "" && !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
	}
	for _, v := range []*int{c.Morning, c.Evening} {
		if v != nil && !models.ValidMood(*v) {
			return fmt.Errorf("mood must be between %d and %d", constants.MinMood, constants.MaxMood)
		}
	}
	return nil
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	date := c.Date
	if date == "" {
		date = ctx.Today()
	}
	if date > ctx.Today() {
		return fmt.Errorf("cannot record a mood for a future date (%s)", date)
	}

	if c.Morning == nil && c.Evening == nil {
		slot, mood, err := c.prompt(bg, ctx, date)
		if err != nil {
			return err
		}
		if slot == slotMorning {
			c.Morning = &mood
		} else {
			c.Evening = &mood
		}
	}

	var rec models.MoodRecord
	var err error
	if c.Morning != nil {
		if rec, err = ctx.Records.SetMorning(bg, date, *c.Morning); err != nil {
			return err
		}
	}
	if c.Evening != nil {
		if rec, err = ctx.Records.SetEvening(bg, date, *c.Evening); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Saved %s\n", cli.FormatRecordLine(rec))
	return nil
}

// prompt asks for the slot and value. The slot defaults to whichever is
// still missing, preferring evening once the evening reminder time has passed.
func (c *LogCmd) prompt(bg context.Context, ctx *cli.Context, date string) (string, int, error) {
	existing, err := ctx.Records.GetRecord(bg, date)
	if err != nil {
		return "", 0, fmt.Errorf("failed to load record for %s: %w", date, err)
	}
	slot := defaultSlot(bg, ctx, existing, date)

	var moodStr string
	options := make([]huh.Option[string], 0, constants.MaxMood)
	for v := constants.MaxMood; v >= constants.MinMood; v-- {
		s := strconv.Itoa(v)
		options = append(options, huh.NewOption(s, s))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Which mood for %s?", date)).
				Options(
					huh.NewOption("Morning", slotMorning),
					huh.NewOption("Evening", slotEvening),
				).
				Value(&slot),
			huh.NewSelect[string]().
				Title("How are you feeling? (10 is best)").
				Options(options...).
				Value(&moodStr),
		),
	)
	if err := form.Run(); err != nil {
		return "", 0, fmt.Errorf("interactive form error: %w", err)
	}

	mood, err := strconv.Atoi(moodStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid mood %q", moodStr)
	}
	return slot, mood, nil
}

func defaultSlot(bg context.Context, ctx *cli.Context, existing *models.MoodRecord, date string) string {
	if existing.HasMorning() != existing.HasEvening() {
		if existing.HasMorning() {
			return slotEvening
		}
		return slotMorning
	}

	if date != ctx.Today() {
		return slotMorning
	}
	cfg, err := ctx.Schedule.LoadConfigFor(bg, date)
	if err != nil {
		return slotMorning
	}
	evening, err := utils.CombineDateAndTime(date, cfg.EffectiveEveningTime, ctx.Location)
	if err != nil || ctx.Now().Before(evening) {
		return slotMorning
	}
	return slotEvening
}
