package schedules

import (
	"context"
	"fmt"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/utils"
)

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Resolve effective times for this day (YYYY-MM-DD). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = ctx.Today()
	}
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}

	cfg, err := ctx.Schedule.LoadConfigFor(context.Background(), date)
	if err != nil {
		return err
	}
	printConfig(cfg)
	return nil
}

func printConfig(cfg models.ScheduleConfig) {
	fmt.Println(cli.TitleStyle.Render("Reminder schedule"))
	fmt.Printf("  Base:      morning %s  evening %s\n", cfg.MorningTime, cfg.EveningTime)
	fmt.Printf("  %s: morning %s  evening %s\n", cfg.Date, cfg.EffectiveMorningTime, cfg.EffectiveEveningTime)

	if len(cfg.Overrides) == 0 {
		return
	}
	fmt.Println(cli.TitleStyle.Render("\nOverrides"))
	for _, o := range cfg.Overrides {
		morning, evening := o.MorningTime, o.EveningTime
		if morning == "" {
			morning = cli.MutedStyle.Render("base")
		}
		if evening == "" {
			evening = cli.MutedStyle.Render("base")
		}
		fmt.Printf("  %s  morning %s  evening %s\n", o.Date, morning, evening)
	}
}

// SetCmd changes the base reminder times.
type SetCmd struct {
	Morning string `help:"Base morning reminder time (HH:MM)."`
	Evening string `help:"Base evening reminder time (HH:MM)."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	if c.Morning == "" && c.Evening == "" {
		return fmt.Errorf("nothing to change: pass --morning and/or --evening")
	}
	bg := context.Background()
	current, err := ctx.Schedule.LoadConfig(bg)
	if err != nil {
		return err
	}

	morning, evening := current.MorningTime, current.EveningTime
	if c.Morning != "" {
		morning = c.Morning
	}
	if c.Evening != "" {
		evening = c.Evening
	}

	cfg, err := ctx.Schedule.UpdateConfig(bg, morning, evening, nil)
	if err != nil {
		return err
	}
	fmt.Println("✓ Schedule updated")
	printConfig(cfg)
	return nil
}

// OverrideCmd sets reminder times for a single day.
type OverrideCmd struct {
	Date    string `arg:"" help:"Day to override (YYYY-MM-DD)."`
	Morning string `help:"Morning reminder time for that day (HH:MM)."`
	Evening string `help:"Evening reminder time for that day (HH:MM)."`
}

func (c *OverrideCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	current, err := ctx.Schedule.LoadConfig(bg)
	if err != nil {
		return err
	}

	override := &models.ScheduleOverride{
		Date:        c.Date,
		MorningTime: c.Morning,
		EveningTime: c.Evening,
	}
	cfg, err := ctx.Schedule.UpdateConfig(bg, current.MorningTime, current.EveningTime, override)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Override saved for %s\n", c.Date)
	printConfig(cfg)
	return nil
}

type ClearCmd struct {
	Date string `arg:"" help:"Day whose override should be removed (YYYY-MM-DD)."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Schedule.ClearOverride(context.Background(), c.Date); err != nil {
		return err
	}
	fmt.Printf("✓ Override for %s removed\n", c.Date)
	return nil
}
