package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/utils"
)

// SettingsCmd lists or updates persistent settings. Reminder times are
// changed with 'moodlog schedule set'.
type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used to decide the current day, or Local."`
	NotificationsEnabled *bool   `help:"Enable or disable tray notifications."`
	TickIntervalSec      *int    `help:"Seconds between dispatcher ticks."`
	ReminderWindowMin    *int    `help:"Minutes after the scheduled time a reminder may fire."`
	ProviderTimeoutSec   *int    `help:"Seconds a single storage call may take during a tick."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	settings, err := ctx.Store.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println(cli.TitleStyle.Render("Current Settings:"))
		fmt.Printf("  Morning Time:          %s\n", settings.MorningTime)
		fmt.Printf("  Evening Time:          %s\n", settings.EveningTime)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Println(cli.TitleStyle.Render("\nDispatcher Settings:"))
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Tick Interval:         %d sec\n", settings.TickIntervalSec)
		fmt.Printf("  Reminder Window:       %d min\n", settings.ReminderWindowMin)
		fmt.Printf("  Provider Timeout:      %d sec\n", settings.ProviderTimeoutSec)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.TickIntervalSec != nil {
		if *c.TickIntervalSec < 1 {
			return fmt.Errorf("tick interval must be at least 1 second")
		}
		settings.TickIntervalSec = *c.TickIntervalSec
		updated = true
	}
	if c.ReminderWindowMin != nil {
		if *c.ReminderWindowMin < 1 {
			return fmt.Errorf("reminder window must be at least 1 minute")
		}
		settings.ReminderWindowMin = *c.ReminderWindowMin
		updated = true
	}
	if c.ProviderTimeoutSec != nil {
		if *c.ProviderTimeoutSec < 1 {
			return fmt.Errorf("provider timeout must be at least 1 second")
		}
		settings.ProviderTimeoutSec = *c.ProviderTimeoutSec
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(bg, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
