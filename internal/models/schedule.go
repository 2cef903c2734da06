package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
)

// ScheduleOverride replaces the reminder times for one specific date.
// An empty time means the base time applies for that slot.
type ScheduleOverride struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`                   // YYYY-MM-DD
	MorningTime string    `json:"morning_time,omitempty"` // HH:MM
	EveningTime string    `json:"evening_time,omitempty"` // HH:MM
	CreatedAt   time.Time `json:"created_at"`
}

func (o *ScheduleOverride) Validate() error {
	if _, err := time.Parse(constants.DateFormat, o.Date); err != nil {
		return fmt.Errorf("invalid override date (expected YYYY-MM-DD): %w", err)
	}
	if o.MorningTime == "" && o.EveningTime == "" {
		return fmt.Errorf("override for %s must set a morning or evening time", o.Date)
	}
	if o.MorningTime != "" {
		if _, err := time.Parse(constants.TimeFormat, o.MorningTime); err != nil {
			return fmt.Errorf("invalid override morning time (expected HH:MM): %w", err)
		}
	}
	if o.EveningTime != "" {
		if _, err := time.Parse(constants.TimeFormat, o.EveningTime); err != nil {
			return fmt.Errorf("invalid override evening time (expected HH:MM): %w", err)
		}
	}
	return nil
}

// ScheduleConfig is the reminder schedule as seen from a particular day.
type ScheduleConfig struct {
	MorningTime string             `json:"morning_time"` // base, HH:MM
	EveningTime string             `json:"evening_time"` // base, HH:MM
	Overrides   []ScheduleOverride `json:"overrides"`

	// Resolved for the day the config was loaded for.
	Date                 string `json:"date"`
	EffectiveMorningTime string `json:"effective_morning_time"`
	EffectiveEveningTime string `json:"effective_evening_time"`
}

// OverrideFor returns the override for date, if any.
func (c *ScheduleConfig) OverrideFor(date string) (ScheduleOverride, bool) {
	for _, o := range c.Overrides {
		if o.Date == date {
			return o, true
		}
	}
	return ScheduleOverride{}, false
}

// Resolve fills in the effective times for date.
func (c *ScheduleConfig) Resolve(date string) {
	c.Date = date
	c.EffectiveMorningTime = c.MorningTime
	c.EffectiveEveningTime = c.EveningTime
	if o, ok := c.OverrideFor(date); ok {
		if o.MorningTime != "" {
			c.EffectiveMorningTime = o.MorningTime
		}
		if o.EveningTime != "" {
			c.EffectiveEveningTime = o.EveningTime
		}
	}
}
