package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
)

// MoodRecord is a single day's morning and evening mood entry.
type MoodRecord struct {
	Date        string     `json:"date"`                   // YYYY-MM-DD
	MorningMood *int       `json:"morning_mood,omitempty"` // 1-10
	EveningMood *int       `json:"evening_mood,omitempty"` // 1-10
	MorningAt   *time.Time `json:"morning_at,omitempty"`
	EveningAt   *time.Time `json:"evening_at,omitempty"`
	AutoSaved   bool       `json:"auto_saved"` // evening was filled in at rollover
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasMorning reports whether the morning mood has been recorded.
func (r *MoodRecord) HasMorning() bool {
	return r != nil && r.MorningMood != nil
}

// HasEvening reports whether the evening mood has been recorded.
func (r *MoodRecord) HasEvening() bool {
	return r != nil && r.EveningMood != nil
}

// IsComplete is true when both moods are present.
func (r *MoodRecord) IsComplete() bool {
	return r.HasMorning() && r.HasEvening()
}

// IsMinimallyValid is true when at least the morning mood is present.
func (r *MoodRecord) IsMinimallyValid() bool {
	return r.HasMorning()
}

// Clone returns a deep copy so callers can mutate the result freely.
func (r *MoodRecord) Clone() *MoodRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.MorningMood != nil {
		v := *r.MorningMood
		c.MorningMood = &v
	}
	if r.EveningMood != nil {
		v := *r.EveningMood
		c.EveningMood = &v
	}
	if r.MorningAt != nil {
		v := *r.MorningAt
		c.MorningAt = &v
	}
	if r.EveningAt != nil {
		v := *r.EveningAt
		c.EveningAt = &v
	}
	return &c
}

func (r *MoodRecord) Validate() error {
	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if r.MorningMood != nil && !ValidMood(*r.MorningMood) {
		return fmt.Errorf("morning mood %d is outside %d-%d", *r.MorningMood, constants.MinMood, constants.MaxMood)
	}
	if r.EveningMood != nil && !ValidMood(*r.EveningMood) {
		return fmt.Errorf("evening mood %d is outside %d-%d", *r.EveningMood, constants.MinMood, constants.MaxMood)
	}
	return nil
}

// ValidMood reports whether v is on the mood scale.
func ValidMood(v int) bool {
	return v >= constants.MinMood && v <= constants.MaxMood
}

// IntPtr is a small helper for building records in code and tests.
func IntPtr(v int) *int {
	return &v
}
