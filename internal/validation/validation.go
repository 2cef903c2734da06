// Package validation finds inconsistencies in stored mood records and the
// reminder schedule that the storage layer accepts but the app never writes.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictInvalidMood         ConflictType = "invalid_mood"
	ConflictFutureRecord        ConflictType = "future_record"
	ConflictAutoSaveWithoutMood ConflictType = "auto_save_without_mood"
	ConflictAutoSaveMismatch    ConflictType = "auto_save_mismatch"
	ConflictTimestampOrder      ConflictType = "timestamp_order"
	ConflictInvalidTime         ConflictType = "invalid_time"
	ConflictInvertedSchedule    ConflictType = "inverted_schedule"
	ConflictDuplicateOverride   ConflictType = "duplicate_override"
	ConflictExpiredOverride     ConflictType = "expired_override"
)

// Conflict represents one detected problem.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD, when the conflict is tied to a day
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// Count returns how many conflicts have type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(t ConflictType, date, format string, args ...interface{}) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Date:        date,
		Description: fmt.Sprintf(format, args...),
	})
}

// Validator checks records and schedules relative to a point in time.
type Validator struct {
	now time.Time
}

// New creates a Validator for which "today" is the date of now in now's location.
func New(now time.Time) *Validator {
	return &Validator{now: now}
}

// ValidateRecords checks each record on its own.
func (v *Validator) ValidateRecords(records []models.MoodRecord) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today := utils.DateOf(v.now)

	for _, r := range records {
		if !utils.ValidateDateFormat(r.Date) {
			result.add(ConflictInvalidDate, r.Date, "Record has invalid date %q", r.Date)
			continue
		}
		if r.Date > today {
			result.add(ConflictFutureRecord, r.Date, "Record for %s is in the future", r.Date)
		}
		for slot, mood := range map[string]*int{"morning": r.MorningMood, "evening": r.EveningMood} {
			if mood != nil && !models.ValidMood(*mood) {
				result.add(ConflictInvalidMood, r.Date, "Record for %s has %s mood %d outside %d-%d",
					r.Date, slot, *mood, constants.MinMood, constants.MaxMood)
			}
		}
		if r.AutoSaved {
			switch {
			case r.MorningMood == nil || r.EveningMood == nil:
				result.add(ConflictAutoSaveWithoutMood, r.Date, "Record for %s is marked auto-saved but is missing a mood", r.Date)
			case *r.MorningMood != *r.EveningMood:
				result.add(ConflictAutoSaveMismatch, r.Date, "Record for %s is marked auto-saved but evening (%d) differs from morning (%d)",
					r.Date, *r.EveningMood, *r.MorningMood)
			}
		}
		if r.MorningAt != nil && r.EveningAt != nil && r.EveningAt.Before(*r.MorningAt) && !r.AutoSaved {
			result.add(ConflictTimestampOrder, r.Date, "Record for %s has its evening entry before its morning entry", r.Date)
		}
	}

	sortConflicts(result.Conflicts)
	return result
}

// ValidateSchedule checks the base times and every override.
func (v *Validator) ValidateSchedule(settings models.Settings, overrides []models.ScheduleOverride) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today := utils.DateOf(v.now)

	baseOK := true
	for name, t := range map[string]string{"morning": settings.MorningTime, "evening": settings.EveningTime} {
		if !utils.ValidateTimeFormat(t) {
			result.add(ConflictInvalidTime, "", "Base %s time %q is not HH:MM", name, t)
			baseOK = false
		}
	}
	if baseOK && !before(settings.MorningTime, settings.EveningTime) {
		result.add(ConflictInvertedSchedule, "", "Base morning time %s is not before evening time %s", settings.MorningTime, settings.EveningTime)
	}

	seen := make(map[string]bool)
	for _, o := range overrides {
		if seen[o.Date] {
			result.add(ConflictDuplicateOverride, o.Date, "More than one override for %s", o.Date)
		}
		seen[o.Date] = true

		if err := o.Validate(); err != nil {
			result.add(ConflictInvalidTime, o.Date, "Override for %s is invalid: %v", o.Date, err)
			continue
		}
		if o.Date < today || (!o.CreatedAt.IsZero() && o.CreatedAt.Before(v.now.Add(-constants.OverrideMaxAge))) {
			result.add(ConflictExpiredOverride, o.Date, "Override for %s has expired and should have been removed", o.Date)
		}

		if !baseOK {
			continue
		}
		cfg := models.ScheduleConfig{MorningTime: settings.MorningTime, EveningTime: settings.EveningTime, Overrides: []models.ScheduleOverride{o}}
		cfg.Resolve(o.Date)
		if !before(cfg.EffectiveMorningTime, cfg.EffectiveEveningTime) {
			result.add(ConflictInvertedSchedule, o.Date, "On %s the morning reminder (%s) is not before the evening reminder (%s)",
				o.Date, cfg.EffectiveMorningTime, cfg.EffectiveEveningTime)
		}
	}

	sortConflicts(result.Conflicts)
	return result
}

// before compares two valid HH:MM times; "9:00" and "09:00" are equal.
func before(a, b string) bool {
	ta, errA := utils.ParseTime(a)
	tb, errB := utils.ParseTime(b)
	return errA == nil && errB == nil && ta.Before(tb)
}

// sortConflicts orders by date then type so reports are stable.
func sortConflicts(cs []Conflict) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Date != cs[j].Date {
			return cs[i].Date < cs[j].Date
		}
		if cs[i].Type != cs[j].Type {
			return cs[i].Type < cs[j].Type
		}
		return cs[i].Description < cs[j].Description
	})
}
