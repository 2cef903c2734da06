package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/utils"
)

// ReminderState throttles one reminder command. It resets whenever the
// observed date changes and counts every tick that needed a reminder.
type ReminderState struct {
	LastResetDate string
	CallCount     int
}

func (s *ReminderState) advance(date string) int {
	if date != s.LastResetDate {
		s.LastResetDate = date
		s.CallCount = 0
	}
	s.CallCount++
	return s.CallCount
}

// suppressed is true on odd calls, so a reminder goes out every other eligible tick.
func suppressed(callCount int) bool {
	return callCount%2 == 1
}

type EveningReminderType int

const (
	NoReminder EveningReminderType = iota
	EveningOnly
	OnlyMissedMorning
	EveningAndMissedMorning
)

func (t EveningReminderType) String() string {
	switch t {
	case EveningOnly:
		return "EveningOnly"
	case OnlyMissedMorning:
		return "OnlyMissedMorning"
	case EveningAndMissedMorning:
		return "EveningAndMissedMorning"
	default:
		return "NoReminder"
	}
}

// ClassifyEvening works out what the evening reminder should ask for. A nil
// record has neither mood.
func ClassifyEvening(rec *models.MoodRecord) EveningReminderType {
	switch {
	case rec.HasMorning() && rec.HasEvening():
		return NoReminder
	case rec.HasMorning():
		return EveningOnly
	case rec.HasEvening():
		return OnlyMissedMorning
	default:
		return EveningAndMissedMorning
	}
}

// reminderWindow resolves a scheduled time for today and checks whether now
// falls inside (instant, instant+length].
type reminderWindow struct {
	clock    Clock
	schedule ScheduleProvider
	length   time.Duration
}

func (w reminderWindow) open(ctx context.Context, date, label string, timeOf func(models.ScheduleConfig) string) (time.Time, time.Duration, CommandResult, bool) {
	cfg, err := w.schedule.LoadConfig(ctx)
	if err != nil {
		return time.Time{}, 0, Failed(fmt.Sprintf("%s reminder failed to load schedule: %v", label, err)), false
	}

	now := w.clock.Now()
	scheduled, err := utils.CombineDateAndTime(date, timeOf(cfg), now.Location())
	if err != nil {
		return time.Time{}, 0, Failed(fmt.Sprintf("%s reminder has an invalid schedule: %v", label, err)), false
	}

	if !now.After(scheduled) {
		return scheduled, 0, NoAction("before reminder time"), false
	}
	elapsed := now.Sub(scheduled)
	if elapsed > w.length {
		return scheduled, elapsed, NoAction("too late for this window"), false
	}
	return scheduled, elapsed, CommandResult{}, true
}

type MorningReminderCommand struct {
	window  reminderWindow
	records RecordProvider
	state   ReminderState
}

func NewMorningReminderCommand(clock Clock, schedule ScheduleProvider, records RecordProvider, window time.Duration) *MorningReminderCommand {
	if window <= 0 {
		window = constants.DefaultReminderWindow
	}
	return &MorningReminderCommand{
		window:  reminderWindow{clock: clock, schedule: schedule, length: window},
		records: records,
	}
}

func (c *MorningReminderCommand) Name() string      { return "MorningReminderCommand" }
func (c *MorningReminderCommand) Kind() CommandKind { return KindMorningReminder }

// State returns a copy of the throttling state.
func (c *MorningReminderCommand) State() ReminderState { return c.state }

func (c *MorningReminderCommand) Process(ctx context.Context, _, date string, known *models.MoodRecord) CommandResult {
	scheduled, elapsed, res, ok := c.window.open(ctx, date, "Morning", func(cfg models.ScheduleConfig) string {
		return cfg.EffectiveMorningTime
	})
	if !ok {
		return res
	}

	rec, err := recordFor(ctx, c.records, date, known)
	if err != nil {
		return Failed(fmt.Sprintf("Morning reminder failed to load record for %s: %v", date, err))
	}
	if rec.HasMorning() {
		return NoAction("Morning mood already recorded")
	}

	count := c.state.advance(date)
	if suppressed(count) {
		return NoAction(fmt.Sprintf("Morning reminder suppressed (call %d)", count))
	}

	return Succeeded(defaultMorningMessage, MorningReminderPayload{
		ScheduledTime: scheduled,
		Elapsed:       elapsed,
		CallCount:     count,
	})
}

type EveningReminderCommand struct {
	window  reminderWindow
	records RecordProvider
	state   ReminderState
}

func NewEveningReminderCommand(clock Clock, schedule ScheduleProvider, records RecordProvider, window time.Duration) *EveningReminderCommand {
	if window <= 0 {
		window = constants.DefaultReminderWindow
	}
	return &EveningReminderCommand{
		window:  reminderWindow{clock: clock, schedule: schedule, length: window},
		records: records,
	}
}

func (c *EveningReminderCommand) Name() string      { return "EveningReminderCommand" }
func (c *EveningReminderCommand) Kind() CommandKind { return KindEveningReminder }

// State returns a copy of the throttling state.
func (c *EveningReminderCommand) State() ReminderState { return c.state }

func (c *EveningReminderCommand) Process(ctx context.Context, _, date string, known *models.MoodRecord) CommandResult {
	scheduled, elapsed, res, ok := c.window.open(ctx, date, "Evening", func(cfg models.ScheduleConfig) string {
		return cfg.EffectiveEveningTime
	})
	if !ok {
		return res
	}

	rec, err := recordFor(ctx, c.records, date, known)
	if err != nil {
		return Failed(fmt.Sprintf("Evening reminder failed to load record for %s: %v", date, err))
	}
	kind := ClassifyEvening(rec)
	if kind == NoReminder {
		return NoAction("Both moods already recorded")
	}

	count := c.state.advance(date)
	if suppressed(count) {
		return NoAction(fmt.Sprintf("Evening reminder suppressed (call %d)", count))
	}

	return Succeeded(eveningMessage(kind), EveningReminderPayload{
		ScheduledTime: scheduled,
		Elapsed:       elapsed,
		CallCount:     count,
		Type:          kind,
		MorningMissed: kind == OnlyMissedMorning || kind == EveningAndMissedMorning,
		EveningNeeded: kind == EveningOnly || kind == EveningAndMissedMorning,
	})
}

func eveningMessage(kind EveningReminderType) string {
	switch kind {
	case OnlyMissedMorning:
		return "You didn't record a morning mood today"
	case EveningAndMissedMorning:
		return "Time to record your evening mood. Today's morning mood is missing too"
	default:
		return defaultEveningMessage
	}
}
