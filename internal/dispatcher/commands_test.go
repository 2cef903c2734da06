package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moodlog/internal/models"
)

func TestAutoSaveDecisionCoverage(t *testing.T) {
	const day = "2026-01-15"

	tests := []struct {
		name     string
		record   *models.MoodRecord
		decision Decision
		saved    bool
	}{
		{name: "none", record: nil, decision: DecisionNoAction},
		{name: "morning only", record: &models.MoodRecord{Date: day, MorningMood: models.IntPtr(7)}, decision: DecisionSaveRecord, saved: true},
		{name: "evening only", record: &models.MoodRecord{Date: day, EveningMood: models.IntPtr(4)}, decision: DecisionInvalidState},
		{name: "both", record: &models.MoodRecord{Date: day, MorningMood: models.IntPtr(3), EveningMood: models.IntPtr(8)}, decision: DecisionAlreadySaved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := newFakeRecords()
			if tt.record != nil {
				records = newFakeRecords(*tt.record)
			}
			cmd := NewAutoSaveCommand(newFakeClock(at("2026-01-16", "00:00:10")), records)

			res := cmd.Process(context.Background(), day, "2026-01-16", nil)

			assert.True(t, res.Success)
			assert.Equal(t, tt.decision, DecideRollover([]CommandResult{res}))
			assert.Len(t, records.Saves(), map[bool]int{true: 1, false: 0}[tt.saved])
		})
	}
}

func TestAutoSaveFillsEveningFromMorning(t *testing.T) {
	records := newFakeRecords()
	cmd := NewAutoSaveCommand(newFakeClock(at("2026-01-16", "00:00:10")), records)
	known := &models.MoodRecord{Date: "2026-01-15", MorningMood: models.IntPtr(7)}

	res := cmd.Process(context.Background(), "2026-01-15", "2026-01-16", known)

	require.True(t, res.Success)
	payload, ok := res.Payload.(SavedRecordPayload)
	require.True(t, ok, "expected a saved record payload, got %T", res.Payload)
	assert.Equal(t, "2026-01-15", payload.Record.Date)
	assert.Equal(t, 7, *payload.Record.MorningMood)
	assert.Equal(t, 7, *payload.Record.EveningMood)
	assert.True(t, payload.Record.AutoSaved)

	saves := records.Saves()
	require.Len(t, saves, 1)
	assert.True(t, saves[0].useAutoSaveDefaults)
	assert.Equal(t, 7, *saves[0].record.EveningMood)
	assert.Nil(t, known.EveningMood, "known record must not be mutated")
}

func TestAutoSaveIgnoresKnownRecordForOtherDate(t *testing.T) {
	records := newFakeRecords(models.MoodRecord{Date: "2026-01-15", MorningMood: models.IntPtr(2), EveningMood: models.IntPtr(5)})
	cmd := NewAutoSaveCommand(newFakeClock(at("2026-01-16", "00:00:10")), records)
	known := &models.MoodRecord{Date: "2026-01-16", MorningMood: models.IntPtr(9)}

	res := cmd.Process(context.Background(), "2026-01-15", "2026-01-16", known)

	assert.Equal(t, DecisionAlreadySaved, DecideRollover([]CommandResult{res}))
	assert.Empty(t, records.Saves())
}

func TestAutoSaveFailures(t *testing.T) {
	clock := newFakeClock(at("2026-01-16", "00:00:10"))

	getFails := newFakeRecords()
	getFails.getErr = errors.New("db down")
	res := NewAutoSaveCommand(clock, getFails).Process(context.Background(), "2026-01-15", "2026-01-16", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "db down")

	saveFails := newFakeRecords(models.MoodRecord{Date: "2026-01-15", MorningMood: models.IntPtr(6)})
	saveFails.saveErr = errors.New("disk full")
	res = NewAutoSaveCommand(clock, saveFails).Process(context.Background(), "2026-01-15", "2026-01-16", nil)
	assert.False(t, res.Success)
	assert.Nil(t, res.Payload)
	assert.Contains(t, res.Message, "disk full")
}

func TestReminderWindowBoundary(t *testing.T) {
	const day = "2026-01-15"
	clock := newFakeClock(at(day, "09:00:00"))
	cmd := NewMorningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), newFakeRecords(), 10*time.Minute)
	ctx := context.Background()

	res := cmd.Process(ctx, day, day, nil)
	assert.Equal(t, "before reminder time", res.Message)
	assert.Equal(t, 0, cmd.State().CallCount)

	clock.Set(at(day, "09:00:01"))
	res = cmd.Process(ctx, day, day, nil)
	assert.True(t, res.Success)
	assert.Equal(t, 1, cmd.State().CallCount, "tick inside the window should count")

	clock.Set(at(day, "09:10:00"))
	res = cmd.Process(ctx, day, day, nil)
	require.IsType(t, MorningReminderPayload{}, res.Payload)
	assert.Equal(t, 10*time.Minute, res.Payload.(MorningReminderPayload).Elapsed)

	clock.Set(at(day, "09:10:01"))
	res = cmd.Process(ctx, day, day, nil)
	assert.Equal(t, "too late for this window", res.Message)
	assert.Equal(t, 2, cmd.State().CallCount)
}

func TestReminderDebounce(t *testing.T) {
	const day = "2026-01-15"

	for n := 1; n <= 9; n++ {
		clock := newFakeClock(at(day, "17:30:01"))
		cmd := NewEveningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), newFakeRecords(), 10*time.Minute)

		fired := 0
		for i := 0; i < n; i++ {
			res := cmd.Process(context.Background(), day, day, nil)
			require.True(t, res.Success)
			if res.Payload != nil {
				fired++
				assert.Equal(t, 0, res.Payload.(EveningReminderPayload).CallCount%2)
			}
			clock.Advance(30 * time.Second)
		}
		assert.Equal(t, n/2, fired, "n=%d", n)
	}
}

func TestReminderStateResetsOnDateChange(t *testing.T) {
	clock := newFakeClock(at("2026-01-15", "09:01:00"))
	cmd := NewMorningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), newFakeRecords(), 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cmd.Process(ctx, "2026-01-15", "2026-01-15", nil)
	}
	assert.Equal(t, ReminderState{LastResetDate: "2026-01-15", CallCount: 3}, cmd.State())

	clock.Set(at("2026-01-16", "09:01:00"))
	res := cmd.Process(ctx, "2026-01-16", "2026-01-16", nil)
	assert.Nil(t, res.Payload)
	assert.Equal(t, ReminderState{LastResetDate: "2026-01-16", CallCount: 1}, cmd.State())
}

func TestReminderNotNeeded(t *testing.T) {
	const day = "2026-01-15"
	clock := newFakeClock(at(day, "09:02:00"))
	records := newFakeRecords(models.MoodRecord{Date: day, MorningMood: models.IntPtr(5)})

	morning := NewMorningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), records, 10*time.Minute)
	for i := 0; i < 4; i++ {
		res := morning.Process(context.Background(), day, day, nil)
		assert.True(t, res.Success)
		assert.Nil(t, res.Payload)
	}
	assert.Equal(t, 0, morning.State().CallCount)

	clock.Set(at(day, "17:32:00"))
	evening := NewEveningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), records, 10*time.Minute)
	known := &models.MoodRecord{Date: day, MorningMood: models.IntPtr(5), EveningMood: models.IntPtr(6)}
	res := evening.Process(context.Background(), day, day, known)
	assert.Equal(t, "Both moods already recorded", res.Message)
	assert.Equal(t, 0, evening.State().CallCount)
}

func TestEveningReminderOnlyMissedMorning(t *testing.T) {
	const day = "2026-01-15"
	clock := newFakeClock(at(day, "17:31:00"))
	records := newFakeRecords(models.MoodRecord{Date: day, EveningMood: models.IntPtr(6)})
	cmd := NewEveningReminderCommand(clock, newFakeSchedule("09:00", "17:30"), records, 10*time.Minute)

	first := cmd.Process(context.Background(), day, day, nil)
	assert.Nil(t, first.Payload)

	clock.Advance(30 * time.Second)
	res := cmd.Process(context.Background(), day, day, nil)
	require.True(t, res.Success)
	payload, ok := res.Payload.(EveningReminderPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.CallCount)
	assert.Equal(t, OnlyMissedMorning, payload.Type)
	assert.True(t, payload.MorningMissed)
	assert.False(t, payload.EveningNeeded)
	assert.Equal(t, at(day, "17:30:00"), payload.ScheduledTime)
	assert.Equal(t, 90*time.Second, payload.Elapsed)
}

func TestClassifyEvening(t *testing.T) {
	tests := []struct {
		name string
		rec  *models.MoodRecord
		want EveningReminderType
	}{
		{"nil record", nil, EveningAndMissedMorning},
		{"empty", &models.MoodRecord{}, EveningAndMissedMorning},
		{"morning only", &models.MoodRecord{MorningMood: models.IntPtr(4)}, EveningOnly},
		{"evening only", &models.MoodRecord{EveningMood: models.IntPtr(4)}, OnlyMissedMorning},
		{"both", &models.MoodRecord{MorningMood: models.IntPtr(4), EveningMood: models.IntPtr(4)}, NoReminder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEvening(tt.rec))
		})
	}
}

func TestReminderFailureLeavesStateUntouched(t *testing.T) {
	const day = "2026-01-15"
	clock := newFakeClock(at(day, "09:01:00"))
	schedule := newFakeSchedule("09:00", "17:30")
	records := newFakeRecords()
	cmd := NewMorningReminderCommand(clock, schedule, records, 10*time.Minute)
	ctx := context.Background()

	cmd.Process(ctx, day, day, nil)
	require.Equal(t, 1, cmd.State().CallCount)

	schedule.loadErr = errors.New("schedule unavailable")
	res := cmd.Process(ctx, day, day, nil)
	assert.False(t, res.Success)
	assert.Equal(t, 1, cmd.State().CallCount)

	schedule.loadErr = nil
	records.getErr = errors.New("records unavailable")
	res = cmd.Process(ctx, day, day, nil)
	assert.False(t, res.Success)
	assert.Equal(t, 1, cmd.State().CallCount)

	records.getErr = nil
	res = cmd.Process(ctx, day, day, nil)
	assert.IsType(t, MorningReminderPayload{}, res.Payload, "retry after a failure should pick up the even call")
}

func TestDecideRollover(t *testing.T) {
	assert.Equal(t, DecisionNoAction, DecideRollover(nil))
	assert.Equal(t, DecisionSaveRecord, DecideRollover([]CommandResult{
		NoAction("Record for 2026-01-15 is already complete"),
		Succeeded("saved", SavedRecordPayload{}),
	}))
	assert.Equal(t, DecisionInvalidState, DecideRollover([]CommandResult{
		NoAction("before reminder time"),
		NoAction("Record for 2026-01-15 has no valid mood data"),
	}))
	assert.Equal(t, DecisionNoAction, DecideRollover([]CommandResult{Failed("boom")}))
}
