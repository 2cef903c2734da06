package dispatcher

import (
	"strings"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
)

type EventType string

const (
	EventDateChanged     EventType = "date_changed"
	EventAutoSave        EventType = "auto_save"
	EventMorningReminder EventType = "morning_reminder"
	EventEveningReminder EventType = "evening_reminder"
)

// Event is one of DateChanged, AutoSaveOccurred, MorningReminderOccurred or
// EveningReminderOccurred.
type Event interface {
	Type() EventType
}

// Decision summarizes what rollover did with the previous day's record.
type Decision int

const (
	DecisionNoAction Decision = iota
	DecisionAlreadySaved
	DecisionSaveRecord
	DecisionInvalidState
)

func (d Decision) String() string {
	switch d {
	case DecisionAlreadySaved:
		return "AlreadySaved"
	case DecisionSaveRecord:
		return "SaveRecord"
	case DecisionInvalidState:
		return "InvalidState"
	default:
		return "NoAction"
	}
}

type DateChanged struct {
	OldDate  string
	NewDate  string
	Decision Decision
}

type AutoSaveOccurred struct {
	Record models.MoodRecord
	Date   string
}

type MorningReminderOccurred struct {
	ScheduledTime time.Time
	Elapsed       time.Duration
	CallCount     int
	Message       string
}

type EveningReminderOccurred struct {
	ScheduledTime time.Time
	Elapsed       time.Duration
	CallCount     int
	ReminderType  EveningReminderType
	MorningMissed bool
	EveningNeeded bool
	Message       string
}

func (DateChanged) Type() EventType             { return EventDateChanged }
func (AutoSaveOccurred) Type() EventType        { return EventAutoSave }
func (MorningReminderOccurred) Type() EventType { return EventMorningReminder }
func (EveningReminderOccurred) Type() EventType { return EventEveningReminder }

const (
	defaultMorningMessage = "Time to record your morning mood"
	defaultEveningMessage = "Time to record your evening mood"
)

// DecideRollover picks the decision from the first saved-record result, or
// failing that from the first result whose message names a known state.
func DecideRollover(results []CommandResult) Decision {
	for _, r := range results {
		if _, ok := r.Payload.(SavedRecordPayload); ok {
			return DecisionSaveRecord
		}
	}
	for _, r := range results {
		msg := strings.ToLower(r.Message)
		switch {
		case strings.Contains(msg, "already complete"):
			return DecisionAlreadySaved
		case strings.Contains(msg, "no valid mood data"):
			return DecisionInvalidState
		}
	}
	return DecisionNoAction
}

// reminderEvent converts a successful reminder result into its event.
func reminderEvent(r CommandResult) (Event, bool) {
	if !r.Success {
		return nil, false
	}
	switch p := r.Payload.(type) {
	case MorningReminderPayload:
		msg := r.Message
		if msg == "" {
			msg = defaultMorningMessage
		}
		return MorningReminderOccurred{
			ScheduledTime: p.ScheduledTime,
			Elapsed:       p.Elapsed,
			CallCount:     p.CallCount,
			Message:       msg,
		}, true
	case EveningReminderPayload:
		msg := r.Message
		if msg == "" {
			msg = defaultEveningMessage
		}
		return EveningReminderOccurred{
			ScheduledTime: p.ScheduledTime,
			Elapsed:       p.Elapsed,
			CallCount:     p.CallCount,
			ReminderType:  p.Type,
			MorningMissed: p.MorningMissed,
			EveningNeeded: p.EveningNeeded,
			Message:       msg,
		}, true
	}
	return nil, false
}
