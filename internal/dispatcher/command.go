package dispatcher

import (
	"context"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
)

// CommandKind tags the fixed set of commands the dispatcher runs.
type CommandKind int

const (
	KindAutoSave CommandKind = iota
	KindMorningReminder
	KindEveningReminder
)

func (k CommandKind) String() string {
	switch k {
	case KindAutoSave:
		return "auto_save"
	case KindMorningReminder:
		return "morning_reminder"
	case KindEveningReminder:
		return "evening_reminder"
	default:
		return "unknown"
	}
}

// IsReminder reports whether the command runs on every tick rather than only at rollover.
func (k CommandKind) IsReminder() bool {
	return k == KindMorningReminder || k == KindEveningReminder
}

// Command is one unit of tick work. Process must not retain known.
type Command interface {
	Name() string
	Kind() CommandKind
	Process(ctx context.Context, oldDate, newDate string, known *models.MoodRecord) CommandResult
}

// Payload is the optional data attached to a successful result.
type Payload interface {
	isPayload()
}

// SavedRecordPayload carries the record persisted by auto-save.
type SavedRecordPayload struct {
	Record models.MoodRecord
}

type MorningReminderPayload struct {
	ScheduledTime time.Time
	Elapsed       time.Duration
	CallCount     int
}

type EveningReminderPayload struct {
	ScheduledTime time.Time
	Elapsed       time.Duration
	CallCount     int
	Type          EveningReminderType
	MorningMissed bool
	EveningNeeded bool
}

func (SavedRecordPayload) isPayload()     {}
func (MorningReminderPayload) isPayload() {}
func (EveningReminderPayload) isPayload() {}

// Outcome labels used in logs and metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeNoAction  = "no_action"
	OutcomeFailed    = "failed"
)

// CommandResult is what a command returns for one invocation. Command and
// Kind are filled in by the dispatcher.
type CommandResult struct {
	Command string
	Kind    CommandKind
	Success bool
	Message string
	Payload Payload
}

func Succeeded(message string, payload Payload) CommandResult {
	return CommandResult{Success: true, Message: message, Payload: payload}
}

// NoAction is a successful result with nothing to report.
func NoAction(message string) CommandResult {
	return CommandResult{Success: true, Message: message}
}

func Failed(message string) CommandResult {
	return CommandResult{Success: false, Message: message}
}

func (r CommandResult) Outcome() string {
	switch {
	case !r.Success:
		return OutcomeFailed
	case r.Payload == nil:
		return OutcomeNoAction
	default:
		return OutcomeSucceeded
	}
}
