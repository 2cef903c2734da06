package dispatcher

import (
	"context"
	"fmt"

	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/records"
)

// AutoSaveCommand completes the previous day's record at rollover. It keeps no state.
type AutoSaveCommand struct {
	clock   Clock
	records RecordProvider
}

func NewAutoSaveCommand(clock Clock, records RecordProvider) *AutoSaveCommand {
	return &AutoSaveCommand{clock: clock, records: records}
}

func (c *AutoSaveCommand) Name() string      { return "AutoSaveCommand" }
func (c *AutoSaveCommand) Kind() CommandKind { return KindAutoSave }

// Process decides on the record for oldDate. A record with only an evening
// mood counts as having no valid mood data.
func (c *AutoSaveCommand) Process(ctx context.Context, oldDate, _ string, known *models.MoodRecord) CommandResult {
	rec, err := recordFor(ctx, c.records, oldDate, known)
	if err != nil {
		return Failed(fmt.Sprintf("Auto-save failed to load record for %s: %v", oldDate, err))
	}

	switch {
	case rec == nil:
		return NoAction("No record found for the previous date")
	case rec.IsComplete():
		return NoAction(fmt.Sprintf("Record for %s is already complete", oldDate))
	case !rec.IsMinimallyValid():
		return NoAction(fmt.Sprintf("Record for %s has no valid mood data", oldDate))
	}

	saved := *rec.Clone()
	records.ApplyAutoSaveDefaults(&saved, c.clock.Now())
	if err := c.records.SaveRecord(ctx, saved, true); err != nil {
		return Failed(fmt.Sprintf("Auto-save failed for %s: %v", oldDate, err))
	}
	return Succeeded(fmt.Sprintf("Auto-saved record for %s", oldDate), SavedRecordPayload{Record: saved})
}
