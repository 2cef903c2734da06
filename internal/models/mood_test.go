package models

import (
	"testing"
)

func TestMoodRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  MoodRecord
		wantErr bool
	}{
		{
			name:    "morning only",
			record:  MoodRecord{Date: "2026-01-15", MorningMood: IntPtr(7)},
			wantErr: false,
		},
		{
			name:    "complete",
			record:  MoodRecord{Date: "2026-01-15", MorningMood: IntPtr(1), EveningMood: IntPtr(10)},
			wantErr: false,
		},
		{
			name:    "empty record is valid",
			record:  MoodRecord{Date: "2026-01-15"},
			wantErr: false,
		},
		{
			name:    "bad date",
			record:  MoodRecord{Date: "15/01/2026", MorningMood: IntPtr(5)},
			wantErr: true,
		},
		{
			name:    "morning out of range",
			record:  MoodRecord{Date: "2026-01-15", MorningMood: IntPtr(0)},
			wantErr: true,
		},
		{
			name:    "evening out of range",
			record:  MoodRecord{Date: "2026-01-15", EveningMood: IntPtr(11)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMoodRecord_Completeness(t *testing.T) {
	var nilRecord *MoodRecord
	if nilRecord.HasMorning() || nilRecord.IsComplete() {
		t.Error("nil record should have no moods")
	}

	r := &MoodRecord{Date: "2026-01-15", EveningMood: IntPtr(6)}
	if r.IsMinimallyValid() {
		t.Error("evening-only record should not be minimally valid")
	}

	r.MorningMood = IntPtr(4)
	if !r.IsMinimallyValid() || !r.IsComplete() {
		t.Error("record with both moods should be complete")
	}
}

func TestMoodRecord_Clone(t *testing.T) {
	orig := &MoodRecord{Date: "2026-01-15", MorningMood: IntPtr(3)}
	c := orig.Clone()
	*c.MorningMood = 9

	if *orig.MorningMood != 3 {
		t.Errorf("clone shares morning mood pointer: got %d", *orig.MorningMood)
	}
}
