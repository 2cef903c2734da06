package models

import "testing"

func TestScheduleConfig_Resolve(t *testing.T) {
	cfg := ScheduleConfig{
		MorningTime: "09:00",
		EveningTime: "17:30",
		Overrides: []ScheduleOverride{
			{Date: "2026-01-15", MorningTime: "10:15"},
			{Date: "2026-01-16", EveningTime: "19:00"},
		},
	}

	tests := []struct {
		date        string
		wantMorning string
		wantEvening string
	}{
		{"2026-01-14", "09:00", "17:30"},
		{"2026-01-15", "10:15", "17:30"},
		{"2026-01-16", "09:00", "19:00"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			c := cfg
			c.Resolve(tt.date)
			if c.EffectiveMorningTime != tt.wantMorning {
				t.Errorf("morning = %s, want %s", c.EffectiveMorningTime, tt.wantMorning)
			}
			if c.EffectiveEveningTime != tt.wantEvening {
				t.Errorf("evening = %s, want %s", c.EffectiveEveningTime, tt.wantEvening)
			}
		})
	}
}

func TestScheduleOverride_Validate(t *testing.T) {
	tests := []struct {
		name    string
		o       ScheduleOverride
		wantErr bool
	}{
		{"morning only", ScheduleOverride{Date: "2026-01-15", MorningTime: "08:00"}, false},
		{"both", ScheduleOverride{Date: "2026-01-15", MorningTime: "08:00", EveningTime: "18:00"}, false},
		{"neither", ScheduleOverride{Date: "2026-01-15"}, true},
		{"bad date", ScheduleOverride{Date: "tomorrow", MorningTime: "08:00"}, true},
		{"bad time", ScheduleOverride{Date: "2026-01-15", EveningTime: "25:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
