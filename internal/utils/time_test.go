package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Europe/Berlin", timezone: "Europe/Berlin", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestCombineDateAndTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	got, err := CombineDateAndTime("2026-03-08", "09:30", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 8, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime("2026-03-08", "9h30", loc); err == nil {
		t.Error("expected error for bad time")
	}
	if _, err := CombineDateAndTime("03/08/2026", "09:30", loc); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2028-02-28", 1, "2028-02-29"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.date, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) error: %v", tt.date, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestDateOf(t *testing.T) {
	utc := time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC)
	if got := DateOf(utc); got != "2026-01-15" {
		t.Errorf("DateOf() = %s", got)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	if got := DateOf(utc.In(tokyo)); got != "2026-01-16" {
		t.Errorf("DateOf() in JST = %s, want next day", got)
	}
}

func TestValidateFormats(t *testing.T) {
	if !ValidateTimeFormat("07:05") || ValidateTimeFormat("7pm") {
		t.Error("ValidateTimeFormat mismatch")
	}
	if !ValidateDateFormat("2026-01-15") || ValidateDateFormat("2026-1-5x") {
		t.Error("ValidateDateFormat mismatch")
	}
	if !ValidateTimezone("Local") || ValidateTimezone("Nowhere/Special") {
		t.Error("ValidateTimezone mismatch")
	}
}
