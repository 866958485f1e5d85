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
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo", wantErr: false},
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

func TestDayKeySameCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	early := time.Date(2025, 3, 14, 0, 1, 0, 0, loc)
	late := time.Date(2025, 3, 14, 23, 59, 0, 0, loc)
	if DayKey(early, loc) != DayKey(late, loc) {
		t.Errorf("expected same day key, got %s and %s", DayKey(early, loc), DayKey(late, loc))
	}

	// 23:59 in New York is already the next day in UTC
	if got := DayKey(late, time.UTC); got != "2025-03-15" {
		t.Errorf("DayKey(late, UTC) = %s, want 2025-03-15", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		day  string
		n    int
		want string
	}{
		{"2025-01-01", -1, "2024-12-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2025-03-08", 1, "2025-03-09"},
		{"2025-11-02", 7, "2025-11-09"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.day, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) error: %v", tt.day, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.day, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("not-a-day", 1); err == nil {
		t.Error("expected error for invalid day")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-01-01", "2025-01-02", 1},
		{"2025-01-02", "2025-01-01", -1},
		{"2024-12-31", "2025-01-01", 1},
		{"2025-03-01", "2025-03-01", 0},
		{"2025-01-01", "2025-03-01", 59},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.a, tt.b)
		if err != nil {
			t.Fatalf("DaysBetween(%s, %s) error: %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-10-15 is a Wednesday
	got, err := StartOfWeek("2025-10-15")
	if err != nil {
		t.Fatalf("StartOfWeek error: %v", err)
	}
	if got != "2025-10-12" {
		t.Errorf("StartOfWeek = %s, want 2025-10-12", got)
	}

	got, _ = StartOfWeek("2025-10-12")
	if got != "2025-10-12" {
		t.Errorf("StartOfWeek on a Sunday = %s, want same day", got)
	}
}
