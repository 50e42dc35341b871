package tools

import (
	"testing"
	"time"
)

func TestSpokenTime(t *testing.T) {
	cases := map[string]string{
		"2026-08-22T15:45:00Z": "It's 3 45 PM.",
		"2026-08-22T15:05:00Z": "It's 3 oh 5 PM.",
		"2026-08-22T09:00:00Z": "It's 9 AM exactly.",
	}

	for stamp, want := range cases {
		now, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			t.Fatal(err)
		}
		s := &SystemInfo{now: func() time.Time { return now }}
		got, _ := s.Execute("time", nil)
		if got != want {
			t.Errorf("time at %s: got %q, expected %q", stamp, got, want)
		}
	}
}

func TestSpokenDate(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2026-08-22T15:45:00Z")
	s := &SystemInfo{now: func() time.Time { return now }}

	got, _ := s.Execute("date", nil)
	if got != "Today is Saturday, August 22nd." {
		t.Errorf("unexpected date phrasing: %q", got)
	}
}

func TestBatteryUnavailable(t *testing.T) {
	s := &SystemInfo{now: time.Now, batteryPath: "/nonexistent/battery"}
	got, _ := s.Execute("battery", nil)
	if got != "I couldn't read the battery level on this machine." {
		t.Errorf("unexpected battery fallback: %q", got)
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd"}
	for day, want := range cases {
		if got := ordinal(day); got != want {
			t.Errorf("ordinal(%d) = %q, expected %q", day, got, want)
		}
	}
}
