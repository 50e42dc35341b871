package tools

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultBatteryPath = "/sys/class/power_supply/BAT0/capacity"

// SystemInfo answers time, date and battery queries. Responses are phrased
// for speech output, not display.
type SystemInfo struct {
	now         func() time.Time
	batteryPath string
}

// NewSystemInfo returns the built-in system_info handler.
func NewSystemInfo() *SystemInfo {
	return &SystemInfo{now: time.Now, batteryPath: defaultBatteryPath}
}

// Execute implements Handler.
func (s *SystemInfo) Execute(action string, params map[string]any) (string, error) {
	switch action {
	case "time":
		return s.spokenTime(), nil
	case "date", "day":
		return s.spokenDate(), nil
	case "battery":
		return s.battery(), nil
	}
	return "I can tell you the time, the date, or the battery level.", nil
}

func (s *SystemInfo) spokenTime() string {
	now := s.now()
	hour := now.Format("3")
	minute := now.Format("04")
	period := now.Format("PM")

	// "3:05" reads badly as "three five"; say "three oh five" instead.
	switch {
	case minute == "00":
		return fmt.Sprintf("It's %s %s exactly.", hour, period)
	case minute[0] == '0':
		return fmt.Sprintf("It's %s oh %c %s.", hour, minute[1], period)
	default:
		return fmt.Sprintf("It's %s %s %s.", hour, minute, period)
	}
}

func (s *SystemInfo) spokenDate() string {
	now := s.now()
	return fmt.Sprintf("Today is %s, %s %s.",
		now.Format("Monday"), now.Format("January"), ordinal(now.Day()))
}

func (s *SystemInfo) battery() string {
	raw, err := os.ReadFile(s.batteryPath)
	if err != nil {
		return "I couldn't read the battery level on this machine."
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return "I couldn't read the battery level on this machine."
	}
	return fmt.Sprintf("The battery is at %d percent.", pct)
}

func ordinal(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}
