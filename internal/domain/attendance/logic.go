package attendance

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	minutes int
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM" on a 24 hour clock.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", value)
	}
	return TimeOfDay{minutes: parsed.Hour()*60 + parsed.Minute()}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// ComputeHours returns the worked hours between check-in and check-out on
// the same day. Missing times and check-outs before check-in yield 0.
func ComputeHours(checkIn, checkOut *TimeOfDay) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	diff := checkOut.minutes - checkIn.minutes
	if diff <= 0 {
		return 0
	}
	return float64(diff) / 60
}
