package attendance

import "testing"

func mustTime(t *testing.T, value string) *TimeOfDay {
	t.Helper()
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return &parsed
}

func TestComputeHours(t *testing.T) {
	cases := []struct {
		in, out string
		want    float64
	}{
		{"09:00", "17:30", 8.5},
		{"9:15", "10:00", 0.75},
		{"08:00", "08:00", 0},
		{"18:00", "09:00", 0},
	}
	for _, tc := range cases {
		got := ComputeHours(mustTime(t, tc.in), mustTime(t, tc.out))
		if got != tc.want {
			t.Fatalf("ComputeHours(%s, %s) = %v, want %v", tc.in, tc.out, got, tc.want)
		}
	}
}

func TestComputeHoursMissingTime(t *testing.T) {
	if got := ComputeHours(mustTime(t, "09:00"), nil); got != 0 {
		t.Fatalf("expected 0 without check-out, got %v", got)
	}
	if got := ComputeHours(nil, mustTime(t, "17:00")); got != 0 {
		t.Fatalf("expected 0 without check-in, got %v", got)
	}
}

func TestParseTimeOfDayRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "25:00", "09:5", "noon", "09:00:00"} {
		if _, err := ParseTimeOfDay(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
	if got := mustTime(t, "7:05").String(); got != "07:05" {
		t.Fatalf("unexpected normalized time %q", got)
	}
}
