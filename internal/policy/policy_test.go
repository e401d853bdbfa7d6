package policy

import (
	"testing"
	"time"

	"DakaHR/internal/model"
)

func TestIsLateBoundary(t *testing.T) {
	th := Default()

	cases := []struct {
		clock string
		want  bool
	}{
		{"08:14", false},
		{"08:15", false}, // 边界本身不算迟到
		{"08:16", true},
		{"09:00", true},
		{"00:00", false},
		{"", false},
		{"not-a-time", false},
		{"25:00", false},
	}

	for _, c := range cases {
		if got := th.IsLate(c.clock); got != c.want {
			t.Fatalf("IsLate(%q) = %v, want %v", c.clock, got, c.want)
		}
	}
}

func TestIsUndertimeBoundary(t *testing.T) {
	th := Default()

	cases := []struct {
		clock string
		want  bool
	}{
		{"17:00", false}, // 边界本身不算早退
		{"16:59", true},
		{"17:01", false},
		{"09:00", true},
		{"", false},
		{"bad", false},
	}

	for _, c := range cases {
		if got := th.IsUndertime(c.clock); got != c.want {
			t.Fatalf("IsUndertime(%q) = %v, want %v", c.clock, got, c.want)
		}
	}
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{LateCutoffMinutes: 540, UndertimeCutoffMinutes: 1080} // 09:00 / 18:00

	if th.IsLate("08:30") {
		t.Fatalf("08:30 should not be late with 09:00 cutoff")
	}
	if !th.IsLate("09:01") {
		t.Fatalf("09:01 should be late with 09:00 cutoff")
	}
	if !th.IsUndertime("17:59") {
		t.Fatalf("17:59 should be undertime with 18:00 cutoff")
	}
}

func at(hour, minute int) *time.Time {
	ts := time.Date(2026, 8, 28, hour, minute, 0, 0, time.Local)
	return &ts
}

func TestDeriveStatus(t *testing.T) {
	th := Default()

	cases := []struct {
		name    string
		timeIn  *time.Time
		timeOut *time.Time
		want    model.AttendanceStatus
	}{
		{"no legs", nil, nil, model.AttendanceAbsent},
		{"on time, open day", at(8, 0), nil, model.AttendancePresent},
		{"late, open day", at(8, 30), nil, model.AttendanceLate},
		{"full day on time", at(8, 0), at(17, 30), model.AttendancePresent},
		{"late only", at(8, 30), at(17, 30), model.AttendanceLate},
		{"undertime only", at(8, 0), at(16, 0), model.AttendanceUndertime},
		{"late and undertime", at(8, 30), at(16, 0), model.AttendanceHalfDay},
		{"exact boundaries", at(8, 15), at(17, 0), model.AttendancePresent},
	}

	for _, c := range cases {
		if got := th.DeriveStatus(c.timeIn, c.timeOut); got != c.want {
			t.Fatalf("%s: DeriveStatus = %v, want %v", c.name, got, c.want)
		}
	}
}
