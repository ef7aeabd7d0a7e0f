package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Period names a relative date window used to filter task lists.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodToday:
		return PeriodToday, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodCustom:
		return PeriodCustom, nil
	default:
		return "", fmt.Errorf("unknown period: %q", s)
	}
}

// Range is an inclusive date window. Empty endpoints mean unbounded.
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func (r Range) Active() bool {
	return r.Start != "" && r.End != ""
}

// Contains reports whether the date falls inside the window. Inactive
// ranges (a missing endpoint) contain everything, matching the "no
// filtering" behavior of the list views.
func (r Range) Contains(date string) bool {
	if !r.Active() {
		return true
	}
	return r.Start <= date && date <= r.End
}

// Resolve turns a period into a concrete inclusive range relative to
// today. Weeks run Monday through Sunday; months clamp to their last day.
// PeriodCustom echoes the supplied endpoints without validation and
// PeriodAll yields an unbounded range.
func Resolve(p Period, today time.Time, customStart, customEnd string) Range {
	today = truncate(today)
	switch p {
	case PeriodToday:
		d := FormatDate(today)
		return Range{Start: d, End: d}
	case PeriodWeek:
		// Weekday with Monday=0.
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return Range{Start: FormatDate(start), End: FormatDate(start.AddDate(0, 0, 6))}
	case PeriodMonth:
		y, m, _ := today.Date()
		start := time.Date(y, m, 1, 0, 0, 0, 0, today.Location())
		return Range{Start: FormatDate(start), End: FormatDate(time.Date(y, m, DaysInMonth(y, m), 0, 0, 0, 0, today.Location()))}
	case PeriodCustom:
		return Range{Start: strings.TrimSpace(customStart), End: strings.TrimSpace(customEnd)}
	default:
		return Range{}
	}
}
