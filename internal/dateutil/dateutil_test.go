package dateutil

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 0, 0, 0, time.UTC)
}

func TestBusinessDaysUntil(t *testing.T) {
	// 2024-03-15 is a Friday.
	friday := day(2024, time.March, 15)

	cases := []struct {
		target time.Time
		want   int
	}{
		{day(2024, time.March, 15), 0}, // today
		{day(2024, time.March, 10), 0}, // past
		{day(2024, time.March, 16), 0}, // Saturday
		{day(2024, time.March, 18), 1}, // Monday
		{day(2024, time.March, 22), 5}, // next Friday
	}
	for _, c := range cases {
		if got := BusinessDaysUntil(friday, c.target); got != c.want {
			t.Fatalf("BusinessDaysUntil(%s): expected %d, got %d", FormatDate(c.target), c.want, got)
		}
	}
}

func TestNextBusinessDaySkipsWeekend(t *testing.T) {
	friday := day(2024, time.March, 15)
	if got := FormatDate(NextBusinessDay(friday)); got != "2024-03-18" {
		t.Fatalf("expected Monday 2024-03-18, got %s", got)
	}
	monday := day(2024, time.March, 18)
	if got := FormatDate(NextBusinessDay(monday)); got != "2024-03-19" {
		t.Fatalf("expected Tuesday 2024-03-19, got %s", got)
	}
}

func TestResolvePeriods(t *testing.T) {
	// A Friday mid-month.
	today := day(2024, time.March, 15)

	if r := Resolve(PeriodToday, today, "", ""); r.Start != "2024-03-15" || r.End != "2024-03-15" {
		t.Fatalf("today: %+v", r)
	}
	// Monday-first week.
	if r := Resolve(PeriodWeek, today, "", ""); r.Start != "2024-03-11" || r.End != "2024-03-17" {
		t.Fatalf("week: %+v", r)
	}
	if r := Resolve(PeriodMonth, today, "", ""); r.Start != "2024-03-01" || r.End != "2024-03-31" {
		t.Fatalf("month: %+v", r)
	}
	// Leap February clamps to the 29th.
	if r := Resolve(PeriodMonth, day(2024, time.February, 10), "", ""); r.End != "2024-02-29" {
		t.Fatalf("leap month end: %+v", r)
	}
	if r := Resolve(PeriodCustom, today, "2024-01-01", "2024-01-31"); r.Start != "2024-01-01" || r.End != "2024-01-31" {
		t.Fatalf("custom: %+v", r)
	}
	if r := Resolve(PeriodAll, today, "", ""); r.Active() {
		t.Fatalf("all should be unbounded: %+v", r)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: "2024-03-10", End: "2024-03-15"}
	for _, d := range []string{"2024-03-10", "2024-03-12", "2024-03-15"} {
		if !r.Contains(d) {
			t.Fatalf("expected %s inside %+v", d, r)
		}
	}
	for _, d := range []string{"2024-03-09", "2024-03-16"} {
		if r.Contains(d) {
			t.Fatalf("expected %s outside %+v", d, r)
		}
	}
	// A half-open range is inactive and filters nothing.
	half := Range{Start: "2024-03-10"}
	if !half.Contains("2001-01-01") {
		t.Fatalf("inactive range should contain everything")
	}
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{
		"":       PeriodAll,
		"all":    PeriodAll,
		"Today":  PeriodToday,
		" week ": PeriodWeek,
		"month":  PeriodMonth,
		"custom": PeriodCustom,
	} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Fatalf("ParsePeriod(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestClassifyUrgency(t *testing.T) {
	today := day(2024, time.March, 15)
	cases := []struct {
		due  string
		want Urgency
	}{
		{"2024-03-10", UrgencyOverdue},
		{"2024-03-15", UrgencyToday},
		{"2024-03-16", UrgencySoon},
		{"2024-03-18", UrgencySoon},
		{"2024-03-19", UrgencyUpcoming},
		{"bogus", UrgencyToday}, // malformed degrades to due-today
	}
	for _, c := range cases {
		if got := Classify(today, c.due, 3); got != c.want {
			t.Fatalf("Classify(%q) = %v, expected %v", c.due, got, c.want)
		}
	}
}

func TestDaysRemainingAcrossLocations(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	today := time.Date(2024, time.March, 15, 23, 30, 0, 0, loc)
	if got := DaysRemaining(today, "2024-03-16"); got != 1 {
		t.Fatalf("expected 1 day remaining, got %d", got)
	}
}
