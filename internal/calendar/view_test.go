package calendar

import (
	"testing"
	"time"
)

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.UTC) }
}

func TestViewNavigationRoundTrip(t *testing.T) {
	v := NewView(WithNow(fixedNow(2024, time.March, 15)))
	if v.Year() != 2024 || v.Month() != 2 {
		t.Fatalf("expected start 2024-03, got %d-%02d", v.Year(), v.Month()+1)
	}
	v.Navigate(Next)
	v.Navigate(Previous)
	if v.Year() != 2024 || v.Month() != 2 {
		t.Fatalf("next+previous should round-trip, got %d-%02d", v.Year(), v.Month()+1)
	}
}

func TestViewNavigationYearRollover(t *testing.T) {
	v := NewView(WithNow(fixedNow(2024, time.March, 15)))
	for i := 0; i < 12; i++ {
		v.Navigate(Next)
	}
	if v.Year() != 2025 || v.Month() != 2 {
		t.Fatalf("12x next from 2024-03 should land on 2025-03, got %d-%02d", v.Year(), v.Month()+1)
	}
	for i := 0; i < 24; i++ {
		v.Navigate(Previous)
	}
	if v.Year() != 2023 || v.Month() != 2 {
		t.Fatalf("24x previous should land on 2023-03, got %d-%02d", v.Year(), v.Month()+1)
	}

	// December -> January boundary.
	v.SetMonth(2024, 11)
	v.Navigate(Next)
	if v.Year() != 2025 || v.Month() != 0 {
		t.Fatalf("expected 2025-01, got %d-%02d", v.Year(), v.Month()+1)
	}
	v.Navigate(Previous)
	if v.Year() != 2024 || v.Month() != 11 {
		t.Fatalf("expected 2024-12, got %d-%02d", v.Year(), v.Month()+1)
	}
}

func TestViewSetMonthNormalizes(t *testing.T) {
	v := NewView(WithNow(fixedNow(2024, time.March, 15)))
	v.SetMonth(2024, -1)
	if v.Year() != 2023 || v.Month() != 11 {
		t.Fatalf("month -1 should mean December of the previous year, got %d-%02d", v.Year(), v.Month()+1)
	}
	v.SetMonth(2024, 12)
	if v.Year() != 2025 || v.Month() != 0 {
		t.Fatalf("month 12 should mean January of the next year, got %d-%02d", v.Year(), v.Month()+1)
	}
}

func TestViewSelectReportsThroughCallback(t *testing.T) {
	var got string
	v := NewView(
		WithNow(fixedNow(2024, time.March, 15)),
		WithOnSelect(func(date string) { got = date }),
	)
	v.Select("2024-03-20")
	if got != "2024-03-20" {
		t.Fatalf("expected callback with 2024-03-20, got %q", got)
	}
	if v.Selected() != "2024-03-20" {
		t.Fatalf("expected recorded selection, got %q", v.Selected())
	}

	found := false
	for _, cell := range v.Grid() {
		if cell.IsSelected {
			found = true
			if cell.Date != "2024-03-20" {
				t.Fatalf("unexpected selected cell %s", cell.Date)
			}
		}
	}
	if !found {
		t.Fatalf("grid should reflect the selection")
	}
}

func TestViewEventDatesReplacedWholesale(t *testing.T) {
	v := NewView(
		WithNow(fixedNow(2024, time.March, 15)),
		WithEventDates([]string{"2024-03-05"}),
	)
	if !hasEvent(v.Grid(), "2024-03-05") {
		t.Fatalf("expected event on the 5th")
	}
	v.SetEventDates([]string{"2024-03-20"})
	grid := v.Grid()
	if hasEvent(grid, "2024-03-05") {
		t.Fatalf("old event set should be gone")
	}
	if !hasEvent(grid, "2024-03-20") {
		t.Fatalf("expected event on the 20th")
	}
}

func hasEvent(cells []DayCell, date string) bool {
	for _, c := range cells {
		if c.Date == date {
			return c.HasEvent
		}
	}
	return false
}

func TestViewLegend(t *testing.T) {
	v := NewView(WithNow(fixedNow(2024, time.March, 15)))
	legend := v.Legend()
	if len(legend) != 2 || legend[0] != LegendToday || legend[1] != LegendHasEvent {
		t.Fatalf("unexpected legend without filter: %v", legend)
	}

	// A lone endpoint is enough to surface the filter legend entry.
	v.SetFilterRange("2024-03-10", "")
	legend = v.Legend()
	if len(legend) != 3 || legend[2] != LegendFilter {
		t.Fatalf("expected filter legend entry, got %v", legend)
	}

	v.SetFilterRange("", "")
	if len(v.Legend()) != 2 {
		t.Fatalf("clearing the filter should drop the legend entry")
	}
}
