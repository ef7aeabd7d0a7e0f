package calendar

import (
	"fmt"
	"time"

	"plazo/internal/dateutil"
)

// DayCell is one grid entry for a single calendar date. Cells are derived
// values: the whole sequence is discarded and rebuilt on every navigation
// or selection, never mutated in place.
type DayCell struct {
	Date           string `json:"date"` // YYYY-MM-DD
	DayOfMonth     int    `json:"dayOfMonth"`
	InCurrentMonth bool   `json:"inCurrentMonth"`

	IsToday         bool `json:"isToday"`
	IsWeekend       bool `json:"isWeekend"`
	HasEvent        bool `json:"hasEvent"`
	IsSelected      bool `json:"isSelected"`
	IsFilterStart   bool `json:"isFilterStart"`
	IsFilterEnd     bool `json:"isFilterEnd"`
	IsInFilterRange bool `json:"isInFilterRange"`
}

// FilterRange is an inclusive highlight window. Interior highlighting
// requires both endpoints; a lone endpoint still gets its boundary flag.
type FilterRange struct {
	Start string
	End   string
}

func (r FilterRange) active() bool {
	return r.Start != "" && r.End != ""
}

// MonthGrid lays out a month as a flat row-major sequence of complete
// Monday-first weeks, padded with adjacent-month filler cells. month is
// 0-11; callers normalize navigation overflow before calling. The
// function is total: any year, any set of date strings. Malformed dates
// in events or the filter simply match nothing.
func MonthGrid(year, month int, today time.Time, events map[string]bool, filter FilterRange, selected string) []DayCell {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)

	// Monday-first offset: Sunday (weekday 0) maps to 6.
	startOffset := ((int(first.Weekday())-1)%7 + 7) % 7

	days := dateutil.DaysInMonth(year, time.Month(month+1))
	prevLast := first.AddDate(0, 0, -1)
	prevDays := prevLast.Day()

	cells := make([]DayCell, 0, 42)

	// Tail of the previous month, ascending, no flags.
	for i := startOffset; i > 0; i-- {
		cells = append(cells, DayCell{
			Date:       dateutil.FormatDate(first.AddDate(0, 0, -i)),
			DayOfMonth: prevDays - i + 1,
		})
	}

	ty, tm, td := today.Date()
	for day := 1; day <= days; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
		cur := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)

		cell := DayCell{
			Date:           date,
			DayOfMonth:     day,
			InCurrentMonth: true,
			IsToday:        ty == year && int(tm) == month+1 && td == day,
			IsWeekend:      dateutil.IsWeekend(cur),
			HasEvent:       events[date],
			IsFilterStart:  filter.Start != "" && date == filter.Start,
			IsFilterEnd:    filter.End != "" && date == filter.End,
		}
		// Today's styling takes precedence over generic selection.
		cell.IsSelected = !cell.IsToday && selected != "" && date == selected
		// Interior only: boundary cells keep their boundary flags instead.
		cell.IsInFilterRange = filter.active() &&
			filter.Start <= date && date <= filter.End &&
			!cell.IsFilterStart && !cell.IsFilterEnd
		cells = append(cells, cell)
	}

	// Pad to complete weeks with the head of the next month.
	for day := 1; len(cells)%7 != 0; day++ {
		next := first.AddDate(0, 1, day-1)
		cells = append(cells, DayCell{
			Date:       dateutil.FormatDate(next),
			DayOfMonth: day,
		})
	}

	return cells
}
