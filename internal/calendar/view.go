package calendar

import "time"

// Direction is a single-month navigation step.
type Direction int

const (
	Previous Direction = iota
	Next
)

// Legend entry identifiers, in render order.
const (
	LegendToday    = "today"
	LegendHasEvent = "has-event"
	LegendFilter   = "filter"
)

// View owns the mutable calendar state: the visible month, the last
// selected date, the externally supplied event-date set and filter
// window. It is held and mutated by whatever composes the UI; there is
// no package-level instance.
type View struct {
	year  int
	month int // 0-11

	selected string
	events   map[string]bool
	filter   FilterRange

	now      func() time.Time
	onSelect func(date string)
}

// Option configures a View.
type Option func(*View)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// WithOnSelect installs the date-selection callback. Without one, Select
// only records the date; the composing layer is expected to perform the
// default navigate-with-filter behavior (start_date, end_date,
// period=custom all set to the chosen date).
func WithOnSelect(fn func(date string)) Option {
	return func(v *View) { v.onSelect = fn }
}

// WithEventDates seeds the initial event-date set.
func WithEventDates(dates []string) Option {
	return func(v *View) { v.SetEventDates(dates) }
}

// WithFilterRange seeds the initial filter window.
func WithFilterRange(start, end string) Option {
	return func(v *View) { v.filter = FilterRange{Start: start, End: end} }
}

// NewView starts at the month containing now.
func NewView(opts ...Option) *View {
	v := &View{now: time.Now, events: map[string]bool{}}
	for _, opt := range opts {
		opt(v)
	}
	n := v.now()
	v.year = n.Year()
	v.month = int(n.Month()) - 1
	return v
}

func (v *View) Year() int        { return v.year }
func (v *View) Month() int       { return v.month }
func (v *View) Selected() string { return v.selected }

// SetMonth jumps straight to a month, normalizing overflow by rolling
// the year.
func (v *View) SetMonth(year, month int) {
	v.year, v.month = normalize(year, month)
}

// Navigate moves the visible month by exactly one step, rolling the year
// at the 0-11 boundaries.
func (v *View) Navigate(dir Direction) {
	switch dir {
	case Previous:
		v.year, v.month = normalize(v.year, v.month-1)
	case Next:
		v.year, v.month = normalize(v.year, v.month+1)
	}
}

func normalize(year, month int) (int, int) {
	for month < 0 {
		month += 12
		year--
	}
	for month > 11 {
		month -= 12
		year++
	}
	return year, month
}

// Select records the chosen date and reports it through the callback
// when one was supplied. The next Grid call reflects the new selection.
func (v *View) Select(date string) {
	v.selected = date
	if v.onSelect != nil {
		v.onSelect(date)
	}
}

// SetEventDates replaces the event set wholesale; there is no
// incremental diffing.
func (v *View) SetEventDates(dates []string) {
	m := make(map[string]bool, len(dates))
	for _, d := range dates {
		m[d] = true
	}
	v.events = m
}

// SetFilterRange replaces the filter window. Empty strings clear an
// endpoint.
func (v *View) SetFilterRange(start, end string) {
	v.filter = FilterRange{Start: start, End: end}
}

func (v *View) FilterRange() FilterRange { return v.filter }

// Grid recomputes the visible month's cells.
func (v *View) Grid() []DayCell {
	return MonthGrid(v.year, v.month, v.now(), v.events, v.filter, v.selected)
}

// Legend lists the applicable legend entries: today and has-event
// always, filter only while a window (either endpoint) is set.
func (v *View) Legend() []string {
	entries := []string{LegendToday, LegendHasEvent}
	if v.filter.Start != "" || v.filter.End != "" {
		entries = append(entries, LegendFilter)
	}
	return entries
}
