package dateutil

import "time"

// Urgency buckets a due date by days remaining. It drives the coloring
// of due-soon notification entries.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencySoon     Urgency = "soon"
	UrgencyUpcoming Urgency = "upcoming"
)

func (u Urgency) Color() string {
	switch u {
	case UrgencyOverdue:
		return "#dc2626"
	case UrgencyToday:
		return "#ea580c"
	case UrgencySoon:
		return "#ca8a04"
	case UrgencyUpcoming:
		return "#16a34a"
	default:
		return "#16a34a"
	}
}

// DaysRemaining returns calendar days from today until due; negative
// when due is in the past. Malformed dates count as 0 (due today), the
// lenient degradation the rest of the date plumbing follows.
func DaysRemaining(today time.Time, due string) int {
	d, err := ParseDate(due)
	if err != nil {
		return 0
	}
	// Normalize both to UTC midnights so the division is exact regardless
	// of the caller's location.
	y, m, dd := today.Date()
	t := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// Classify buckets a due date. leadDays is the due-soon window: dates
// within (0, leadDays] days are "soon", later ones "upcoming".
func Classify(today time.Time, due string, leadDays int) Urgency {
	days := DaysRemaining(today, due)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days == 0:
		return UrgencyToday
	case days <= leadDays:
		return UrgencySoon
	default:
		return UrgencyUpcoming
	}
}
