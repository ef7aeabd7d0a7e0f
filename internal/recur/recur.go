package recur

import (
	"time"

	"plazo/internal/dateutil"
	"plazo/internal/model"
)

// ShouldGenerate decides whether a recurring definition produces a task
// for today. Inactive definitions, days outside the start/end window and
// days already generated are always skipped.
func ShouldGenerate(r model.RecurringTask, today time.Time) bool {
	if !r.Active {
		return false
	}
	date := dateutil.FormatDate(today)
	if r.StartDate > date {
		return false
	}
	if r.EndDate != nil && *r.EndDate < date {
		return false
	}
	if r.LastGeneratedDate != nil && *r.LastGeneratedDate == date {
		return false
	}

	switch r.Type {
	case model.RecurWeekdays:
		return dateutil.IsBusinessDay(today)
	case model.RecurWeekly:
		if len(r.DaysOfWeek) == 0 {
			return false
		}
		// ISO weekday: 1=Monday .. 7=Sunday.
		iso := int(today.Weekday())
		if iso == 0 {
			iso = 7
		}
		for _, d := range r.DaysOfWeek {
			if d == iso {
				return true
			}
		}
		return false
	case model.RecurMonthly:
		if r.DayOfMonth < 1 {
			return false
		}
		// Months shorter than the configured day generate on their last day.
		target := r.DayOfMonth
		if last := dateutil.DaysInMonth(today.Year(), today.Month()); target > last {
			target = last
		}
		return today.Day() == target
	case model.RecurCustom:
		for _, d := range r.CustomDates {
			if d == date {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Materialize builds the concrete task a definition generates for today.
func Materialize(r model.RecurringTask, today time.Time) model.Task {
	due := r.DueTime
	return model.Task{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      model.StatusPending,
		DueDate:     dateutil.FormatDate(today),
		DueTime:     &due,
		CreatorID:   r.CreatorID,
		RecurringID: &r.ID,
	}
}
