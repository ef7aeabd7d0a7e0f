package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"plazo/internal/dateutil"
	"plazo/internal/model"
	"plazo/internal/store"
)

// ICS renders the tasks and expirations inside the range as a calendar
// subscription payload. Entries are all-day VEVENTs on their due date;
// when a task carries a due time, the event starts at that time instead.
func ICS(ctx context.Context, s *store.Store, r dateutil.Range) (string, error) {
	tasks, err := s.ListTasks(ctx, store.TaskFilter{DateRange: r, OpenOnly: true})
	if err != nil {
		return "", err
	}
	exps, err := s.ListExpirations(ctx, r, false)
	if err != nil {
		return "", err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//plazo//tareas y vencimientos//ES")
	cal.SetName("plazo")

	now := time.Now().UTC()
	for _, t := range tasks {
		ev := cal.AddEvent(t.ID + "@plazo")
		ev.SetDtStampTime(now)
		ev.SetSummary(t.Title)
		if t.Description != "" {
			ev.SetDescription(t.Description)
		}
		start, err := taskStart(t)
		if err != nil {
			// Skip rows with unparseable dates instead of failing the export.
			continue
		}
		if t.DueTime != nil {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(time.Hour))
		} else {
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
		ev.SetProperty(ical.ComponentPropertyCategories, "TAREA")
		setICSPriority(ev, t.Priority)
	}
	for _, e := range exps {
		due, err := dateutil.ParseDate(e.DueDate)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(e.ID + "@plazo")
		ev.SetDtStampTime(now)
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		ev.SetAllDayStartAt(due)
		ev.SetAllDayEndAt(due.AddDate(0, 0, 1))
		ev.SetProperty(ical.ComponentPropertyCategories, "VENCIMIENTO")
	}
	return cal.Serialize(), nil
}

func taskStart(t model.Task) (time.Time, error) {
	due, err := dateutil.ParseDate(t.DueDate)
	if err != nil {
		return time.Time{}, err
	}
	if t.DueTime == nil {
		return due, nil
	}
	hm := strings.TrimSpace(*t.DueTime)
	clock, err := time.Parse("15:04", hm)
	if err != nil {
		return due, nil
	}
	return due.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// RFC 5545 priority: 1 is highest, 5 medium, 9 lowest.
func setICSPriority(ev *ical.VEvent, p model.Priority) {
	var v string
	switch p {
	case model.PriorityUrgente:
		v = "1"
	case model.PriorityMedia:
		v = "5"
	case model.PriorityNormal:
		v = "9"
	default:
		v = "9"
	}
	ev.SetProperty(ical.ComponentProperty(ical.PropertyPriority), v)
}

// Filename suggests a download name for the exported payload.
func Filename(today time.Time) string {
	return fmt.Sprintf("plazo_%s.ics", dateutil.FormatDate(today))
}
