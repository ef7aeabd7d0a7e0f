package tui

import (
	"fmt"
	"strings"
	"time"

	"plazo/internal/dateutil"
)

// formatDue renders a due date for list rows:
// - date-only: "Mar 15"
// - date+time: "Mar 15 18:30" (24h)
func formatDue(date string, dueTime *string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	parsed, err := dateutil.ParseDate(date)
	if err != nil {
		// Best-effort: fall back to the raw date string.
		if dueTime != nil && strings.TrimSpace(*dueTime) != "" {
			return fmt.Sprintf("%s %s", date, strings.TrimSpace(*dueTime))
		}
		return date
	}
	day := parsed.Format("Jan 2")
	if dueTime == nil || strings.TrimSpace(*dueTime) == "" {
		return day
	}
	return fmt.Sprintf("%s %s", day, strings.TrimSpace(*dueTime))
}

func formatDueLabel(date string, dueTime *string) string {
	txt := formatDue(date, dueTime)
	if txt == "" {
		return ""
	}
	return "vence " + txt
}

// formatDaysRemaining renders the countdown shown in the due-soon modal.
func formatDaysRemaining(today time.Time, due string) string {
	days := dateutil.DaysRemaining(today, due)
	switch {
	case days < -1:
		return fmt.Sprintf("vencida hace %d días", -days)
	case days == -1:
		return "vencida hace 1 día"
	case days == 0:
		return "vence hoy"
	case days == 1:
		return "vence mañana"
	default:
		return fmt.Sprintf("vence en %d días", days)
	}
}

// monthTitle renders "Marzo 2024" for the calendar header. month is 0-11.
func monthTitle(year, month int) string {
	names := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	if month < 0 || month > 11 {
		return fmt.Sprintf("%d-%d", year, month)
	}
	return fmt.Sprintf("%s %d", names[month], year)
}
