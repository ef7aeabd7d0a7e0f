package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plazo/internal/calendar"
)

const calCellW = 4

// renderCalendar draws the month grid. Week rows run Monday through
// Sunday; filler cells render blank. Cell markers:
//   - today: accent background
//   - selected: selection background
//   - event: a dot after the day number
//   - filter window: subtle background, bold at the boundaries
func renderCalendar(v *calendar.View) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Render(monthTitle(v.Year(), v.Month()))
	b.WriteString(title)
	b.WriteByte('\n')

	header := []string{"Lu", "Ma", "Mi", "Ju", "Vi", "Sá", "Do"}
	for _, h := range header {
		b.WriteString(styleMuted().Render(padOrCut(h, calCellW)))
	}
	b.WriteByte('\n')

	cells := v.Grid()
	for i, c := range cells {
		b.WriteString(renderDayCell(c, i%7 >= 5))
		if (i+1)%7 == 0 && i != len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(renderLegend(v))
	return b.String()
}

func renderDayCell(c calendar.DayCell, weekend bool) string {
	if !c.InCurrentMonth {
		return strings.Repeat(" ", calCellW)
	}

	txt := fmt.Sprintf("%2d", c.DayOfMonth)
	if c.HasEvent {
		txt += "•"
	}

	st := lipgloss.NewStyle()
	switch {
	case c.IsToday:
		st = st.Background(colorTodayBg).Foreground(colorTodayFg).Bold(true)
	case c.IsSelected:
		st = st.Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	case c.IsFilterStart || c.IsFilterEnd:
		st = st.Background(colorFilterBg).Bold(true)
	case c.IsInFilterRange:
		st = st.Background(colorFilterBg)
	case weekend:
		st = st.Foreground(colorMuted)
	}
	return st.Render(padOrCut(txt, calCellW))
}

func renderLegend(v *calendar.View) string {
	labels := map[string]string{
		calendar.LegendToday:    "hoy",
		calendar.LegendHasEvent: "• con entradas",
		calendar.LegendFilter:   "filtro activo",
	}
	var parts []string
	for _, entry := range v.Legend() {
		if l, ok := labels[entry]; ok {
			parts = append(parts, l)
		}
	}
	return styleMuted().Render(strings.Join(parts, "  "))
}
