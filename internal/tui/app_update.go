package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"plazo/internal/calendar"
	"plazo/internal/dateutil"
	"plazo/internal/notify"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		listH := m.height - 6
		if listH < 4 {
			listH = 4
		}
		m.tasksList.SetSize(m.contentWidth(), listH)
		m.expsList.SetSize(m.contentWidth(), listH)
		return m, nil

	case pickerDebounceMsg, pickerResultsMsg:
		if m.modal == modalParentPicker {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.modal {
	case modalDueSoon:
		return m.updateDueSoonModal(msg)
	case modalParentPicker:
		return m.updateParentPicker(msg)
	}

	// While the task list filter input is active, route everything to it.
	if m.view == viewTasks && m.tasksList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tasksList, cmd = m.tasksList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.view = (m.view + 1) % 3
		return m, nil
	case "shift+tab":
		m.view = (m.view + 2) % 3
		return m, nil
	case "b":
		m.sidebarCollapsed = !m.sidebarCollapsed
		return m, nil
	case "n":
		feed, err := m.notifier.Build(m.ctx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.feed = feed
		m.feedIdx = 0
		m.modal = modalDueSoon
		return m, nil
	case "0":
		m.setFilter(dateutil.Range{})
		return m, nil
	case "1":
		m.setFilter(dateutil.Resolve(dateutil.PeriodToday, m.now(), "", ""))
		return m, nil
	case "2":
		m.setFilter(dateutil.Resolve(dateutil.PeriodWeek, m.now(), "", ""))
		return m, nil
	case "3":
		m.setFilter(dateutil.Resolve(dateutil.PeriodMonth, m.now(), "", ""))
		return m, nil
	}

	switch m.view {
	case viewTasks:
		return m.updateTasksView(msg)
	case viewCalendar:
		return m.updateCalendarView(msg)
	case viewExpirations:
		return m.updateExpirationsView(msg)
	}
	return m, nil
}

func (m appModel) updateTasksView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "t", " ":
		row, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if _, err := m.store.ToggleTask(m.ctx, row.task.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refreshAll()
		return m, nil
	case "p":
		row, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.picker = newParentPicker(row.task.ID, m.searchCmd)
		m.modal = modalParentPicker
		return m, nil
	}
	var cmd tea.Cmd
	m.tasksList, cmd = m.tasksList.Update(msg)
	return m, cmd
}

func (m appModel) updateCalendarView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		m.cal.Navigate(calendar.Previous)
		m.calCursor = firstOfVisibleMonth(m.cal)
		return m, nil
	case "l":
		m.cal.Navigate(calendar.Next)
		m.calCursor = firstOfVisibleMonth(m.cal)
		return m, nil
	case "left":
		return m.moveCursor(-1), nil
	case "right":
		return m.moveCursor(1), nil
	case "up":
		return m.moveCursor(-7), nil
	case "down":
		return m.moveCursor(7), nil
	case "enter":
		// Selecting a day narrows every view to that single date.
		date := dateutil.FormatDate(m.calCursor)
		m.cal.Select(date)
		m.setFilter(dateutil.Range{Start: date, End: date})
		return m, nil
	case "esc":
		m.cal.Select("")
		m.setFilter(dateutil.Range{})
		return m, nil
	}
	return m, nil
}

func (m appModel) moveCursor(days int) appModel {
	m.calCursor = m.calCursor.AddDate(0, 0, days)
	// Follow the cursor across month boundaries.
	if int(m.calCursor.Month())-1 != m.cal.Month() || m.calCursor.Year() != m.cal.Year() {
		m.cal.SetMonth(m.calCursor.Year(), int(m.calCursor.Month())-1)
	}
	return m
}

func firstOfVisibleMonth(v *calendar.View) time.Time {
	return time.Date(v.Year(), time.Month(v.Month()+1), 1, 0, 0, 0, 0, time.UTC)
}

func (m appModel) updateExpirationsView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "x" {
		row, ok := m.expsList.SelectedItem().(expirationRowItem)
		if !ok {
			return m, nil
		}
		if err := m.store.CompleteExpiration(m.ctx, row.exp.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refreshAll()
		return m, nil
	}
	var cmd tea.Cmd
	m.expsList, cmd = m.expsList.Update(msg)
	return m, cmd
}

func (m appModel) updateDueSoonModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil
	case "j", "down":
		if m.feedIdx < len(m.feed.Tasks)-1 {
			m.feedIdx++
		}
		return m, nil
	case "k", "up":
		if m.feedIdx > 0 {
			m.feedIdx--
		}
		return m, nil
	case "1":
		return m.postponeSelected(notify.PostponeOneDay), nil
	case "2":
		return m.postponeSelected(notify.PostponeNextBusinessDay), nil
	case "3":
		return m.postponeSelected(notify.PostponeOneWeek), nil
	case "t":
		if m.feedIdx < len(m.feed.Tasks) {
			if _, err := m.store.ToggleTask(m.ctx, m.feed.Tasks[m.feedIdx].Task.ID); err != nil {
				m.fail(err)
				return m, nil
			}
			m.reloadFeed()
			m.refreshAll()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) postponeSelected(action notify.PostponeAction) appModel {
	if m.feedIdx >= len(m.feed.Tasks) {
		return m
	}
	entry := m.feed.Tasks[m.feedIdx]
	t, err := m.notifier.Postpone(m.ctx, entry.Task.ID, action)
	if err != nil {
		m.fail(err)
		return m
	}
	m.minibufferText = fmt.Sprintf("%s pospuesta a %s", t.Title, t.DueDate)
	m.reloadFeed()
	m.refreshAll()
	return m
}

func (m *appModel) reloadFeed() {
	feed, err := m.notifier.Build(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.feed = feed
	if m.feedIdx >= len(m.feed.Tasks) {
		m.feedIdx = 0
	}
	if m.feed.Empty() {
		m.modal = modalNone
	}
}

func (m appModel) updateParentPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal = modalNone
		return m, nil
	case tea.KeyEnter:
		parent, ok := m.picker.Selected()
		if !ok {
			return m, nil
		}
		if err := m.store.SetParent(m.ctx, m.picker.forTaskID, parent.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.minibufferText = "vinculada a " + parent.Title
		m.modal = modalNone
		m.refreshAll()
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// searchCmd runs the debounced parent-picker query against the store.
func (m appModel) searchCmd(seq int, query string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		tasks, err := st.SearchTasks(ctx, query, 10)
		return pickerResultsMsg{seq: seq, tasks: tasks, err: err}
	}
}

const sidebarW = 16

func (m appModel) contentWidth() int {
	w := m.width
	if !m.sidebarCollapsed {
		w -= sidebarW
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	var content string
	switch m.modal {
	case modalDueSoon:
		content = m.dueSoonView()
	case modalParentPicker:
		content = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorModalBorder).
			Padding(1, 2).
			Render(m.picker.View())
	default:
		switch m.view {
		case viewTasks:
			content = m.tasksList.View()
		case viewCalendar:
			content = renderCalendar(m.cal)
		case viewExpirations:
			content = m.expsList.View()
		}
	}

	body := content
	if !m.sidebarCollapsed {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), content)
	}

	foot := styleMuted().Render(m.minibufferText)
	return lipgloss.JoinVertical(lipgloss.Left, body, foot)
}

func (m appModel) sidebarView() string {
	var b strings.Builder
	for v := viewTasks; v <= viewExpirations; v++ {
		label := viewNames[v]
		if v == m.view {
			b.WriteString(lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Bold(true).
				Render(padOrCut(" "+label, sidebarW-2)))
		} else {
			b.WriteString(padOrCut(" "+label, sidebarW-2))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(styleMuted().Render("tab cambiar\nn avisos\nb panel\nq salir"))
	return lipgloss.NewStyle().Width(sidebarW).Render(b.String())
}

func (m appModel) dueSoonView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Próximos vencimientos"))
	b.WriteString("\n\n")
	if m.feed.Empty() {
		b.WriteString(styleMuted().Render("nada pendiente"))
	}
	today := m.now()
	for i, e := range m.feed.Tasks {
		cursor := "  "
		if i == m.feedIdx {
			cursor = "> "
		}
		line := cursor + e.Task.Title + "  " +
			urgencyStyle(e.Urgency).Render(formatDaysRemaining(today, e.Task.DueDate))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(m.feed.Expirations) > 0 {
		b.WriteString("\n" + styleMuted().Render("Vencimientos") + "\n")
		for _, e := range m.feed.Expirations {
			b.WriteString("  " + e.Expiration.Title + "  " +
				urgencyStyle(e.Urgency).Render(formatDaysRemaining(today, e.Expiration.DueDate)))
			b.WriteByte('\n')
		}
	}
	b.WriteString("\n" + styleMuted().Render("1 +1 día · 2 día hábil · 3 +1 semana · t completar · esc cerrar"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorModalBorder).
		Padding(1, 2).
		Render(b.String())
}
