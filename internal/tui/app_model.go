package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"plazo/internal/calendar"
	"plazo/internal/dateutil"
	"plazo/internal/log"
	"plazo/internal/notify"
	"plazo/internal/store"
)

type view int

const (
	viewTasks view = iota
	viewCalendar
	viewExpirations
)

var viewNames = map[view]string{
	viewTasks:       "Tareas",
	viewCalendar:    "Calendario",
	viewExpirations: "Vencimientos",
}

type modalKind int

const (
	modalNone modalKind = iota
	modalDueSoon
	modalParentPicker
)

type appModel struct {
	ctx   context.Context
	store *store.Store
	now   func() time.Time

	width  int
	height int
	// We treat the very first WindowSizeMsg as "initial sizing" rather
	// than a user-driven resize.
	seenWindowSize bool

	view             view
	sidebarCollapsed bool

	tasksList list.Model
	expsList  list.Model

	cal *calendar.View
	// calCursor is the keyboard cursor inside the calendar view.
	calCursor time.Time

	// filter is the active date window shared by the lists and the
	// calendar highlighting.
	filter dateutil.Range

	modal   modalKind
	feed    notify.Feed
	feedIdx int
	picker  parentPicker

	notifier *notify.Notifier

	minibufferText string
	lastErr        error
}

// Option configures the app model.
type Option func(*appModel)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(m *appModel) { m.now = now }
}

func newAppModel(ctx context.Context, s *store.Store, opts ...Option) appModel {
	m := appModel{
		ctx:   ctx,
		store: s,
		now:   time.Now,
		view:  viewTasks,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.notifier = notify.New(s, notify.WithNow(m.now))

	m.tasksList = newList("Tareas", "tarea", nil)
	m.tasksList.SetDelegate(newTaskDelegate())
	m.tasksList.SetFilteringEnabled(true)
	m.tasksList.SetShowFilter(true)

	m.expsList = newList("Vencimientos", "vencimiento", nil)
	m.expsList.SetDelegate(newCompactDelegate())

	m.cal = calendar.NewView(calendar.WithNow(m.now))
	m.calCursor = m.now()

	m.refreshTasks()
	m.refreshExpirations()
	m.refreshCalendar()

	// Surface the due-soon feed right away when something needs
	// attention; esc dismisses it.
	feed, err := m.notifier.Build(ctx)
	if err != nil {
		m.fail(err)
	} else if !feed.Empty() {
		m.feed = feed
		m.modal = modalDueSoon
	}
	return m
}

func (m *appModel) refreshTasks() {
	tasks, err := m.store.ListTasks(m.ctx, store.TaskFilter{DateRange: m.filter})
	if err != nil {
		m.fail(err)
		return
	}
	m.tasksList.SetItems(taskItems(tasks))
}

func (m *appModel) refreshExpirations() {
	exps, err := m.store.ListExpirations(m.ctx, m.filter, false)
	if err != nil {
		m.fail(err)
		return
	}
	m.expsList.SetItems(expirationItems(exps))
}

func (m *appModel) refreshCalendar() {
	dates, err := m.store.EventDates(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.cal.SetEventDates(dates)
	m.cal.SetFilterRange(m.filter.Start, m.filter.End)
}

func (m *appModel) refreshAll() {
	m.refreshTasks()
	m.refreshExpirations()
	m.refreshCalendar()
}

// setFilter applies a new date window everywhere at once.
func (m *appModel) setFilter(r dateutil.Range) {
	m.filter = r
	m.refreshAll()
}

func (m *appModel) fail(err error) {
	m.lastErr = err
	m.minibufferText = err.Error()
	log.Error("tui operation failed", err)
}

func (m appModel) selectedTask() (taskRowItem, bool) {
	it, ok := m.tasksList.SelectedItem().(taskRowItem)
	return it, ok
}

func (m appModel) Init() tea.Cmd { return nil }
