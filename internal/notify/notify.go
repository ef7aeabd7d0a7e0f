package notify

import (
	"context"
	"fmt"
	"time"

	"plazo/internal/dateutil"
	"plazo/internal/model"
	"plazo/internal/store"
)

// DefaultLeadDays is the due-soon window: tasks due within this many
// days of today appear in the notification feed.
const DefaultLeadDays = 3

// Entry is one row of the due-soon feed: the task plus its derived
// urgency metadata.
type Entry struct {
	Task          model.Task       `json:"task"`
	Urgency       dateutil.Urgency `json:"urgency"`
	Color         string           `json:"color"`
	DaysRemaining int              `json:"daysRemaining"`
}

// ExpirationEntry mirrors Entry for vencimientos.
type ExpirationEntry struct {
	Expiration    model.Expiration `json:"expiration"`
	Urgency       dateutil.Urgency `json:"urgency"`
	Color         string           `json:"color"`
	DaysRemaining int              `json:"daysRemaining"`
}

// Feed is everything the due-soon modal renders.
type Feed struct {
	Tasks       []Entry           `json:"tasks"`
	Expirations []ExpirationEntry `json:"expirations"`
}

func (f Feed) Empty() bool {
	return len(f.Tasks) == 0 && len(f.Expirations) == 0
}

// Notifier builds the feed and applies postponements.
type Notifier struct {
	store    *store.Store
	leadDays int
	now      func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLeadDays overrides the due-soon window.
func WithLeadDays(days int) Option {
	return func(n *Notifier) {
		if days > 0 {
			n.leadDays = days
		}
	}
}

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

func New(s *store.Store, opts ...Option) *Notifier {
	n := &Notifier{store: s, leadDays: DefaultLeadDays, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Build assembles the due-soon feed: open enabled tasks due within the
// lead window or overdue, plus pending expirations in the same window,
// each classified by urgency.
func (n *Notifier) Build(ctx context.Context) (Feed, error) {
	today := n.now()
	todayStr := dateutil.FormatDate(today)

	tasks, err := n.store.DueSoon(ctx, todayStr, n.leadDays)
	if err != nil {
		return Feed{}, err
	}
	var feed Feed
	for _, t := range tasks {
		feed.Tasks = append(feed.Tasks, Entry{
			Task:          t,
			Urgency:       dateutil.Classify(today, t.DueDate, n.leadDays),
			Color:         dateutil.Classify(today, t.DueDate, n.leadDays).Color(),
			DaysRemaining: dateutil.DaysRemaining(today, t.DueDate),
		})
	}

	horizon := dateutil.Range{
		Start: todayStr,
		End:   dateutil.FormatDate(today.AddDate(0, 0, n.leadDays)),
	}
	exps, err := n.store.ListExpirations(ctx, horizon, false)
	if err != nil {
		return Feed{}, err
	}
	for _, e := range exps {
		u := dateutil.Classify(today, e.DueDate, n.leadDays)
		feed.Expirations = append(feed.Expirations, ExpirationEntry{
			Expiration:    e,
			Urgency:       u,
			Color:         u.Color(),
			DaysRemaining: dateutil.DaysRemaining(today, e.DueDate),
		})
	}
	return feed, nil
}

// PostponeAction names one of the modal's postponement buttons.
type PostponeAction string

const (
	PostponeOneDay          PostponeAction = "one_day"
	PostponeNextBusinessDay PostponeAction = "next_business_day"
	PostponeOneWeek         PostponeAction = "one_week"
)

func ParsePostponeAction(s string) (PostponeAction, error) {
	switch PostponeAction(s) {
	case PostponeOneDay:
		return PostponeOneDay, nil
	case PostponeNextBusinessDay:
		return PostponeNextBusinessDay, nil
	case PostponeOneWeek:
		return PostponeOneWeek, nil
	default:
		return "", fmt.Errorf("unknown postpone action: %q", s)
	}
}

// Postpone applies an action to a task. Overdue tasks postpone relative
// to today, not to their stale due date, so one click always lands in
// the future.
func (n *Notifier) Postpone(ctx context.Context, taskID string, action PostponeAction) (model.Task, error) {
	t, err := n.store.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	base, err := dateutil.ParseDate(t.DueDate)
	if err != nil || base.Before(startOfDay(n.now())) {
		base = startOfDay(n.now())
	}

	var target time.Time
	switch action {
	case PostponeOneDay:
		target = base.AddDate(0, 0, 1)
	case PostponeNextBusinessDay:
		target = dateutil.NextBusinessDay(base)
	case PostponeOneWeek:
		target = base.AddDate(0, 0, 7)
	default:
		return model.Task{}, fmt.Errorf("unknown postpone action: %q", action)
	}
	return n.store.Postpone(ctx, taskID, dateutil.FormatDate(target))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
