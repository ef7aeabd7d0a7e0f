package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"plazo/internal/dateutil"
	"plazo/internal/model"
	"plazo/internal/store"
)

// Friday 2024-03-15.
var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*store.Store, *Notifier) {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "plazo.sqlite"),
		store.WithNow(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, New(s, WithNow(func() time.Time { return testNow }))
}

func create(t *testing.T, s *store.Store, task model.Task) model.Task {
	t.Helper()
	created, err := s.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func TestBuildFeedStatuses(t *testing.T) {
	s, n := setup(t)
	ctx := context.Background()

	create(t, s, model.Task{Title: "Pending Task", DueDate: "2024-03-16", CreatorID: "u"})
	create(t, s, model.Task{Title: "InProgress Task", DueDate: "2024-03-16", CreatorID: "u", Status: model.StatusInProgress})
	create(t, s, model.Task{Title: "InReview Task", DueDate: "2024-03-16", CreatorID: "u", Status: model.StatusInReview})
	create(t, s, model.Task{Title: "Completed Task", DueDate: "2024-03-16", CreatorID: "u", Status: model.StatusCompleted})
	create(t, s, model.Task{Title: "Anulado Task", DueDate: "2024-03-16", CreatorID: "u", Status: model.StatusAnulado})

	feed, err := n.Build(ctx)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := map[string]bool{}
	for _, e := range feed.Tasks {
		got[e.Task.Title] = true
	}
	for _, want := range []string{"Pending Task", "InProgress Task", "InReview Task"} {
		if !got[want] {
			t.Fatalf("expected %q in feed, got %v", want, got)
		}
	}
	for _, reject := range []string{"Completed Task", "Anulado Task"} {
		if got[reject] {
			t.Fatalf("did not expect %q in feed", reject)
		}
	}
}

func TestBuildFeedUrgencies(t *testing.T) {
	s, n := setup(t)
	ctx := context.Background()

	create(t, s, model.Task{Title: "overdue", DueDate: "2024-03-10", CreatorID: "u"})
	create(t, s, model.Task{Title: "today", DueDate: "2024-03-15", CreatorID: "u"})
	create(t, s, model.Task{Title: "soon", DueDate: "2024-03-17", CreatorID: "u"})

	feed, err := n.Build(ctx)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(feed.Tasks) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(feed.Tasks))
	}
	want := map[string]dateutil.Urgency{
		"overdue": dateutil.UrgencyOverdue,
		"today":   dateutil.UrgencyToday,
		"soon":    dateutil.UrgencySoon,
	}
	for _, e := range feed.Tasks {
		if e.Urgency != want[e.Task.Title] {
			t.Fatalf("%s: expected %v, got %v", e.Task.Title, want[e.Task.Title], e.Urgency)
		}
		if e.Color != e.Urgency.Color() {
			t.Fatalf("%s: color mismatch", e.Task.Title)
		}
	}
	// Ordered by due date: the overdue entry leads.
	if feed.Tasks[0].Task.Title != "overdue" || feed.Tasks[0].DaysRemaining != -5 {
		t.Fatalf("unexpected first entry: %+v", feed.Tasks[0])
	}
}

func TestBuildFeedIncludesExpirations(t *testing.T) {
	s, n := setup(t)
	ctx := context.Background()

	if _, err := s.CreateExpiration(ctx, model.Expiration{Title: "Vto. IIBB", DueDate: "2024-03-17", CreatorID: "u"}); err != nil {
		t.Fatalf("create expiration: %v", err)
	}
	// Outside the lead window.
	if _, err := s.CreateExpiration(ctx, model.Expiration{Title: "lejos", DueDate: "2024-04-15", CreatorID: "u"}); err != nil {
		t.Fatalf("create expiration: %v", err)
	}

	feed, err := n.Build(ctx)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(feed.Expirations) != 1 || feed.Expirations[0].Expiration.Title != "Vto. IIBB" {
		t.Fatalf("unexpected expirations: %+v", feed.Expirations)
	}
	if feed.Expirations[0].Urgency != dateutil.UrgencySoon {
		t.Fatalf("expected soon urgency, got %v", feed.Expirations[0].Urgency)
	}
}

func TestPostponeActions(t *testing.T) {
	s, n := setup(t)
	ctx := context.Background()

	// Friday: next business day is Monday.
	friday := create(t, s, model.Task{Title: "f", DueDate: "2024-03-15", CreatorID: "u"})
	got, err := n.Postpone(ctx, friday.ID, PostponeNextBusinessDay)
	if err != nil {
		t.Fatalf("postpone: %v", err)
	}
	if got.DueDate != "2024-03-18" {
		t.Fatalf("expected Monday, got %s", got.DueDate)
	}

	oneDay := create(t, s, model.Task{Title: "d", DueDate: "2024-03-20", CreatorID: "u"})
	got, err = n.Postpone(ctx, oneDay.ID, PostponeOneDay)
	if err != nil || got.DueDate != "2024-03-21" {
		t.Fatalf("one day: %v %s", err, got.DueDate)
	}

	week := create(t, s, model.Task{Title: "w", DueDate: "2024-03-20", CreatorID: "u"})
	got, err = n.Postpone(ctx, week.ID, PostponeOneWeek)
	if err != nil || got.DueDate != "2024-03-27" {
		t.Fatalf("one week: %v %s", err, got.DueDate)
	}

	// Overdue tasks postpone relative to today.
	overdue := create(t, s, model.Task{Title: "o", DueDate: "2024-03-01", CreatorID: "u"})
	got, err = n.Postpone(ctx, overdue.ID, PostponeOneDay)
	if err != nil || got.DueDate != "2024-03-16" {
		t.Fatalf("overdue postpone: %v %s", err, got.DueDate)
	}
	if got.OriginalDueDate == nil || *got.OriginalDueDate != "2024-03-01" {
		t.Fatalf("original due date should survive: %+v", got)
	}

	if _, err := n.Postpone(ctx, friday.ID, "sine_die"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestParsePostponeAction(t *testing.T) {
	for _, ok := range []string{"one_day", "next_business_day", "one_week"} {
		if _, err := ParsePostponeAction(ok); err != nil {
			t.Fatalf("ParsePostponeAction(%q): %v", ok, err)
		}
	}
	if _, err := ParsePostponeAction("manyana"); err == nil {
		t.Fatalf("expected error")
	}
}
