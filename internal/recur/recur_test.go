package recur

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"plazo/internal/model"
	"plazo/internal/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 5, 0, 0, time.UTC)
}

func activeDef(typ model.RecurrenceType) model.RecurringTask {
	return model.RecurringTask{
		Title:     "r",
		Type:      typ,
		DueTime:   "18:00",
		StartDate: "2024-01-01",
		Active:    true,
	}
}

func TestShouldGenerateWindowGuards(t *testing.T) {
	// Friday.
	today := day(2024, time.March, 15)

	r := activeDef(model.RecurWeekdays)
	if !ShouldGenerate(r, today) {
		t.Fatalf("active weekdays definition should generate on a Friday")
	}

	r.Active = false
	if ShouldGenerate(r, today) {
		t.Fatalf("paused definition should not generate")
	}

	r = activeDef(model.RecurWeekdays)
	r.StartDate = "2024-04-01"
	if ShouldGenerate(r, today) {
		t.Fatalf("definition before its start date should not generate")
	}

	r = activeDef(model.RecurWeekdays)
	end := "2024-03-01"
	r.EndDate = &end
	if ShouldGenerate(r, today) {
		t.Fatalf("definition past its end date should not generate")
	}

	r = activeDef(model.RecurWeekdays)
	last := "2024-03-15"
	r.LastGeneratedDate = &last
	if ShouldGenerate(r, today) {
		t.Fatalf("same-day duplicate generation should be blocked")
	}
}

func TestShouldGenerateWeekdays(t *testing.T) {
	r := activeDef(model.RecurWeekdays)
	if ShouldGenerate(r, day(2024, time.March, 16)) || ShouldGenerate(r, day(2024, time.March, 17)) {
		t.Fatalf("weekends should not generate")
	}
	if !ShouldGenerate(r, day(2024, time.March, 18)) {
		t.Fatalf("Monday should generate")
	}
}

func TestShouldGenerateWeekly(t *testing.T) {
	r := activeDef(model.RecurWeekly)
	r.DaysOfWeek = []int{1, 3, 5} // Mon, Wed, Fri

	if !ShouldGenerate(r, day(2024, time.March, 15)) { // Friday
		t.Fatalf("Friday is in the set")
	}
	if ShouldGenerate(r, day(2024, time.March, 14)) { // Thursday
		t.Fatalf("Thursday is not in the set")
	}
	// Sunday maps to ISO 7.
	r.DaysOfWeek = []int{7}
	if !ShouldGenerate(r, day(2024, time.March, 17)) {
		t.Fatalf("Sunday should map to ISO weekday 7")
	}

	r.DaysOfWeek = nil
	if ShouldGenerate(r, day(2024, time.March, 15)) {
		t.Fatalf("weekly with no days should never generate")
	}
}

func TestShouldGenerateMonthlyClamps(t *testing.T) {
	r := activeDef(model.RecurMonthly)
	r.DayOfMonth = 31

	if !ShouldGenerate(r, day(2024, time.March, 31)) {
		t.Fatalf("day 31 should generate on March 31")
	}
	// April has 30 days: clamp to the last day.
	if !ShouldGenerate(r, day(2024, time.April, 30)) {
		t.Fatalf("day 31 should clamp to April 30")
	}
	if ShouldGenerate(r, day(2024, time.April, 29)) {
		t.Fatalf("April 29 should not generate")
	}
	// Leap February.
	if !ShouldGenerate(r, day(2024, time.February, 29)) {
		t.Fatalf("day 31 should clamp to February 29 in a leap year")
	}
}

func TestShouldGenerateCustom(t *testing.T) {
	r := activeDef(model.RecurCustom)
	r.CustomDates = []string{"2024-03-15", "2024-06-01"}

	if !ShouldGenerate(r, day(2024, time.March, 15)) {
		t.Fatalf("listed date should generate")
	}
	if ShouldGenerate(r, day(2024, time.March, 16)) {
		t.Fatalf("unlisted date should not generate")
	}
}

func TestGeneratorRunOnce(t *testing.T) {
	ctx := context.Background()
	now := day(2024, time.March, 15) // Friday
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "plazo.sqlite"),
		store.WithNow(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	def := activeDef(model.RecurWeekdays)
	def.Title = "Arqueo de caja"
	def.CreatorID = "user-admin"
	created, err := s.CreateRecurring(ctx, def)
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}

	g := NewGenerator(s, WithNow(func() time.Time { return now }))
	n, err := g.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 generated task, got %d", n)
	}

	tasks, err := s.ListTasks(ctx, store.TaskFilter{})
	if err != nil || len(tasks) != 1 {
		t.Fatalf("list tasks: %v %+v", err, tasks)
	}
	got := tasks[0]
	if got.Title != "Arqueo de caja" || got.DueDate != "2024-03-15" {
		t.Fatalf("unexpected generated task: %+v", got)
	}
	if got.RecurringID == nil || *got.RecurringID != created.ID {
		t.Fatalf("generated task should point at its definition: %+v", got)
	}
	if got.DueTime == nil || *got.DueTime != "18:00" {
		t.Fatalf("due time should carry over: %+v", got)
	}

	// A second run on the same day is a no-op.
	n, err = g.RunOnce(ctx)
	if err != nil || n != 0 {
		t.Fatalf("duplicate-day run should generate nothing: %v %d", err, n)
	}
}
