package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"plazo/internal/dateutil"
	"plazo/internal/model"
)

const recurringColumns = `recurring_id, title, description, priority, type,
	days_of_week, day_of_month, custom_dates, due_time, start_date, end_date,
	active, last_generated_date, creator_id, created_at_unixms`

// CreateRecurring inserts a recurring task definition.
func (s *Store) CreateRecurring(ctx context.Context, r model.RecurringTask) (model.RecurringTask, error) {
	if strings.TrimSpace(r.Title) == "" {
		return model.RecurringTask{}, errors.New("store: recurring title is required")
	}
	if !r.Type.Valid() {
		return model.RecurringTask{}, fmt.Errorf("store: invalid recurrence type %q", r.Type)
	}
	if _, err := dateutil.ParseDate(r.StartDate); err != nil {
		return model.RecurringTask{}, fmt.Errorf("store: invalid start date %q", r.StartDate)
	}
	if r.Priority == "" {
		r.Priority = model.PriorityNormal
	}
	if r.DueTime == "" {
		r.DueTime = "14:00"
	}
	id, err := newRandomID("recur")
	if err != nil {
		return model.RecurringTask{}, err
	}
	r.ID = id
	r.CreatedAt = s.now().UTC()

	custom := ""
	if len(r.CustomDates) > 0 {
		b, err := json.Marshal(r.CustomDates)
		if err != nil {
			return model.RecurringTask{}, err
		}
		custom = string(b)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO recurring_tasks (`+recurringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		r.ID, r.Title, r.Description, string(r.Priority), string(r.Type),
		joinInts(r.DaysOfWeek), r.DayOfMonth, custom, r.DueTime, r.StartDate, nullStr(r.EndDate),
		r.Active, r.CreatorID, unixMS(r.CreatedAt))
	if err != nil {
		return model.RecurringTask{}, fmt.Errorf("store: create recurring: %w", err)
	}
	return r, nil
}

// ListRecurring returns definitions, optionally only active ones.
func (s *Store) ListRecurring(ctx context.Context, activeOnly bool) ([]model.RecurringTask, error) {
	q := `SELECT ` + recurringColumns + ` FROM recurring_tasks`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY title`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list recurring: %w", err)
	}
	defer rows.Close()
	var out []model.RecurringTask
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkGenerated records the date a definition last produced a task,
// guarding against duplicate generation on the same day.
func (s *Store) MarkGenerated(ctx context.Context, id, date string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recurring_tasks
		SET last_generated_date = ? WHERE recurring_id = ?`, date, id)
	if err != nil {
		return fmt.Errorf("store: mark generated: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: recurring %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetRecurringActive pauses or resumes a definition.
func (s *Store) SetRecurringActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recurring_tasks SET active = ? WHERE recurring_id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("store: set recurring active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: recurring %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanRecurring(row scanner) (model.RecurringTask, error) {
	var r model.RecurringTask
	var priority, typ, daysOfWeek, custom string
	var endDate, lastGenerated sql.NullString
	var createdAt int64
	err := row.Scan(&r.ID, &r.Title, &r.Description, &priority, &typ,
		&daysOfWeek, &r.DayOfMonth, &custom, &r.DueTime, &r.StartDate, &endDate,
		&r.Active, &lastGenerated, &r.CreatorID, &createdAt)
	if err != nil {
		return model.RecurringTask{}, err
	}
	r.Priority = model.Priority(priority)
	r.Type = model.RecurrenceType(typ)
	r.DaysOfWeek = splitInts(daysOfWeek)
	if custom != "" {
		if err := json.Unmarshal([]byte(custom), &r.CustomDates); err != nil {
			return model.RecurringTask{}, fmt.Errorf("store: custom dates for %s: %w", r.ID, err)
		}
	}
	r.EndDate = strPtr(endDate)
	r.LastGeneratedDate = strPtr(lastGenerated)
	r.CreatedAt = fromUnixMS(createdAt)
	return r, nil
}

// joinInts renders "1,3,5" style weekday lists.
func joinInts(ns []int) string {
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
