package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plazo/internal/dateutil"
	"plazo/internal/model"
)

const taskColumns = `task_id, title, description, priority, status,
	due_date, due_time, planned_start, original_due_date,
	parent_id, enabled, time_spent_minutes, completion_comment,
	creator_id, assignee_id, recurring_id,
	created_at_unixms, completed_at_unixms, updated_at_unixms`

// CreateTask inserts t, assigning its id and timestamps. Children linked
// to a parent start disabled until the parent completes.
func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return model.Task{}, errors.New("store: task title is required")
	}
	if _, err := dateutil.ParseDate(t.DueDate); err != nil {
		return model.Task{}, fmt.Errorf("store: invalid due date %q", t.DueDate)
	}
	if t.Priority == "" {
		t.Priority = model.PriorityNormal
	}
	if !t.Priority.Valid() {
		return model.Task{}, fmt.Errorf("store: invalid priority %q", t.Priority)
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if !t.Status.Valid() {
		return model.Task{}, fmt.Errorf("store: invalid status %q", t.Status)
	}

	id, err := newRandomID("task")
	if err != nil {
		return model.Task{}, err
	}
	t.ID = id
	now := s.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Enabled = t.ParentID == nil

	var completedAt any
	if t.CompletedAt != nil {
		completedAt = unixMS(*t.CompletedAt)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status),
		t.DueDate, nullStr(t.DueTime), nullStr(t.PlannedStart), nullStr(t.OriginalDueDate),
		nullStr(t.ParentID), t.Enabled, t.TimeSpentMinutes, t.CompletionComment,
		t.CreatorID, nullStr(t.AssigneeID), nullStr(t.RecurringID),
		unixMS(t.CreatedAt), completedAt, unixMS(t.UpdatedAt))
	if err != nil {
		return model.Task{}, fmt.Errorf("store: create task: %w", err)
	}
	for _, tag := range t.Tags {
		if err := s.tagTask(ctx, t.ID, tag.ID); err != nil {
			return model.Task{}, err
		}
	}
	return t, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, err
	}
	t.Tags, err = s.taskTags(ctx, t.ID)
	return t, err
}

// TaskFilter narrows ListTasks. Zero values mean "no constraint".
type TaskFilter struct {
	Status    model.Status
	CreatorID string
	DateRange dateutil.Range
	// OpenOnly drops Completed and Anulado tasks.
	OpenOnly bool
}

// ListTasks returns tasks matching the filter, due date ascending.
func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.CreatorID != "" {
		q += ` AND creator_id = ?`
		args = append(args, f.CreatorID)
	}
	if f.DateRange.Active() {
		q += ` AND due_date >= ? AND due_date <= ?`
		args = append(args, f.DateRange.Start, f.DateRange.End)
	}
	if f.OpenOnly {
		q += ` AND status NOT IN (?, ?)`
		args = append(args, string(model.StatusCompleted), string(model.StatusAnulado))
	}
	q += ` ORDER BY due_date ASC, created_at_unixms ASC`
	return s.queryTasks(ctx, q, args...)
}

// SearchTasks matches titles by case-insensitive substring, feeding the
// parent-task picker. Results are capped at limit (default 10).
func (s *Store) SearchTasks(ctx context.Context, query string, limit int) ([]model.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.ReplaceAll(strings.ReplaceAll(query, "%", `\%`), "_", `\_`) + "%"
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE title LIKE ? ESCAPE '\'
		ORDER BY due_date ASC LIMIT ?`, pattern, limit)
}

// DueSoon returns open, enabled tasks due within leadDays of today
// (inclusive), plus anything already overdue. Feeds the notification
// modal. Tasks whose creator turned notifications off are skipped;
// tasks without a known creator always surface.
func (s *Store) DueSoon(ctx context.Context, today string, leadDays int) ([]model.Task, error) {
	end, err := dateutil.ParseDate(today)
	if err != nil {
		return nil, fmt.Errorf("store: invalid today %q", today)
	}
	horizon := dateutil.FormatDate(end.AddDate(0, 0, leadDays))
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
		LEFT JOIN users ON users.user_id = tasks.creator_id
		WHERE status NOT IN (?, ?) AND enabled = 1 AND due_date <= ?
			AND (users.user_id IS NULL OR users.notifications_enabled = 1)
		ORDER BY due_date ASC`,
		string(model.StatusCompleted), string(model.StatusAnulado), horizon)
}

// ToggleTask flips Pending <-> Completed, stamping or clearing the
// completion time. Completing a task enables its disabled children.
func (s *Store) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	now := s.now().UTC()
	if t.Status == model.StatusCompleted {
		t.Status = model.StatusPending
		t.CompletedAt = nil
		_, err = s.db.ExecContext(ctx, `UPDATE tasks
			SET status = ?, completed_at_unixms = NULL, updated_at_unixms = ?
			WHERE task_id = ?`, string(t.Status), unixMS(now), id)
	} else {
		t.Status = model.StatusCompleted
		t.CompletedAt = &now
		_, err = s.db.ExecContext(ctx, `UPDATE tasks
			SET status = ?, completed_at_unixms = ?, updated_at_unixms = ?
			WHERE task_id = ?`, string(t.Status), unixMS(now), unixMS(now), id)
		if err == nil {
			// Unblock children waiting on this task.
			_, err = s.db.ExecContext(ctx, `UPDATE tasks SET enabled = 1, updated_at_unixms = ?
				WHERE parent_id = ? AND enabled = 0`, unixMS(now), id)
		}
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("store: toggle task: %w", err)
	}
	t.UpdatedAt = now
	return t, nil
}

// SetStatus moves a task to an explicit status.
func (s *Store) SetStatus(ctx context.Context, id string, status model.Status, comment string) error {
	if !status.Valid() {
		return fmt.Errorf("store: invalid status %q", status)
	}
	now := unixMS(s.now().UTC())
	var res sql.Result
	var err error
	if status == model.StatusCompleted {
		res, err = s.db.ExecContext(ctx, `UPDATE tasks
			SET status = ?, completed_at_unixms = ?, completion_comment = ?, updated_at_unixms = ?
			WHERE task_id = ?`, string(status), now, comment, now, id)
	} else {
		res, err = s.db.ExecContext(ctx, `UPDATE tasks
			SET status = ?, completed_at_unixms = NULL, completion_comment = ?, updated_at_unixms = ?
			WHERE task_id = ?`, string(status), comment, now, id)
	}
	if err != nil {
		return fmt.Errorf("store: set status: %w", err)
	}
	return requireRow(res, id)
}

// Postpone moves a task's due date. The first postponement records the
// original due date; later ones leave it untouched.
func (s *Store) Postpone(ctx context.Context, id, newDue string) (model.Task, error) {
	if _, err := dateutil.ParseDate(newDue); err != nil {
		return model.Task{}, fmt.Errorf("store: invalid postpone date %q", newDue)
	}
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	now := s.now().UTC()
	if t.OriginalDueDate == nil {
		orig := t.DueDate
		t.OriginalDueDate = &orig
	}
	t.DueDate = newDue
	t.UpdatedAt = now
	_, err = s.db.ExecContext(ctx, `UPDATE tasks
		SET due_date = ?, original_due_date = ?, updated_at_unixms = ?
		WHERE task_id = ?`, newDue, *t.OriginalDueDate, unixMS(now), id)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: postpone: %w", err)
	}
	return t, nil
}

// SetParent links child under parent and disables the child until the
// parent completes. An empty parent id clears the link and re-enables.
func (s *Store) SetParent(ctx context.Context, childID, parentID string) error {
	now := unixMS(s.now().UTC())
	if strings.TrimSpace(parentID) == "" {
		res, err := s.db.ExecContext(ctx, `UPDATE tasks
			SET parent_id = NULL, enabled = 1, updated_at_unixms = ? WHERE task_id = ?`, now, childID)
		if err != nil {
			return fmt.Errorf("store: clear parent: %w", err)
		}
		return requireRow(res, childID)
	}
	if childID == parentID {
		return errors.New("store: a task cannot be its own parent")
	}
	parent, err := s.GetTask(ctx, parentID)
	if err != nil {
		return err
	}
	// A child task stays blocked while its parent is still open.
	enabled := parent.Status == model.StatusCompleted
	res, err := s.db.ExecContext(ctx, `UPDATE tasks
		SET parent_id = ?, enabled = ?, updated_at_unixms = ? WHERE task_id = ?`,
		parentID, enabled, now, childID)
	if err != nil {
		return fmt.Errorf("store: set parent: %w", err)
	}
	return requireRow(res, childID)
}

// Children lists tasks directly linked under a parent.
func (s *Store) Children(ctx context.Context, parentID string) ([]model.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE parent_id = ? ORDER BY due_date ASC`, parentID)
}

// EventDates returns the distinct due dates carrying at least one open
// task or pending expiration, for marking calendar cells.
func (s *Store) EventDates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT due_date FROM tasks WHERE status NOT IN (?, ?)
		UNION
		SELECT DISTINCT due_date FROM expirations WHERE completed = 0
		ORDER BY 1`,
		string(model.StatusCompleted), string(model.StatusAnulado))
	if err != nil {
		return nil, fmt.Errorf("store: event dates: %w", err)
	}
	defer rows.Close()
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) queryTasks(ctx context.Context, q string, args ...any) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query tasks: %w", err)
	}
	defer rows.Close()
	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		tags, err := s.taskTags(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tags = tags
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	var priority, status string
	var dueTime, plannedStart, originalDue, parentID, assigneeID, recurringID sql.NullString
	var createdAt, updatedAt int64
	var completedAt sql.NullInt64
	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status,
		&t.DueDate, &dueTime, &plannedStart, &originalDue,
		&parentID, &t.Enabled, &t.TimeSpentMinutes, &t.CompletionComment,
		&t.CreatorID, &assigneeID, &recurringID,
		&createdAt, &completedAt, &updatedAt)
	if err != nil {
		return model.Task{}, err
	}
	t.Priority = model.Priority(priority)
	t.Status = model.Status(status)
	t.DueTime = strPtr(dueTime)
	t.PlannedStart = strPtr(plannedStart)
	t.OriginalDueDate = strPtr(originalDue)
	t.ParentID = strPtr(parentID)
	t.AssigneeID = strPtr(assigneeID)
	t.RecurringID = strPtr(recurringID)
	t.CreatedAt = fromUnixMS(createdAt)
	t.UpdatedAt = fromUnixMS(updatedAt)
	t.CompletedAt = timePtr(completedAt)
	return t, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	return nil
}
