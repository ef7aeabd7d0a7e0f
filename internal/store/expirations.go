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

const expirationColumns = `expiration_id, title, description, due_date,
	completed, completed_at_unixms, creator_id, created_at_unixms`

// CreateExpiration inserts a vencimiento. Any user may create one.
func (s *Store) CreateExpiration(ctx context.Context, e model.Expiration) (model.Expiration, error) {
	if strings.TrimSpace(e.Title) == "" {
		return model.Expiration{}, errors.New("store: expiration title is required")
	}
	if _, err := dateutil.ParseDate(e.DueDate); err != nil {
		return model.Expiration{}, fmt.Errorf("store: invalid due date %q", e.DueDate)
	}
	id, err := newRandomID("exp")
	if err != nil {
		return model.Expiration{}, err
	}
	e.ID = id
	e.CreatedAt = s.now().UTC()
	e.Completed = false
	e.CompletedAt = nil
	_, err = s.db.ExecContext(ctx, `INSERT INTO expirations (`+expirationColumns+`)
		VALUES (?, ?, ?, ?, 0, NULL, ?, ?)`,
		e.ID, e.Title, e.Description, e.DueDate, e.CreatorID, unixMS(e.CreatedAt))
	if err != nil {
		return model.Expiration{}, fmt.Errorf("store: create expiration: %w", err)
	}
	return e, nil
}

func (s *Store) GetExpiration(ctx context.Context, id string) (model.Expiration, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expirationColumns+` FROM expirations WHERE expiration_id = ?`, id)
	e, err := scanExpiration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expiration{}, fmt.Errorf("store: expiration %s: %w", id, ErrNotFound)
	}
	return e, err
}

// ListExpirations returns expirations inside the range (or all, when the
// range is inactive), pending first, due date ascending.
func (s *Store) ListExpirations(ctx context.Context, r dateutil.Range, includeCompleted bool) ([]model.Expiration, error) {
	q := `SELECT ` + expirationColumns + ` FROM expirations WHERE 1=1`
	var args []any
	if r.Active() {
		q += ` AND due_date >= ? AND due_date <= ?`
		args = append(args, r.Start, r.End)
	}
	if !includeCompleted {
		q += ` AND completed = 0`
	}
	q += ` ORDER BY completed ASC, due_date ASC`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list expirations: %w", err)
	}
	defer rows.Close()
	var out []model.Expiration
	for rows.Next() {
		e, err := scanExpiration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CompleteExpiration marks a vencimiento done.
func (s *Store) CompleteExpiration(ctx context.Context, id string) error {
	now := unixMS(s.now().UTC())
	res, err := s.db.ExecContext(ctx, `UPDATE expirations
		SET completed = 1, completed_at_unixms = ? WHERE expiration_id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("store: complete expiration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: expiration %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanExpiration(row scanner) (model.Expiration, error) {
	var e model.Expiration
	var completedAt sql.NullInt64
	var createdAt int64
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.DueDate,
		&e.Completed, &completedAt, &e.CreatorID, &createdAt)
	if err != nil {
		return model.Expiration{}, err
	}
	e.CompletedAt = timePtr(completedAt)
	e.CreatedAt = fromUnixMS(createdAt)
	return e, nil
}
