package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plazo/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return model.User{}, errors.New("store: username is required")
	}
	if u.Role == "" {
		u.Role = model.RoleUsuario
	}
	id, err := newRandomID("user")
	if err != nil {
		return model.User{}, err
	}
	u.ID = id
	_, err = s.db.ExecContext(ctx, `INSERT INTO users
		(user_id, username, full_name, role, notifications_enabled)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.FullName, string(u.Role), u.NotificationsEnabled)
	if err != nil {
		return model.User{}, fmt.Errorf("store: create user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, username, full_name, role, notifications_enabled
		FROM users WHERE user_id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("store: user %s: %w", id, ErrNotFound)
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, username, full_name, role, notifications_enabled
		FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetNotifications toggles a user's due-soon feed.
func (s *Store) SetNotifications(ctx context.Context, id string, enabled bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET notifications_enabled = ? WHERE user_id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("store: set notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: user %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &role, &u.NotificationsEnabled); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}
