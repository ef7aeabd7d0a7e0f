package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plazo/internal/model"
)

// CreateTag inserts a tag. Colors are stored as given; the UI expects
// #RRGGBB.
func (s *Store) CreateTag(ctx context.Context, name, color string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, errors.New("store: tag name is required")
	}
	if color == "" {
		color = "#6366f1"
	}
	id, err := newRandomID("tag")
	if err != nil {
		return model.Tag{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tags (tag_id, name, color) VALUES (?, ?, ?)`, id, name, color)
	if err != nil {
		return model.Tag{}, fmt.Errorf("store: create tag: %w", err)
	}
	return model.Tag{ID: id, Name: name, Color: color}, nil
}

// EnsureTag returns the tag with the given name, creating it with the
// default color when it does not exist yet.
func (s *Store) EnsureTag(ctx context.Context, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, errors.New("store: tag name is required")
	}
	var t model.Tag
	err := s.db.QueryRowContext(ctx, `SELECT tag_id, name, color FROM tags WHERE name = ?`, name).
		Scan(&t.ID, &t.Name, &t.Color)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Tag{}, fmt.Errorf("store: ensure tag: %w", err)
	}
	return s.CreateTag(ctx, name, "")
}

func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag_id, name, color FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()
	var out []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TagTask attaches an existing tag to a task.
func (s *Store) TagTask(ctx context.Context, taskID, tagID string) error {
	return s.tagTask(ctx, taskID, tagID)
}

func (s *Store) tagTask(ctx context.Context, taskID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tagID)
	if err != nil {
		return fmt.Errorf("store: tag task: %w", err)
	}
	return nil
}

func (s *Store) taskTags(ctx context.Context, taskID string) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT t.tag_id, t.name, t.color
		FROM tags t JOIN task_tags tt ON tt.tag_id = t.tag_id
		WHERE tt.task_id = ? ORDER BY t.name`, taskID)
	if err != nil {
		return nil, fmt.Errorf("store: task tags: %w", err)
	}
	defer rows.Close()
	var out []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
