package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/adnanhb/flowrag/internal/db"
)

// ErrNotFound is returned when a workflow ID does not exist.
var ErrNotFound = errors.New("workflow not found")

// Workflow is a saved workflow definition.
type Workflow struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListItem is the summary row returned by List; the definition is omitted.
type ListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides persistence for saved workflows.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save persists a workflow definition and returns its generated ID. The
// definition must be valid JSON.
func (s *Store) Save(ctx context.Context, name string, definition json.RawMessage) (string, error) {
	if !json.Valid(definition) {
		return "", fmt.Errorf("workflow definition is not valid JSON")
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO workflows (id, name, definition) VALUES (?, ?, ?)",
		id, name, string(definition),
	)
	if err != nil {
		return "", fmt.Errorf("inserting workflow: %w", err)
	}
	return id, nil
}

// Get retrieves a saved workflow by ID.
func (s *Store) Get(ctx context.Context, id string) (*Workflow, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, definition, created_at FROM workflows WHERE id = ?", id)

	var (
		w          Workflow
		definition string
		ts         string
	)
	err := row.Scan(&w.ID, &w.Name, &definition, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading workflow: %w", err)
	}

	w.Definition = json.RawMessage(definition)
	w.CreatedAt = parseTimestamp(ts)
	return &w, nil
}

// List returns all saved workflows, newest first, without their definitions.
func (s *Store) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM workflows ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var (
			item ListItem
			ts   string
		)
		if err := rows.Scan(&item.ID, &item.Name, &ts); err != nil {
			return nil, err
		}
		item.CreatedAt = parseTimestamp(ts)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes a saved workflow. Deleting an unknown ID returns
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting workflow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
