// Package chat serves direct question answering against the knowledge base
// and persists per-workflow chat transcripts.
package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adnanhb/flowrag/internal/db"
)

// Message is one turn in a chat transcript.
type Message struct {
	ID         int64     `json:"id,omitempty"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	Sender     string    `json:"sender"` // "user" or "bot"
	Message    string    `json:"message"`
	ModelUsed  string    `json:"model_used,omitempty"`
	IsWorkflow bool      `json:"is_workflow,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// HistoryStore persists chat transcripts keyed by workflow.
type HistoryStore struct {
	db *db.DB
}

// NewHistoryStore creates a HistoryStore backed by the given database.
func NewHistoryStore(database *db.DB) *HistoryStore {
	return &HistoryStore{db: database}
}

// Save replaces the stored transcript for a workflow with the given
// messages, preserving their order.
func (s *HistoryStore) Save(ctx context.Context, workflowID string, messages []Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chat_messages WHERE workflow_id = ?", workflowID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}

	for _, m := range messages {
		if m.Sender != "user" && m.Sender != "bot" {
			return fmt.Errorf("invalid sender %q", m.Sender)
		}
		var modelUsed sql.NullString
		if m.ModelUsed != "" {
			modelUsed = sql.NullString{String: m.ModelUsed, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_messages (workflow_id, sender, message, model_used, is_workflow)
			VALUES (?, ?, ?, ?, ?)`,
			workflowID, m.Sender, m.Message, modelUsed, boolToInt(m.IsWorkflow),
		)
		if err != nil {
			return fmt.Errorf("inserting chat message: %w", err)
		}
	}

	return tx.Commit()
}

// History returns the stored transcript for a workflow in insertion order.
func (s *HistoryStore) History(ctx context.Context, workflowID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workflow_id, sender, message, model_used, is_workflow, timestamp
		FROM chat_messages WHERE workflow_id = ? ORDER BY id`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			m          Message
			modelUsed  sql.NullString
			isWorkflow int
			ts         string
		)
		if err := rows.Scan(&m.ID, &m.WorkflowID, &m.Sender, &m.Message, &modelUsed, &isWorkflow, &ts); err != nil {
			return nil, err
		}
		if modelUsed.Valid {
			m.ModelUsed = modelUsed.String
		}
		m.IsWorkflow = isWorkflow != 0
		if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
			m.Timestamp = t
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Clear deletes the stored transcript for a workflow.
func (s *HistoryStore) Clear(ctx context.Context, workflowID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM chat_messages WHERE workflow_id = ?", workflowID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
