package execlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/adnanhb/flowrag/internal/db"
)

// Store provides persistence for execution log entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new execution entry. If entry.ID is empty a UUID is
// generated; an empty ModelUsed is recorded as "unknown".
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ModelUsed == "" {
		entry.ModelUsed = "unknown"
	}

	var workflowID, errMsg sql.NullString
	if entry.WorkflowID != "" {
		workflowID = sql.NullString{String: entry.WorkflowID, Valid: true}
	}
	if entry.Error != "" {
		errMsg = sql.NullString{String: entry.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_logs (
			id, workflow_id, query, response, model_used,
			success, error, execution_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		workflowID,
		entry.Query,
		entry.Response,
		entry.ModelUsed,
		boolToInt(entry.Success),
		errMsg,
		entry.ExecutionTime,
	)
	if err != nil {
		return fmt.Errorf("inserting execution log: %w", err)
	}
	return nil
}

// QueryFilter controls which execution entries are returned by Query.
type QueryFilter struct {
	WorkflowID  string
	SuccessOnly bool
	Since       *time.Time
	Limit       int
	Offset      int
}

// Query returns execution entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.WorkflowID != "" {
		clauses = append(clauses, "workflow_id = ?")
		args = append(args, filter.WorkflowID)
	}
	if filter.SuccessOnly {
		clauses = append(clauses, "success = 1")
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, workflow_id, query, response, model_used, success, error, execution_time, timestamp FROM execution_logs"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying execution logs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Count returns the total number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM execution_logs").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting execution logs: %w", err)
	}
	return n, nil
}

// DeleteBefore removes entries older than the given time. Returns the number
// of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM execution_logs WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old execution logs: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var (
		e                  Entry
		workflowID, errMsg sql.NullString
		success            int
		ts                 string
	)

	err := rows.Scan(
		&e.ID, &workflowID, &e.Query, &e.Response, &e.ModelUsed,
		&success, &errMsg, &e.ExecutionTime, &ts,
	)
	if err != nil {
		return nil, err
	}

	e.Success = success != 0
	if workflowID.Valid {
		e.WorkflowID = workflowID.String
	}
	if errMsg.Valid {
		e.Error = errMsg.String
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		e.Timestamp = t
	} else if t, parseErr := time.Parse("2006-01-02T15:04:05Z", ts); parseErr == nil {
		e.Timestamp = t
	}

	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
