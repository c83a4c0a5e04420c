// Package execlog records the outcome of every workflow execution, whether
// it succeeded or failed, for later inspection.
package execlog

import "time"

// Entry is one workflow execution record.
type Entry struct {
	ID            string    `json:"id"`
	WorkflowID    string    `json:"workflow_id,omitempty"`
	Query         string    `json:"query"`
	Response      string    `json:"response"`
	ModelUsed     string    `json:"model_used"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	ExecutionTime float64   `json:"execution_time"`
	Timestamp     time.Time `json:"timestamp"`
}
