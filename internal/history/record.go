// Package history persists a local log of catalog reads, so past runs
// can be compared without hitting the API again.
package history

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// RunRecord represents one persisted catalog read.
type RunRecord struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Project    string    `json:"project"`
	TypePrefix string    `json:"type_prefix,omitempty"`
	Format     string    `json:"format,omitempty"`
	Metrics    int       `json:"metrics"`
	Truncated  bool      `json:"truncated"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
