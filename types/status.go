package types

import "time"

// State is the run-state machine exposed by the API
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Progress locates the active run within its posts and chunks
type Progress struct {
	Post  string `json:"post,omitempty"`
	Chunk int    `json:"chunk"`
	Stage string `json:"stage,omitempty"`
}

// StatusResponse is the JSON response for GET /api/status
type StatusResponse struct {
	State       State       `json:"state"`
	RunID       string      `json:"run_id,omitempty"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	Progress    Progress    `json:"progress"`
	Published   []Message   `json:"published"`
	LastSummary *RunSummary `json:"last_summary,omitempty"`
	Logs        []LogEntry  `json:"logs"`
	Error       string      `json:"error,omitempty"`
}
