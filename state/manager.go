// Package state tracks the active run for the API and monitor.
package state

import (
	"fmt"
	"sync"
	"time"

	"storyreel/config"
	"storyreel/types"
)

// Manager holds the run state with thread-safe access. It implements
// orchestrator.Reporter.
type Manager struct {
	mu sync.RWMutex

	currentState types.State
	runID        string
	startedAt    time.Time
	progress     types.Progress
	published    []types.Message
	lastSummary  *types.RunSummary
	lastErr      error

	// Logs (ring buffer)
	logs    []types.LogEntry
	maxLogs int

	now func() time.Time
}

// NewManager creates a new state manager keeping the last maxLogs entries
func NewManager(maxLogs int) *Manager {
	if maxLogs <= 0 {
		maxLogs = config.MaxLogEntries
	}
	return &Manager{
		currentState: types.StateIdle,
		logs:         make([]types.LogEntry, 0, maxLogs),
		maxLogs:      maxLogs,
		now:          time.Now,
	}
}

// TryStart moves the manager into the running state for runID. It fails
// with ErrRunInProgress when a run is already active.
func (m *Manager) TryStart(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentState == types.StateRunning {
		return fmt.Errorf("run %s is active: %w", m.runID, types.ErrRunInProgress)
	}
	m.currentState = types.StateRunning
	m.runID = runID
	m.startedAt = m.now()
	m.progress = types.Progress{Chunk: -1}
	m.published = nil
	m.lastErr = nil
	m.addLogLocked("Run " + runID + " started")
	return nil
}

// Finish records the outcome of the active run
func (m *Manager) Finish(sum types.RunSummary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSummary = &sum
	m.progress = types.Progress{Chunk: -1}
	if err != nil {
		m.currentState = types.StateError
		m.lastErr = err
		m.addLogLocked(fmt.Sprintf("Error: %v", err))
		return
	}
	m.currentState = types.StateComplete
	m.addLogLocked(fmt.Sprintf("Run %s complete: %d parts published, %d failed", sum.RunID, sum.PartsPublished, sum.PartsFailed))
}

// Busy reports whether a run is active
func (m *Manager) Busy() bool {
	return m.GetState() == types.StateRunning
}

// GetState gets the current state (thread-safe)
func (m *Manager) GetState() types.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// Stage records the current post, chunk and stage
func (m *Manager) Stage(post string, chunk int, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = types.Progress{Post: post, Chunk: chunk, Stage: stage}
}

// Published records an announced part
func (m *Manager) Published(msg types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, msg)
	m.addLogLocked("Published " + msg.Title)
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLogLocked(message)
}

// addLogLocked appends to the ring (must hold lock)
func (m *Manager) addLogLocked(message string) {
	m.logs = append(m.logs, types.LogEntry{Timestamp: m.now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// GetStatus returns a snapshot of the current state (thread-safe)
func (m *Manager) GetStatus() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := types.StatusResponse{
		State:     m.currentState,
		RunID:     m.runID,
		Progress:  m.progress,
		Published: append([]types.Message{}, m.published...),
		Logs:      append([]types.LogEntry{}, m.logs...),
	}
	if !m.startedAt.IsZero() {
		started := m.startedAt
		resp.StartedAt = &started
	}
	if m.lastSummary != nil {
		sum := *m.lastSummary
		resp.LastSummary = &sum
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}
