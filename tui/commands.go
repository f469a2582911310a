package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"storyreel/types"
)

const pollInterval = 500 * time.Millisecond

// StatusUpdateMsg is sent when we receive status from the server
type StatusUpdateMsg struct {
	Status *types.StatusResponse
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// StartRunMsg is sent when the user triggers a run
type StartRunMsg struct {
	Err error
}

func pollStatus(c *Client) tea.Cmd {
	return func() tea.Msg {
		status, err := c.Status(context.Background())
		return StatusUpdateMsg{Status: status, Err: err}
	}
}

func startRun(c *Client) tea.Cmd {
	return func() tea.Msg {
		return StartRunMsg{Err: c.StartRun(context.Background())}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
