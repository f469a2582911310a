// Package tui is a terminal monitor for a running storyreel server.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"storyreel/types"
)

// Model represents the TUI client state (thin client)
type Model struct {
	client *Client

	// Synced from the server
	Status *types.StatusResponse

	Connected bool
	Err       error
	Notice    string
}

// NewModel creates a new TUI model
func NewModel(serverURL string) Model {
	return Model{client: NewClient(serverURL)}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(pollStatus(m.client), tickCmd())
}

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "R":
			if m.Connected && (m.Status == nil || m.Status.State != types.StateRunning) {
				m.Notice = "Starting run..."
				return m, startRun(m.client)
			}
		}
	case TickMsg:
		return m, tea.Batch(pollStatus(m.client), tickCmd())
	case StatusUpdateMsg:
		m.Connected = msg.Err == nil
		m.Err = msg.Err
		if msg.Err == nil {
			m.Status = msg.Status
		}
	case StartRunMsg:
		if msg.Err != nil {
			m.Notice = "Start failed: " + msg.Err.Error()
		} else {
			m.Notice = "Run started"
		}
	}
	return m, nil
}

// Run starts the monitor against serverURL and blocks until it quits
func Run(serverURL string) error {
	_, err := tea.NewProgram(NewModel(serverURL), tea.WithAltScreen()).Run()
	return err
}
