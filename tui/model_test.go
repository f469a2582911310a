package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"storyreel/types"
)

func TestUpdate_StatusAndView(t *testing.T) {
	m := NewModel("http://localhost:0")
	status := &types.StatusResponse{
		State:     types.StateRunning,
		RunID:     "r1",
		Progress:  types.Progress{Post: "The lake", Chunk: 1, Stage: "render"},
		Published: []types.Message{{Title: "The lake Pt. 1", URL: "https://x/1.mp4"}},
	}

	next, _ := m.Update(StatusUpdateMsg{Status: status})
	m = next.(Model)
	if !m.Connected {
		t.Fatalf("model not connected after status")
	}
	view := m.View()
	for _, want := range []string{"The lake", "part 2", "render", "The lake Pt. 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	next, _ = m.Update(StatusUpdateMsg{Err: errors.New("connection refused")})
	m = next.(Model)
	if m.Connected || !strings.Contains(m.View(), "Not connected") {
		t.Fatalf("expected disconnected view")
	}
}

func TestUpdate_StartIgnoredWhileRunning(t *testing.T) {
	m := NewModel("http://localhost:0")
	m.Connected = true
	m.Status = &types.StatusResponse{State: types.StateRunning}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd != nil {
		t.Fatalf("run must not be triggered while one is active")
	}
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			_ = json.NewEncoder(w).Encode(types.StatusResponse{State: types.StateComplete, RunID: "r9"})
		case "/api/runs":
			w.WriteHeader(http.StatusConflict)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	st, err := c.Status(t.Context())
	if err != nil || st.RunID != "r9" {
		t.Fatalf("Status = %+v, %v", st, err)
	}
	if err := c.StartRun(t.Context()); !errors.Is(err, types.ErrRunInProgress) {
		t.Fatalf("StartRun = %v; want ErrRunInProgress", err)
	}
}
