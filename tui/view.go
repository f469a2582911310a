package tui

import (
	"fmt"
	"strings"

	"storyreel/types"
)

const maxLogLines = 12

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎬 storyreel monitor"))
	b.WriteString("\n\n")

	b.WriteString(m.stateText())
	b.WriteString("\n\n")

	if st := m.Status; st != nil {
		if len(st.Published) > 0 {
			var parts strings.Builder
			for _, p := range st.Published {
				fmt.Fprintf(&parts, "%s\n%s\n", p.Title, InfoStyle.Render(p.URL))
			}
			b.WriteString(BoxStyle.Render(strings.TrimRight(parts.String(), "\n")))
			b.WriteString("\n\n")
		}
		if sum := st.LastSummary; sum != nil && st.State != types.StateRunning {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("📊 Last run: %d posts, %d parts published, %d failed",
				sum.PostsProcessed, sum.PartsPublished, sum.PartsFailed)))
			b.WriteString("\n\n")
		}
		if logs := st.Logs; len(logs) > 0 {
			if len(logs) > maxLogLines {
				logs = logs[len(logs)-maxLogLines:]
			}
			b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
			b.WriteString("\n")
			for _, l := range logs {
				b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s %s", l.Timestamp.Format("15:04:05"), l.Message)))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if m.Notice != "" {
		b.WriteString(StatusStyle.Render(m.Notice))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render("Press 'r' to start a run | Press 'q' or Ctrl+C to quit"))
	return b.String()
}

func (m Model) stateText() string {
	if !m.Connected {
		msg := "❌ Not connected to server"
		if m.Err != nil {
			msg += ": " + m.Err.Error()
		}
		return ErrorStyle.Render(msg)
	}
	st := m.Status
	if st == nil {
		return InfoStyle.Render("Waiting for status...")
	}

	switch st.State {
	case types.StateIdle:
		return HighlightStyle.Render("👋 Idle")
	case types.StateRunning:
		p := st.Progress
		line := fmt.Sprintf("⏳ Run %s", st.RunID)
		if p.Post != "" {
			line += fmt.Sprintf(" | %s", p.Post)
		}
		if p.Chunk >= 0 {
			line += fmt.Sprintf(" | part %d", p.Chunk+1)
		}
		if p.Stage != "" {
			line += " | " + p.Stage
		}
		return StatusStyle.Render(line)
	case types.StateComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case types.StateError:
		return ErrorStyle.Render("❌ Error: " + st.Error)
	default:
		return string(st.State)
	}
}
