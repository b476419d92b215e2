package dashboard

import (
	"fmt"
	"strings"

	"github.com/flowmesh-io/orchestrator/internal/ports"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("flow monitor"))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if len(m.flowIDs) == 0 {
		b.WriteString("no orchestrated flows watched\n")
	}

	for i, id := range m.flowIDs {
		line := renderFlowLine(m.snapshots[id], m.processorHealth)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if !m.lastPoll.IsZero() {
		b.WriteString(fmt.Sprintf("\nlast refresh: %s\n", m.lastPoll.Format("15:04:05")))
	}

	b.WriteString(helpStyle.Render("↑/↓ select · r refresh · q quit"))
	return b.String()
}

func renderFlowLine(snap FlowSnapshot, health map[string]ports.HealthEntry) string {
	if snap.Err != nil {
		return fmt.Sprintf("%s  %s", snap.FlowID, errStyle.Render(snap.Err.Error()))
	}
	if snap.Model == nil {
		return fmt.Sprintf("%s  (no data)", snap.FlowID)
	}

	status := fmt.Sprintf("%d/%d steps terminal", snap.TerminalCount, snap.StepCount)
	if snap.Model.Cancelled {
		status = cancelledStyle.Render(status + " · cancelled")
	}

	badges := make([]string, 0, len(snap.Model.Processors))
	for _, proc := range snap.Model.Processors {
		key := proc.CompositeKey()
		entry, ok := health[key]
		if !ok {
			badges = append(badges, unknownStyle.Render(key+":?"))
			continue
		}
		switch entry.Status {
		case ports.HealthHealthy:
			badges = append(badges, healthyStyle.Render(key+":up"))
		case ports.HealthUnhealthy:
			badges = append(badges, unhealthyStyle.Render(key+":down"))
		default:
			badges = append(badges, unknownStyle.Render(key+":?"))
		}
	}

	line := fmt.Sprintf("%s  %s", snap.FlowID, status)
	if len(badges) > 0 {
		line += "  [" + strings.Join(badges, " ") + "]"
	}
	return line
}
