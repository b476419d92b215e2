package dashboard

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.flowIDs)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.refreshCmd()
		}
		return m, nil

	case tickMsg:
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case refreshResultMsg:
		m.loading = false
		m.lastPoll = msg.at
		for id, snap := range msg.snapshots {
			m.snapshots[id] = snap
		}
		for key, entry := range msg.health {
			m.processorHealth[key] = entry
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
