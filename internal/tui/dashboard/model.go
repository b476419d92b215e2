package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

const refreshInterval = 3 * time.Second

// Model is the bubbletea state for the flow-monitor dashboard.
type Model struct {
	models  ModelProvider
	health  HealthProvider
	flowIDs []entity.ID

	snapshots      map[entity.ID]FlowSnapshot
	processorHealth map[string]ports.HealthEntry

	cursor   int
	spinner  spinner.Model
	loading  bool
	lastPoll time.Time
	quitting bool
}

// New constructs a Model watching flowIDs, polling models and health
// through the supplied providers.
func New(models ModelProvider, health HealthProvider, flowIDs []entity.ID) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		models:          models,
		health:          health,
		flowIDs:         flowIDs,
		snapshots:       make(map[entity.ID]FlowSnapshot, len(flowIDs)),
		processorHealth: make(map[string]ports.HealthEntry),
		spinner:         s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), tickCmd())
}

type refreshResultMsg struct {
	snapshots map[entity.ID]FlowSnapshot
	health    map[string]ports.HealthEntry
	at        time.Time
}

type tickMsg struct{}

// refreshCmd polls every watched flow's model and every processor named
// in that model, merging the results into a single refreshResultMsg.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snapshots := make(map[entity.ID]FlowSnapshot, len(m.flowIDs))
		health := make(map[string]ports.HealthEntry)

		for _, flowID := range m.flowIDs {
			model, err := m.models.Load(ctx, flowID)
			snap := FlowSnapshot{FlowID: flowID, Model: model, Err: err}
			if model != nil {
				snap.StepCount = len(model.StepEntities)
				for _, step := range model.StepEntities {
					if step.IsTerminal() {
						snap.TerminalCount++
					}
				}
				for _, proc := range model.Processors {
					key := proc.CompositeKey()
					if _, ok := health[key]; ok {
						continue
					}
					if entry, err := m.health.Status(ctx, key); err == nil {
						health[key] = entry
					}
				}
			}
			snapshots[flowID] = snap
		}

		return refreshResultMsg{snapshots: snapshots, health: health, at: time.Now()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}
