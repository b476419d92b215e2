// Package dashboard is the flow-monitor TUI: a bubbletea program that
// polls the Cache Gateway for the orchestration models of a watched set
// of orchestrated flows plus processor health, adapted from the
// teacher's internal/tui/dashboard apply-progress monitor — the same
// spinner/tick/selectable-list shape now rendering flow/step status
// instead of local pipeline-apply progress.
package dashboard

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// ModelProvider loads the C3 document for a watched orchestrated flow.
// Implemented by *orchestration.ModelStore in production.
type ModelProvider interface {
	Load(ctx context.Context, orchestratedFlowID entity.ID) (*cachemodel.Model, error)
}

// HealthProvider reports the last known health of a processor composite
// key. Implemented by *health.Monitor in production.
type HealthProvider interface {
	Status(ctx context.Context, processorKey string) (ports.HealthEntry, error)
}

// FlowSnapshot is one watched flow's last polled state; Err is set when
// that poll failed to load the model.
type FlowSnapshot struct {
	FlowID       entity.ID
	Model        *cachemodel.Model
	Err          error
	StepCount    int
	TerminalCount int
}
