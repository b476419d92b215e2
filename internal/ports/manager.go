package ports

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

// OrchestratedFlowResolver loads an OrchestratedFlow and its full entity
// graph from the external CRUD managers (§6 HTTP surface), ready to be
// folded into a cachemodel.Model by the scheduler. This is the one place
// the core orchestration engine calls out to the otherwise out-of-scope
// entity managers.
type OrchestratedFlowResolver interface {
	ResolveOrchestratedFlow(ctx context.Context, orchestratedFlowID entity.ID) (ResolvedFlow, error)
}

// ResolvedFlow is the flattened graph needed to build a cachemodel.Model:
// every step the orchestrated flow's workflow lists in StepIDs, its bound
// processor, and the assignments targeting it.
type ResolvedFlow struct {
	OrchestratedFlow entity.OrchestratedFlow
	Workflow         entity.Workflow
	Steps            map[entity.ID]entity.Step
	Processors       map[entity.ID]entity.Processor
	Assignments      map[entity.ID][]entity.Assignment
}

// ToModel folds a ResolvedFlow into the C3 document the scheduler writes
// to the Cache Gateway.
func (r ResolvedFlow) ToModel(builtAt int64) *cachemodel.Model {
	return &cachemodel.Model{
		StepEntities: r.Steps,
		Assignments:  r.Assignments,
		Processors:   r.Processors,
		BuiltAt:      builtAt,
		Version:      1,
	}
}
