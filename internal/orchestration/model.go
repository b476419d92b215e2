// Package orchestration implements the orchestration engine: the
// Orchestration Cache Model store (C3), the Scheduler (C4), and the
// shared Activity-Completion/Activity-Failure consumer algorithm (C5/C6).
package orchestration

import (
	"context"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

const defaultModelMapName = "orchestration-data"

// ModelStore reads and writes the C3 document in the Cache Gateway. It is
// the single place that knows the document's map name and serialization.
type ModelStore struct {
	cache   ports.CacheGateway
	mapName string
	ttl     time.Duration
}

// NewModelStore constructs a ModelStore. ttl governs how long an
// orchestration model survives with no renewed write; the scheduler
// refreshes it at flow start and consumers never extend it, matching
// spec.md §4.3 ("expired by TTL when the flow has no live branches").
func NewModelStore(cache ports.CacheGateway, mapName string, ttl time.Duration) *ModelStore {
	if mapName == "" {
		mapName = defaultModelMapName
	}
	return &ModelStore{cache: cache, mapName: mapName, ttl: ttl}
}

// Put writes model under orchestratedFlowID, called once by the
// scheduler at flow start.
func (s *ModelStore) Put(ctx context.Context, orchestratedFlowID entity.ID, model *cachemodel.Model) error {
	data, err := model.MarshalBinary()
	if err != nil {
		return domainerrors.New(domainerrors.CodeInternal, "marshal orchestration cache model", err)
	}
	return s.cache.Set(ctx, s.mapName, orchestratedFlowID.String(), data, s.ttl)
}

// Load fetches the model for orchestratedFlowID. Absence maps to
// OrchestrationModelMissing, a fatal (non-retryable) error per spec.md
// §4.3's strict precondition.
func (s *ModelStore) Load(ctx context.Context, orchestratedFlowID entity.ID) (*cachemodel.Model, error) {
	data, ok, err := s.cache.Get(ctx, s.mapName, orchestratedFlowID.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.OrchestrationModelMissing(orchestratedFlowID.String())
	}
	return cachemodel.UnmarshalModel(data)
}

// MarkCancelled sets the flow-level cancellation tombstone (spec.md §5)
// checked by C5/C6 before fan-out. It loads, flips, and rewrites the
// model rather than mutating a separate key so a single Load always
// observes a consistent cancelled flag alongside the rest of the graph.
func (s *ModelStore) MarkCancelled(ctx context.Context, orchestratedFlowID entity.ID) error {
	model, err := s.Load(ctx, orchestratedFlowID)
	if err != nil {
		return err
	}
	model.Cancelled = true
	return s.Put(ctx, orchestratedFlowID, model)
}
