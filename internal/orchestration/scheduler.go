package orchestration

import (
	"context"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/domain/frame"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Scheduler is the Scheduler (C4): it admits flow starts, builds the
// Orchestration Cache Model, and seeds the first-step commands.
type Scheduler struct {
	resolver ports.OrchestratedFlowResolver
	models   *ModelStore
	commands ports.CommandPublisher
	health   ports.HealthMonitor
	metrics  ports.MetricsCollector
	logger   ports.Logger
	events   ports.EventPublisher
	now      func() time.Time
}

// NewScheduler constructs a Scheduler. now defaults to time.Now and is
// overridable for deterministic tests.
func NewScheduler(resolver ports.OrchestratedFlowResolver, models *ModelStore, commands ports.CommandPublisher, health ports.HealthMonitor, metrics ports.MetricsCollector, logger ports.Logger) *Scheduler {
	return &Scheduler{resolver: resolver, models: models, commands: commands, health: health, metrics: metrics, logger: logger, now: time.Now}
}

// WithEvents attaches an optional event publisher used for observability
// signals (flow.started; flow.cancelled is published by the cancel
// command, not by the Scheduler). A nil publisher is a no-op.
func (s *Scheduler) WithEvents(events ports.EventPublisher) *Scheduler {
	s.events = events
	return s
}

func (s *Scheduler) publish(ctx context.Context, eventType string, fields map[string]interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, newDomainEvent(eventType, fields))
}

// Start admits a StartOrchestratedFlowCommand (spec.md §4.4), whether it
// originated from an explicit command, a periodic timer, or the start
// API — all three triggers converge here.
func (s *Scheduler) Start(ctx context.Context, orchestratedFlowID entity.ID, correlationID string) error {
	resolved, err := s.resolver.ResolveOrchestratedFlow(ctx, orchestratedFlowID)
	if err != nil {
		return err
	}

	processorKeys := make([]string, 0, len(resolved.Processors))
	seen := make(map[string]bool, len(resolved.Processors))
	for _, p := range resolved.Processors {
		key := p.CompositeKey()
		if !seen[key] {
			seen[key] = true
			processorKeys = append(processorKeys, key)
		}
	}
	unhealthy, err := s.health.Unhealthy(ctx, processorKeys)
	if err != nil {
		return err
	}
	if len(unhealthy) > 0 {
		return unhealthyProcessorsError(unhealthy)
	}

	model := resolved.ToModel(s.now().Unix())
	if err := s.models.Put(ctx, orchestratedFlowID, model); err != nil {
		return err
	}

	workflowID := resolved.Workflow.ID
	for _, entryStepID := range cachemodel.EntrySteps(model.StepEntities) {
		step := model.StepEntities[entryStepID]
		f := frame.Frame{
			OrchestratedFlowID: orchestratedFlowID,
			WorkflowID:         workflowID,
			CorrelationID:      correlationID,
			StepID:             entryStepID,
			ProcessorID:        step.ProcessorID,
			ExecutionID:        entity.NewID(),
			PublishID:          entity.ZeroID,
		}
		processor := model.Processors[entryStepID]
		cmd := ports.ExecuteActivityCommand{Frame: f, Entities: model.Assignments[entryStepID]}
		if err := s.commands.PublishExecuteActivity(ctx, processor.CompositeKey(), cmd); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.IncCounter(ctx, "flow_started_total", map[string]string{"orchestratedFlowId": orchestratedFlowID.String()})
	}
	if s.logger != nil {
		s.logger.Info(ctx, "orchestrated flow started", "orchestratedFlowId", orchestratedFlowID.String(), "correlationId", correlationID)
	}
	s.publish(ctx, ports.EventFlowStarted, map[string]interface{}{
		"orchestratedFlowId": orchestratedFlowID.String(),
		"correlationId":      correlationID,
	})
	return nil
}
