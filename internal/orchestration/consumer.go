package orchestration

import (
	"context"
	"sync"

	"github.com/flowmesh-io/orchestrator/internal/domain/cachemodel"
	"github.com/flowmesh-io/orchestrator/internal/domain/condition"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/domain/frame"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

const defaultActivityMapName = "processor-activity"

// TerminalEvent is the shared shape consumed by both the
// Activity-Completion and Activity-Failure consumers: a frame, the
// observed status, and an optional error message. C6 always constructs
// one with Status=Failed; C5 derives Status from the event payload.
type TerminalEvent struct {
	Frame        frame.Frame
	Status       condition.Status
	ErrorMessage string
}

// Consumer implements the graph-progression algorithm shared by C5 and
// C6 (spec.md §4.5): load the model, resolve successors, evaluate entry
// conditions, copy blobs, publish commands, and clean up the source blob
// — all per-edge work joined before cleanup, mirroring the teacher's
// fan-out/join executor pattern (WaitGroup + an error slice indexed by
// edge).
type Consumer struct {
	models       *ModelStore
	cache        ports.CacheGateway
	commands     ports.CommandPublisher
	cacheMapName string
	metrics      ports.MetricsCollector
	logger       ports.Logger
	events       ports.EventPublisher
}

// NewConsumer constructs a Consumer shared by both the completion and
// failure handlers.
func NewConsumer(models *ModelStore, cache ports.CacheGateway, commands ports.CommandPublisher, cacheMapName string, metrics ports.MetricsCollector, logger ports.Logger) *Consumer {
	if cacheMapName == "" {
		cacheMapName = defaultActivityMapName
	}
	return &Consumer{models: models, cache: cache, commands: commands, cacheMapName: cacheMapName, metrics: metrics, logger: logger}
}

// WithEvents attaches an optional event publisher used for observability
// signals (step.fanned_out, step.branch_terminated). A nil publisher is
// a no-op.
func (c *Consumer) WithEvents(events ports.EventPublisher) *Consumer {
	c.events = events
	return c
}

func (c *Consumer) publish(ctx context.Context, eventType string, fields map[string]interface{}) {
	if c.events == nil {
		return
	}
	_ = c.events.Publish(ctx, newDomainEvent(eventType, fields))
}

func activityKey(f frame.Frame) string {
	return ports.ActivityDataKey(
		f.ProcessorID.String(),
		f.OrchestratedFlowID.String(),
		f.CorrelationID,
		f.ExecutionID.String(),
		f.StepID.String(),
		f.PublishID.String(),
	)
}

// Handle runs the full §4.5 algorithm for one terminal event.
func (c *Consumer) Handle(ctx context.Context, event TerminalEvent) error {
	model, err := c.models.Load(ctx, event.Frame.OrchestratedFlowID)
	if err != nil {
		return err
	}

	step, err := model.Step(event.Frame.StepID)
	if err != nil {
		return err
	}

	srcKey := activityKey(event.Frame)

	if len(step.NextStepIDs) == 0 {
		if err := c.cache.Remove(ctx, c.cacheMapName, srcKey); err != nil {
			return err
		}
		c.recordBranchTerminated(ctx, event.Frame)
		return nil
	}

	if model.Cancelled {
		// Cancellation tombstone: skip fan-out entirely but still clean up,
		// matching spec.md §5's "prevents new fan-outs ... cleanup still
		// runs" rule.
		return c.cache.Remove(ctx, c.cacheMapName, srcKey)
	}

	errs := make([]error, len(step.NextStepIDs))
	var wg sync.WaitGroup
	for i, nextStepID := range step.NextStepIDs {
		wg.Add(1)
		go func(i int, nextStepID entity.ID) {
			defer wg.Done()
			errs[i] = c.processEdge(ctx, model, event, srcKey, nextStepID)
		}(i, nextStepID)
	}
	wg.Wait()

	// Source cleanup happens even when no edges survive and even on
	// per-edge publish failures (spec.md §4.5 step 6).
	cleanupErr := c.cache.Remove(ctx, c.cacheMapName, srcKey)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if cleanupErr != nil {
		return cleanupErr
	}

	if c.metrics != nil {
		c.metrics.IncCounter(ctx, "activity_fanout_published_total", map[string]string{
			"stepId": event.Frame.StepID.String(),
		})
	}
	return nil
}

// processEdge evaluates, copies, and publishes for a single successor
// step. A missing successor or a failing entry condition is a silent
// skip (spec.md §4.5 step 5.1/5.2), not an error.
func (c *Consumer) processEdge(ctx context.Context, model *cachemodel.Model, event TerminalEvent, srcKey string, nextStepID entity.ID) error {
	next, err := model.Step(nextStepID)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(ctx, "fan-out successor step missing from orchestration model", "stepId", nextStepID.String())
		}
		return nil
	}

	if !condition.Evaluate(next.EntryCondition, event.Status) {
		return nil
	}

	value, found, err := c.cache.Get(ctx, c.cacheMapName, srcKey)
	if err != nil {
		return err
	}

	publishID := entity.NewID()
	nextFrame := event.Frame.WithStep(nextStepID, next.ProcessorID, publishID)

	if found {
		destKey := activityKey(nextFrame)
		if err := c.cache.Set(ctx, c.cacheMapName, destKey, value, 0); err != nil {
			return err
		}
	} else if c.logger != nil {
		c.logger.Warn(ctx, "source blob absent at fan-out; downstream plugin will see empty input", "stepId", event.Frame.StepID.String())
	}

	processor := model.Processors[nextStepID]
	cmd := ports.ExecuteActivityCommand{Frame: nextFrame, Entities: model.Assignments[nextStepID]}
	if err := c.commands.PublishExecuteActivity(ctx, processor.CompositeKey(), cmd); err != nil {
		return err
	}
	c.publish(ctx, ports.EventStepFannedOut, map[string]interface{}{
		"stepId":     event.Frame.StepID.String(),
		"nextStepId": nextStepID.String(),
	})
	return nil
}

func (c *Consumer) recordBranchTerminated(ctx context.Context, f frame.Frame) {
	if c.metrics != nil {
		c.metrics.IncCounter(ctx, "branch_terminated_total", map[string]string{"stepId": f.StepID.String()})
	}
	c.publish(ctx, ports.EventStepBranchTerminated, map[string]interface{}{"stepId": f.StepID.String()})
}
