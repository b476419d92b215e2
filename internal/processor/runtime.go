// Package processor hosts the Processor Runtime (C7): it consumes
// ExecuteActivityCommand messages, invokes the bound plugin, and
// publishes the terminal event. spec.md §4.6 specifies this component
// only by contract; this is one concrete implementation of that
// contract.
package processor

import (
	"context"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Runtime binds an ActivityRegistry, a Cache Gateway, and a bus event
// publisher into the C7 contract for one processor (version,name).
type Runtime struct {
	queueKey     string
	activities   ports.ActivityRegistry
	cache        ports.CacheGateway
	validator    ports.SchemaValidator
	schemas      ports.SchemaResolver
	events       ports.ActivityEventPublisher
	domainEvents ports.EventPublisher
	cacheMap     string
	logger       ports.Logger
	now          func() time.Time
}

// WithDomainEvents attaches an optional observability publisher used for
// activity.executed / activity.failed log signals, distinct from the bus
// events published via events. A nil publisher is a no-op.
func (r *Runtime) WithDomainEvents(domainEvents ports.EventPublisher) *Runtime {
	r.domainEvents = domainEvents
	return r
}

// NewRuntime constructs a Runtime bound to queueKey (a processor's
// (version,name) composite key). schemas may be nil when neither input
// nor output validation is ever enabled for this processor's plugins.
func NewRuntime(queueKey string, activities ports.ActivityRegistry, cache ports.CacheGateway, validator ports.SchemaValidator, schemas ports.SchemaResolver, events ports.ActivityEventPublisher, cacheMapName string, logger ports.Logger) *Runtime {
	if cacheMapName == "" {
		cacheMapName = "processor-activity"
	}
	return &Runtime{queueKey: queueKey, activities: activities, cache: cache, validator: validator, schemas: schemas, events: events, cacheMap: cacheMapName, logger: logger, now: time.Now}
}

// Run consumes commands from consumer until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context, consumer ports.CommandConsumer) error {
	return consumer.ConsumeExecuteActivity(ctx, r.queueKey, r.handle)
}

// handle implements the §4.6 contract: read input, validate, invoke,
// validate output, write output blob, publish the terminal event.
func (r *Runtime) handle(ctx context.Context, cmd ports.ExecuteActivityCommand) error {
	start := r.now()

	assignmentKey := activityKey(cmd)
	input, found, err := r.cache.Get(ctx, r.cacheMap, assignmentKey)
	if err != nil {
		return err
	}
	if !found {
		input = nil
	}

	pluginAssignment := findPluginAssignment(cmd)
	if pluginAssignment == nil {
		return r.fail(ctx, cmd, start, domainerrors.PluginException(nil).Error(), true)
	}

	if pluginAssignment.EnableInputValidation && pluginAssignment.InputSchemaID != nil {
		if err := r.validatePayload(ctx, *pluginAssignment.InputSchemaID, input); err != nil {
			return r.fail(ctx, cmd, start, err.Error(), true)
		}
	}

	activityCtx := ctx
	var cancel context.CancelFunc
	if timeout := ports.ActivityTimeout(pluginAssignment.ExecutionTimeoutMs); timeout > 0 {
		activityCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	activity, err := r.activities.Resolve(pluginAssignment.AssemblyName, pluginAssignment.TypeName)
	if err != nil {
		return r.fail(ctx, cmd, start, err.Error(), false)
	}

	output, err := activity.Invoke(activityCtx, ports.ActivityInput{Payload: input})
	if err != nil {
		if activityCtx.Err() != nil {
			return r.fail(ctx, cmd, start, "activity execution timed out", false)
		}
		return r.fail(ctx, cmd, start, err.Error(), false)
	}

	if pluginAssignment.EnableOutputValidation && pluginAssignment.OutputSchemaID != nil {
		if err := r.validatePayload(ctx, *pluginAssignment.OutputSchemaID, output.Payload); err != nil {
			return r.fail(ctx, cmd, start, err.Error(), true)
		}
	}

	outKey := activityKey(cmd)
	if err := r.cache.Set(ctx, r.cacheMap, outKey, output.Payload, 0); err != nil {
		return err
	}

	if err := r.events.PublishExecuted(ctx, ports.ActivityExecutedEvent{
		Frame:             cmd.Frame,
		Status:            ports.ActivityCompleted,
		DurationMs:        time.Since(start).Milliseconds(),
		ResultDataSize:    int64(len(output.Payload)),
		EntitiesProcessed: len(cmd.Entities),
	}); err != nil {
		return err
	}
	r.publishDomainEvent(ctx, ports.EventActivityExecuted, map[string]interface{}{
		"stepId": cmd.Frame.StepID.String(),
	})
	return nil
}

func (r *Runtime) publishDomainEvent(ctx context.Context, eventType string, fields map[string]interface{}) {
	if r.domainEvents == nil {
		return
	}
	_ = r.domainEvents.Publish(ctx, domainEvent{eventType: eventType, payload: fields})
}

type domainEvent struct {
	eventType string
	payload   map[string]interface{}
}

func (e domainEvent) EventType() string    { return e.eventType }
func (e domainEvent) Payload() interface{} { return e.payload }

// validatePayload enforces the fail-safe policy from ports.SchemaValidator's
// contract: an unreachable validator or schema resolver rejects the
// activity rather than silently letting it through.
func (r *Runtime) validatePayload(ctx context.Context, schemaID entity.ID, payload []byte) error {
	if r.validator == nil || r.schemas == nil {
		return domainerrors.ValidatorUnavailable(nil)
	}
	schema, err := r.schemas.Resolve(ctx, schemaID)
	if err != nil {
		return domainerrors.ValidatorUnavailable(err)
	}
	return r.validator.Validate(ctx, schema, payload)
}

func (r *Runtime) fail(ctx context.Context, cmd ports.ExecuteActivityCommand, start time.Time, message string, isValidation bool) error {
	if err := r.events.PublishFailed(ctx, ports.ActivityFailedEvent{
		Frame:               cmd.Frame,
		DurationMs:          time.Since(start).Milliseconds(),
		ErrorMessage:        message,
		IsValidationFailure: isValidation,
	}); err != nil {
		return err
	}
	r.publishDomainEvent(ctx, ports.EventActivityFailed, map[string]interface{}{
		"stepId":  cmd.Frame.StepID.String(),
		"message": message,
	})
	return nil
}

func activityKey(cmd ports.ExecuteActivityCommand) string {
	f := cmd.Frame
	return ports.ActivityDataKey(f.ProcessorID.String(), f.OrchestratedFlowID.String(), f.CorrelationID, f.ExecutionID.String(), f.StepID.String(), f.PublishID.String())
}
