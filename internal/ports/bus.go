package ports

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/domain/frame"
)

// ActivityStatus mirrors condition.Status at the bus boundary; duplicated
// here (rather than imported) so the ports package has no dependency on
// the condition package's evaluation logic, only its vocabulary.
type ActivityStatus string

const (
	ActivityProcessing ActivityStatus = "Processing"
	ActivityCompleted  ActivityStatus = "Completed"
	ActivityFailed     ActivityStatus = "Failed"
	ActivityCancelled  ActivityStatus = "Cancelled"
)

// ExecuteActivityCommand is published by the scheduler and by C5/C6 fan-out,
// consumed by the processor bound to (Processor.Version, Processor.Name).
type ExecuteActivityCommand struct {
	Frame    frame.Frame        `json:"frame"`
	Entities []entity.Assignment `json:"entities"`
}

// ActivityExecutedEvent is published by a processor runtime on success.
type ActivityExecutedEvent struct {
	Frame             frame.Frame    `json:"frame"`
	Status            ActivityStatus `json:"status"`
	DurationMs        int64          `json:"durationMs"`
	ResultDataSize    int64          `json:"resultDataSize"`
	EntitiesProcessed int            `json:"entitiesProcessed"`
}

// ActivityFailedEvent is published by a processor runtime on any raised
// error, including timeout and validation failure.
type ActivityFailedEvent struct {
	Frame               frame.Frame `json:"frame"`
	DurationMs          int64       `json:"durationMs"`
	ErrorMessage        string      `json:"errorMessage"`
	ExceptionType       string      `json:"exceptionType,omitempty"`
	StackTrace          string      `json:"stackTrace,omitempty"`
	IsValidationFailure bool        `json:"isValidationFailure"`
}

// QueueKey is the processor composite key ("name@version") that every bus
// queue is bound by.
func QueueKey(processorName string, processorVersion int) string {
	return entity.CompositeKeyOf(processorName, processorVersion)
}

// CommandPublisher publishes ExecuteActivityCommand messages. Implemented
// by the Bus Gateway (C2) adapter; consumed by the scheduler (C4) and the
// completion/failure consumers (C5/C6).
type CommandPublisher interface {
	PublishExecuteActivity(ctx context.Context, queueKey string, cmd ExecuteActivityCommand) error
}

// ActivityEventPublisher publishes terminal activity events. Implemented by
// the processor runtime (C7) side of the Bus Gateway.
type ActivityEventPublisher interface {
	PublishExecuted(ctx context.Context, cmd ActivityExecutedEvent) error
	PublishFailed(ctx context.Context, cmd ActivityFailedEvent) error
}

// CommandConsumer delivers ExecuteActivityCommand messages to a single
// competing-consumer group bound by queueKey. Handler errors cause
// redelivery per the bus' at-least-once retry policy; a nil handler
// return acknowledges the message. The interface has no separate Ack call.
type CommandConsumer interface {
	ConsumeExecuteActivity(ctx context.Context, queueKey string, handler func(context.Context, ExecuteActivityCommand) error) error
}

// ActivityEventConsumer delivers terminal activity events to C5/C6.
type ActivityEventConsumer interface {
	ConsumeExecuted(ctx context.Context, handler func(context.Context, ActivityExecutedEvent) error) error
	ConsumeFailed(ctx context.Context, handler func(context.Context, ActivityFailedEvent) error) error
}
