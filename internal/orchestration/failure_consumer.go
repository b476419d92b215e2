package orchestration

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/condition"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// FailureConsumer is the Activity-Failure Consumer (C6): the same
// control-flow algorithm as CompletionConsumer but with the observed
// status pinned to Failed (spec.md §4.5 "C6 always observes
// status=Failed").
type FailureConsumer struct {
	consumer *Consumer
}

func NewFailureConsumer(consumer *Consumer) *FailureConsumer {
	return &FailureConsumer{consumer: consumer}
}

// Run subscribes to ActivityFailedEvent and blocks until ctx is done.
func (c *FailureConsumer) Run(ctx context.Context, events ports.ActivityEventConsumer) error {
	return events.ConsumeFailed(ctx, c.handle)
}

func (c *FailureConsumer) handle(ctx context.Context, event ports.ActivityFailedEvent) error {
	return c.consumer.Handle(ctx, TerminalEvent{
		Frame:        event.Frame,
		Status:       condition.StatusFailed,
		ErrorMessage: event.ErrorMessage,
	})
}
