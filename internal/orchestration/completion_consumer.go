package orchestration

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/condition"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// CompletionConsumer is the Activity-Completion Consumer (C5). It derives
// Status from the observed event's own status field, unlike
// FailureConsumer which always observes Failed.
type CompletionConsumer struct {
	consumer *Consumer
}

func NewCompletionConsumer(consumer *Consumer) *CompletionConsumer {
	return &CompletionConsumer{consumer: consumer}
}

// Run subscribes to ActivityExecutedEvent and blocks until ctx is done.
func (c *CompletionConsumer) Run(ctx context.Context, events ports.ActivityEventConsumer) error {
	return events.ConsumeExecuted(ctx, c.handle)
}

func (c *CompletionConsumer) handle(ctx context.Context, event ports.ActivityExecutedEvent) error {
	return c.consumer.Handle(ctx, TerminalEvent{
		Frame:  event.Frame,
		Status: condition.Status(event.Status),
	})
}
