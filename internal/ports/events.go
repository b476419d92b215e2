package ports

import "context"

const (
	// EventFlowStarted is emitted when the scheduler builds a C3 model and
	// publishes the entry steps' ExecuteActivityCommand.
	EventFlowStarted = "flow.started"
	// EventFlowCancelled is emitted when a model is marked cancelled.
	EventFlowCancelled = "flow.cancelled"
	// EventStepFannedOut is emitted when a completion/failure consumer
	// publishes a successor step's ExecuteActivityCommand.
	EventStepFannedOut = "step.fanned_out"
	// EventStepBranchTerminated is emitted when a completed or failed step
	// has no successors, ending that branch without fan-out.
	EventStepBranchTerminated = "step.branch_terminated"
	// EventActivityExecuted is emitted when a processor publishes a
	// successful ActivityExecutedEvent.
	EventActivityExecuted = "activity.executed"
	// EventActivityFailed is emitted when a processor publishes an
	// ActivityFailedEvent.
	EventActivityFailed = "activity.failed"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous—Publish blocks until all handlers run—ensuring observability
// signals appear before the process exits. Handlers may spawn goroutines for
// async processing if work should continue in the background. Implementations
// must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
