package orchestration

import "github.com/flowmesh-io/orchestrator/internal/ports"

// domainEvent is the concrete ports.DomainEvent emitted by the scheduler
// and consumers for observability; LoggingPublisher renders it as a
// structured log line, the only subscriber wired by default.
type domainEvent struct {
	eventType string
	payload   map[string]interface{}
}

func (e domainEvent) EventType() string    { return e.eventType }
func (e domainEvent) Payload() interface{} { return e.payload }

func newDomainEvent(eventType string, fields map[string]interface{}) ports.DomainEvent {
	return domainEvent{eventType: eventType, payload: fields}
}
