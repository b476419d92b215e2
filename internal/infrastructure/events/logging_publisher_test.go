package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	logginginfra "github.com/flowmesh-io/orchestrator/internal/infrastructure/logging"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

func TestLoggingPublisherIncludesCorrelationID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "info",
		Layer:     "test",
		Component: "publisher",
		Formatter: cblog.JSONFormatter,
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	ctx := logginginfra.WithCorrelationID(context.Background(), "abc-123")
	err = publisher.Publish(ctx, sampleEvent{
		eventType: ports.EventFlowStarted,
		payload:   map[string]interface{}{"flow": "demo"},
	})
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "domain event", entry["msg"])
	require.Equal(t, ports.EventFlowStarted, entry["event_type"])
	require.Equal(t, "abc-123", entry["correlation_id"])
	require.Equal(t, "demo", entry["flow"])
}

func TestLoggingPublisherInvokesSubscribers(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "info",
		Layer:     "test",
		Component: "publisher",
		Formatter: cblog.JSONFormatter,
	})
	require.NoError(t, err)

	publisher := NewLoggingPublisher(logger)

	var handled bool
	_, err = publisher.Subscribe(ports.EventActivityExecuted, func(ctx context.Context, event ports.DomainEvent) error {
		handled = true
		return nil
	})
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), sampleEvent{
		eventType: ports.EventActivityExecuted,
		payload:   map[string]interface{}{"flow": "demo"},
	})
	require.NoError(t, err)
	require.True(t, handled, "subscriber should be invoked")
}

type sampleEvent struct {
	eventType string
	payload   interface{}
}

func (e sampleEvent) EventType() string    { return e.eventType }
func (e sampleEvent) Payload() interface{} { return e.payload }
