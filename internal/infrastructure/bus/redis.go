// Package bus implements the Bus Gateway (C2) on Redis Streams. Each
// ExecuteActivityCommand queue is a stream named "cmd:{processorKey}"; a
// consumer group named "processors" on that stream gives the
// competing-consumer semantics every instance of the same
// (version,name) processor needs. Terminal events share two streams,
// "events:executed" and "events:failed", each consumed by a single
// "orchestrator" consumer group (C5/C6 instances compete for events the
// same way processor instances compete for commands).
//
// This adapts the pack's list-based job-queue idiom (BLPop/RPush) to
// streams because at-least-once redelivery and durable consumer-group
// bookkeeping need XREADGROUP/XACK's pending-entries list, which a plain
// list cannot provide.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

const (
	executedStream = "events:executed"
	failedStream   = "events:failed"
	consumerGroup  = "orchestrator"
)

// Gateway implements ports.CommandPublisher, ports.ActivityEventPublisher,
// ports.CommandConsumer, and ports.ActivityEventConsumer on Redis Streams.
type Gateway struct {
	client       *redis.Client
	consumerName string
	blockFor     time.Duration
}

// New connects to a Redis instance at url, using consumerName as this
// process' identity within every consumer group it joins.
func New(url, consumerName string) (*Gateway, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, domainerrors.New(domainerrors.CodeBusUnavailable, "parse bus gateway url", err)
	}
	return &Gateway{client: redis.NewClient(opts), consumerName: consumerName, blockFor: 5 * time.Second}, nil
}

// NewFromClient wraps an already-constructed client, used by tests to
// inject a miniredis-backed client.
func NewFromClient(client *redis.Client, consumerName string) *Gateway {
	return &Gateway{client: client, consumerName: consumerName, blockFor: 5 * time.Second}
}

func commandStream(queueKey string) string {
	return "cmd:" + queueKey
}

func ensureGroup(ctx context.Context, client *redis.Client, stream string) error {
	err := client.XGroupCreateMkStream(ctx, stream, consumerGroup, "$").Err()
	if err != nil && !hasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func (g *Gateway) PublishExecuteActivity(ctx context.Context, queueKey string, cmd ports.ExecuteActivityCommand) error {
	stream := commandStream(queueKey)
	if err := ensureGroup(ctx, g.client, stream); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return domainerrors.New(domainerrors.CodeInternal, "marshal execute activity command", err)
	}
	if err := g.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": payload},
	}).Err(); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	return nil
}

func (g *Gateway) PublishExecuted(ctx context.Context, event ports.ActivityExecutedEvent) error {
	return g.publishEvent(ctx, executedStream, event)
}

func (g *Gateway) PublishFailed(ctx context.Context, event ports.ActivityFailedEvent) error {
	return g.publishEvent(ctx, failedStream, event)
}

func (g *Gateway) publishEvent(ctx context.Context, stream string, event interface{}) error {
	if err := ensureGroup(ctx, g.client, stream); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domainerrors.New(domainerrors.CodeInternal, "marshal activity event", err)
	}
	if err := g.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": payload},
	}).Err(); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	return nil
}

// ConsumeExecuteActivity blocks, reading commands from queueKey's stream
// as part of the "processors" consumer group, until ctx is cancelled.
// Each message is acknowledged only after handler returns nil; a handler
// error leaves the message pending for redelivery per the bus' retry
// policy, matching the at-least-once contract.
func (g *Gateway) ConsumeExecuteActivity(ctx context.Context, queueKey string, handler func(context.Context, ports.ExecuteActivityCommand) error) error {
	stream := commandStream(queueKey)
	if err := ensureGroup(ctx, g.client, stream); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	const group = "processors"
	// ensureGroup above creates a group named consumerGroup; commands use a
	// distinct group so processor fan-in never competes with C5/C6 fan-in.
	if err := g.client.XGroupCreateMkStream(ctx, stream, group, "$").Err(); err != nil && !hasPrefix(err.Error(), "BUSYGROUP") {
		return domainerrors.BusUnavailable(err)
	}
	return g.loop(ctx, stream, group, func(ctx context.Context, payload []byte) error {
		var cmd ports.ExecuteActivityCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return err
		}
		return handler(ctx, cmd)
	})
}

func (g *Gateway) ConsumeExecuted(ctx context.Context, handler func(context.Context, ports.ActivityExecutedEvent) error) error {
	if err := ensureGroup(ctx, g.client, executedStream); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	return g.loop(ctx, executedStream, consumerGroup, func(ctx context.Context, payload []byte) error {
		var event ports.ActivityExecutedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return handler(ctx, event)
	})
}

func (g *Gateway) ConsumeFailed(ctx context.Context, handler func(context.Context, ports.ActivityFailedEvent) error) error {
	if err := ensureGroup(ctx, g.client, failedStream); err != nil {
		return domainerrors.BusUnavailable(err)
	}
	return g.loop(ctx, failedStream, consumerGroup, func(ctx context.Context, payload []byte) error {
		var event ports.ActivityFailedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return handler(ctx, event)
	})
}

// loop reads stream via group under g.consumerName, invoking process for
// each delivered message and XACKing only on success, until ctx is done.
func (g *Gateway) loop(ctx context.Context, stream, group string, process func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		results, err := g.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: g.consumerName,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    g.blockFor,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return domainerrors.BusUnavailable(err)
		}

		for _, res := range results {
			for _, msg := range res.Messages {
				raw, ok := msg.Values["payload"]
				if !ok {
					g.client.XAck(ctx, stream, group, msg.ID)
					continue
				}
				payload, ok := raw.(string)
				if !ok {
					g.client.XAck(ctx, stream, group, msg.ID)
					continue
				}
				if err := process(ctx, []byte(payload)); err != nil {
					// Leave unacknowledged; the bus retry policy redelivers
					// from the pending-entries list.
					continue
				}
				g.client.XAck(ctx, stream, group, msg.ID)
			}
		}
	}
}

var (
	_ ports.CommandPublisher       = (*Gateway)(nil)
	_ ports.ActivityEventPublisher = (*Gateway)(nil)
	_ ports.CommandConsumer        = (*Gateway)(nil)
	_ ports.ActivityEventConsumer  = (*Gateway)(nil)
)
