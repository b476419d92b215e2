// Package correlation models the ambient per-task correlation-id value
// called for in spec.md §9 ("Global mutable state... AsyncLocal-
// equivalent") as context.Context values, Go's idiomatic replacement for
// thread-local/AsyncLocal storage. HTTP requests populate it from the
// X-Correlation-ID header (generating one if absent); bus messages carry
// it as an explicit frame field; cache calls take it as an ordinary
// context parameter, exactly as ports.GetCorrelationID already does for
// the rest of this codebase.
package correlation

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// HeaderName is the default HTTP header name carrying the correlation id,
// overridable via configuration (spec.md §6).
const HeaderName = "X-Correlation-ID"

// WithID attaches id to ctx. Thin alias over ports.WithCorrelationID kept
// so orchestration code does not need to import the ports package merely
// to thread a correlation id.
func WithID(ctx context.Context, id string) context.Context {
	return ports.WithCorrelationID(ctx, id)
}

// FromContext returns the correlation id carried by ctx, or "" if none.
func FromContext(ctx context.Context) string {
	return ports.GetCorrelationID(ctx)
}

// New generates a fresh correlation id, used when an inbound request or
// a scheduler-originated start carries none.
func New() string {
	return ports.GenerateCorrelationID()
}
