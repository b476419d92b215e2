package ports

import (
	"context"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

// SchemaValidator validates an arbitrary payload against a Schema's JSON
// Schema definition. It is an external collaborator per the schema's own
// scope: the structural JSON-Schema engine itself is not specified here,
// only this contract and a fail-safe placeholder (see DESIGN.md).
//
// Fail-safe policy: when the validator cannot be reached at all, callers
// must treat that as ValidatorUnavailable and reject the operation, never
// silently allow it through.
type SchemaValidator interface {
	Validate(ctx context.Context, schema entity.Schema, payload []byte) error
}

// SchemaResolver loads a Schema document by id, letting the processor
// runtime (C7) validate activity input/output without depending on the
// entity managers directly.
type SchemaResolver interface {
	Resolve(ctx context.Context, id entity.ID) (entity.Schema, error)
}

// BreakingChangeAnalyzer implements the §4.7 schema-update breaking-change
// procedure: rejects an update if a required field was added or removed, a
// property's type changed incompatibly (only integer→number is
// compatible), a property was removed, or stricter validation rules were
// introduced. Unparseable schemas are conservatively treated as breaking.
type BreakingChangeAnalyzer interface {
	// Diff compares a previous schema definition against a proposed one and
	// returns a non-nil *BreakingChange describing the first violation found,
	// or nil if the change is backward compatible.
	Diff(previous, proposed []byte) (*BreakingChange, error)
}

// BreakingChange describes why a schema update was rejected.
type BreakingChange struct {
	Reason string
	Field  string
}

func (b *BreakingChange) Error() string {
	return b.Reason
}
