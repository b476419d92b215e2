package schemavalidation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

func schemaWithDefinition(def string) entity.Schema {
	return entity.Schema{Name: "widget", Definition: []byte(def)}
}

func TestValidate_AcceptsConformingPayload(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","required":["x"],"properties":{"x":{"type":"string","minLength":1}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{"x":"hello"}`))
	require.NoError(t, err)
}

func TestValidate_RejectsMissingRequiredField(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","required":["x"],"properties":{"x":{"type":"string"}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{}`))
	require.Error(t, err)
}

func TestValidate_RejectsWrongType(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","properties":{"x":{"type":"integer"}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{"x":"not a number"}`))
	require.Error(t, err)
}

func TestValidate_RejectsStringShorterThanMinLength(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","properties":{"x":{"type":"string","minLength":5}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{"x":"ab"}`))
	require.Error(t, err)
}

func TestValidate_RejectsPatternMismatch(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","properties":{"x":{"type":"string","pattern":"^[a-z]+$"}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{"x":"ABC123"}`))
	require.Error(t, err)
}

func TestValidate_IntegerTypeAcceptsWholeNumbers(t *testing.T) {
	schema := schemaWithDefinition(`{"type":"object","properties":{"x":{"type":"integer"}}}`)
	err := New().Validate(context.Background(), schema, []byte(`{"x":42}`))
	require.NoError(t, err)
}

func TestValidate_UnparseableSchemaIsValidatorUnavailable(t *testing.T) {
	schema := schemaWithDefinition(`not json`)
	err := New().Validate(context.Background(), schema, []byte(`{}`))
	require.Error(t, err)
}
