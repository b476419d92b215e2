package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff_RequiredFieldRemovedIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","required":["x","y"],"properties":{"x":{"type":"string"},"y":{"type":"string"}}}`)
	proposed := []byte(`{"type":"object","required":["x"],"properties":{"x":{"type":"string"},"y":{"type":"string"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
	require.Contains(t, bc.Reason, "Required field removed: 'y'")
}

func TestDiff_RequiredFieldAddedIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","required":["x"],"properties":{"x":{"type":"string"}}}`)
	proposed := []byte(`{"type":"object","required":["x","y"],"properties":{"x":{"type":"string"},"y":{"type":"string"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
	require.Contains(t, bc.Reason, "Required field added: 'y'")
}

func TestDiff_PropertyRemovedIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","properties":{"x":{"type":"string"},"y":{"type":"string"}}}`)
	proposed := []byte(`{"type":"object","properties":{"x":{"type":"string"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
	require.Contains(t, bc.Reason, "Property removed: 'y'")
}

func TestDiff_IntegerToNumberIsCompatible(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","properties":{"x":{"type":"integer"}}}`)
	proposed := []byte(`{"type":"object","properties":{"x":{"type":"number"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.Nil(t, bc)
}

func TestDiff_StringToIntegerIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","properties":{"x":{"type":"string"}}}`)
	proposed := []byte(`{"type":"object","properties":{"x":{"type":"integer"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
	require.Contains(t, bc.Reason, "type changed incompatibly")
}

func TestDiff_StricterMinLengthIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object","properties":{"x":{"type":"string","minLength":1}}}`)
	proposed := []byte(`{"type":"object","properties":{"x":{"type":"string","minLength":5}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
	require.Contains(t, bc.Reason, "stricter validation")
}

func TestDiff_UnchangedSchemaIsNotBreaking(t *testing.T) {
	t.Parallel()

	schema := []byte(`{"type":"object","required":["x"],"properties":{"x":{"type":"string"}}}`)

	analyzer := New()
	bc, err := analyzer.Diff(schema, schema)
	require.NoError(t, err)
	require.Nil(t, bc)
}

func TestDiff_UnparseableProposedIsBreaking(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object"}`)
	proposed := []byte(`not json`)

	analyzer := New()
	bc, err := analyzer.Diff(previous, proposed)
	require.NoError(t, err)
	require.NotNil(t, bc)
}

func TestRenderDiff_ProducesUnifiedDiffForChangedSchemas(t *testing.T) {
	t.Parallel()

	previous := []byte(`{"type":"object"}`)
	proposed := []byte(`{"type":"object","required":["x"]}`)

	out := RenderDiff(previous, proposed)
	require.NotEmpty(t, out)
}
