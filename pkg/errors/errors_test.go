package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("fabric.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "fabric.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "fabric.yaml")
}

func TestParseErrorWithoutLineOmitsLineNumber(t *testing.T) {
	t.Parallel()

	err := NewParseError("fabric.yaml", 0, stdErrors.New("mapping values are not allowed in this context"))
	require.Contains(t, err.Error(), "fabric.yaml:")
	require.NotContains(t, err.Error(), "fabric.yaml:0")
}
