// Package filereader implements an Address-source activity that reads a
// file from the local filesystem, adapted from the teacher's copy
// plugin's filesystem handling.
package filereader

import (
	"context"
	"os"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Activity reads the file named by its assignment's connection string
// and returns the raw bytes as the activity's output payload.
type Activity struct{}

func New() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "filereader" }

func (a *Activity) Invoke(ctx context.Context, input ports.ActivityInput) (ports.ActivityOutput, error) {
	path, ok := input.Assignments["connectionString"].(string)
	if !ok || path == "" {
		return ports.ActivityOutput{}, domainerrors.ValidationFailure("filereader requires an address connectionString", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ports.ActivityOutput{}, domainerrors.PluginException(err)
	}
	return ports.ActivityOutput{Payload: data}, nil
}

var _ ports.Activity = (*Activity)(nil)
