// Package filewriter implements an Address-sink activity that writes its
// input payload to a local file, adapted from the teacher's copy plugin.
package filewriter

import (
	"context"
	"os"
	"path/filepath"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Activity writes input.Payload to the file named by its assignment's
// connection string, creating parent directories as needed.
type Activity struct{}

func New() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "filewriter" }

func (a *Activity) Invoke(ctx context.Context, input ports.ActivityInput) (ports.ActivityOutput, error) {
	path, ok := input.Assignments["connectionString"].(string)
	if !ok || path == "" {
		return ports.ActivityOutput{}, domainerrors.ValidationFailure("filewriter requires an address connectionString", nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ports.ActivityOutput{}, domainerrors.PluginException(err)
	}
	if err := os.WriteFile(path, input.Payload, 0o644); err != nil {
		return ports.ActivityOutput{}, domainerrors.PluginException(err)
	}
	return ports.ActivityOutput{Payload: input.Payload}, nil
}

var _ ports.Activity = (*Activity)(nil)
