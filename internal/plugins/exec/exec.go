// Package exec implements a Plugin activity that runs an external command,
// feeding the upstream payload on stdin and capturing stdout as the
// activity's output — the dataflow-fabric analogue of the teacher's
// command plugin, adapted from shell-convergence semantics to a single
// pass-through invocation per fan-out.
package exec

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Activity runs a configured command once per invocation, passing
// input.Payload on stdin and returning stdout as the output payload.
type Activity struct{}

func New() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "exec" }

func (a *Activity) Invoke(ctx context.Context, input ports.ActivityInput) (ports.ActivityOutput, error) {
	command, _ := input.Assignments["command"].(string)
	if command == "" {
		return ports.ActivityOutput{}, domainerrors.ValidationFailure("exec requires a command assignment entity", nil)
	}

	shell, shellArg := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, shellArg = "cmd", "/C"
	}

	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Stdin = bytes.NewReader(input.Payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ports.ActivityOutput{}, domainerrors.PluginTimeout(err)
		}
		return ports.ActivityOutput{}, domainerrors.PluginException(err)
	}

	return ports.ActivityOutput{Payload: stdout.Bytes()}, nil
}

var _ ports.Activity = (*Activity)(nil)
