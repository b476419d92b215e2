package ports

import (
	"context"
	"time"
)

// Activity is the code unit the processor runtime (C7) invokes for a
// step's bound Plugin assignment. Implementations live under
// internal/plugins/<name> and are registered with an ActivityRegistry at
// process start.
//
// Invoke receives the decoded input payload (may be nil when the upstream
// blob was absent) and must honour ctx's deadline, which the runtime sets
// from the bound Plugin's ExecutionTimeoutMs.
type Activity interface {
	Name() string
	Invoke(ctx context.Context, input ActivityInput) (ActivityOutput, error)
}

// ActivityInput is what a processor runtime hands to an Activity: the
// decoded upstream payload plus the assignment entities targeting this
// step, so the plugin can resolve addresses/deliveries by id.
type ActivityInput struct {
	Payload     []byte
	Assignments map[string]interface{}
}

// ActivityOutput is what an Activity returns for the runtime to validate,
// serialize, and publish as the next blob.
type ActivityOutput struct {
	Payload []byte
}

// ActivityRegistry resolves an Activity by the Plugin assignment's
// (assemblyName, typeName) pair. Safe for concurrent use: processor
// runtimes may resolve activities from multiple goroutines.
type ActivityRegistry interface {
	Register(assemblyName, typeName string, activity Activity) error
	Resolve(assemblyName, typeName string) (Activity, error)
}

// ActivityTimeout converts a Plugin's ExecutionTimeoutMs into a
// time.Duration, treating zero or negative as "no timeout".
func ActivityTimeout(executionTimeoutMs int) time.Duration {
	if executionTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(executionTimeoutMs) * time.Millisecond
}
