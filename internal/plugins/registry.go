// Package plugins holds the processor runtime's Activity implementations
// (filereader, filewriter, gitsync) and the registry that binds each to
// its (assemblyName, typeName) pair, adapted from the teacher's
// package-level plugin registry.
package plugins

import (
	"fmt"
	"sync"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Registry implements ports.ActivityRegistry with a simple guarded map,
// safe for concurrent use by multiple processor runtime goroutines.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]ports.Activity
}

func NewRegistry() *Registry {
	return &Registry{activities: make(map[string]ports.Activity)}
}

func key(assemblyName, typeName string) string {
	return assemblyName + "/" + typeName
}

func (r *Registry) Register(assemblyName, typeName string, activity ports.Activity) error {
	if activity == nil {
		return domainerrors.ValidationFailure("activity is nil", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(assemblyName, typeName)
	if _, exists := r.activities[k]; exists {
		return domainerrors.DuplicateKey("activity", k)
	}
	r.activities[k] = activity
	return nil
}

func (r *Registry) Resolve(assemblyName, typeName string) (ports.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	activity, ok := r.activities[key(assemblyName, typeName)]
	if !ok {
		return nil, domainerrors.NotFound("activity", fmt.Sprintf("%s/%s", assemblyName, typeName))
	}
	return activity, nil
}

var _ ports.ActivityRegistry = (*Registry)(nil)
