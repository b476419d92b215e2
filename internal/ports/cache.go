package ports

import (
	"context"
	"time"
)

// CacheGateway is the Cache Gateway (C1): a named-map key/value store with
// TTL and atomic PutIfAbsent. Every named map is an independent namespace —
// "orchestration-data", "processor-activity", and "processor-health" are
// the three maps the core touches, but the interface itself is map-name
// agnostic.
//
// Error mapping: operations return domain errors coded CacheUnavailable
// (transient, retryable). A PutIfAbsent on a key that is already present
// is reported as stored=false with a nil error, not as CacheConflict.
// Implementations must never return a bare infrastructure error across
// this boundary.
type CacheGateway interface {
	// Get returns the value at key, and ok=false if the key is absent.
	Get(ctx context.Context, mapName, key string) (value []byte, ok bool, err error)

	// Set writes value at key with an optional ttl (zero means no expiry).
	Set(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) error

	// PutIfAbsent atomically writes value at key only if key is currently
	// absent. It returns stored=true when the write happened; stored=false
	// means the key was already present and the gateway left it untouched.
	PutIfAbsent(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) (stored bool, err error)

	// Remove deletes key. Removing an absent key is a no-op, never an error.
	Remove(ctx context.Context, mapName, key string) error

	// Exists reports whether key is currently present.
	Exists(ctx context.Context, mapName, key string) (bool, error)

	// GetAllEntries streams every (key,value) pair currently stored under
	// mapName to fn. Iteration stops early if fn returns an error, and that
	// error is returned to the caller.
	GetAllEntries(ctx context.Context, mapName string, fn func(key string, value []byte) error) error
}

// ActivityDataKey renders the fixed key schema for processor-activity-data
// blobs: {processorId}:{orchestratedFlowId}:{correlationId}:{executionId}:{stepId}:{publishId}.
func ActivityDataKey(processorID, orchestratedFlowID, correlationID, executionID, stepID, publishID string) string {
	return processorID + ":" + orchestratedFlowID + ":" + correlationID + ":" + executionID + ":" + stepID + ":" + publishID
}
