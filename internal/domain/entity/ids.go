// Package entity holds the persisted data-model types from the
// orchestration fabric: Schema, Address, Delivery, Processor, Plugin,
// Assignment, Step, Workflow, and OrchestratedFlow. Types here are pure
// value objects plus the validation invariants a CRUD manager enforces
// on mutation; no infrastructure dependency is imported from this package.
package entity

import "github.com/google/uuid"

// ID is the 128-bit opaque identifier used by every entity in the fabric.
type ID = uuid.UUID

// NewID generates a fresh opaque identifier.
func NewID() ID {
	return uuid.New()
}

// ParseID parses a textual identifier, matching the manager HTTP surface's
// path-parameter decoding.
func ParseID(s string) (ID, error) {
	return uuid.Parse(s)
}

// ZeroID is the sentinel "no id yet" / publishId=∅ value from spec.md §4.4.
var ZeroID ID
