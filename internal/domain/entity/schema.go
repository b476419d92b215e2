package entity

import (
	"encoding/json"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// Schema is an immutable-once-referenced JSON-schema document. Address,
// Delivery, Processor, and Plugin payloads validate against a Schema's
// Definition when a SchemaID is set.
type Schema struct {
	ID         ID              `json:"id"`
	Version    int             `json:"version"`
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
}

// Validate enforces the Schema's own field invariants. Referential checks
// (whether the schema is already referenced, breaking-change analysis on
// update) live in the manager layer since they require the wider entity
// graph.
func (s Schema) Validate() error {
	if s.Name == "" {
		return domainerrors.ValidationFailure("schema name is required", nil)
	}
	if len(s.Definition) == 0 {
		return domainerrors.ValidationFailure("schema definition is required", map[string]interface{}{"schema": s.Name})
	}
	var probe interface{}
	if err := json.Unmarshal(s.Definition, &probe); err != nil {
		return domainerrors.ValidationFailure("schema definition must be valid JSON", map[string]interface{}{
			"schema": s.Name,
			"error":  err.Error(),
		})
	}
	return nil
}
