package entity

import (
	"encoding/json"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// Address is a data source/sink binding. Its composite key is
// ConnectionString, which must be unique across all addresses.
type Address struct {
	ID               ID              `json:"id"`
	Version          int             `json:"version"`
	Name             string          `json:"name"`
	ConnectionString string          `json:"connectionString"`
	Payload          json.RawMessage `json:"payload"`
	SchemaID         *ID             `json:"schemaId,omitempty"`
}

// CompositeKey returns the uniqueness key for an Address.
func (a Address) CompositeKey() string { return a.ConnectionString }

func (a Address) Validate() error {
	if a.Name == "" {
		return domainerrors.ValidationFailure("address name is required", nil)
	}
	if a.ConnectionString == "" {
		return domainerrors.ValidationFailure("address connectionString is required", map[string]interface{}{"name": a.Name})
	}
	return nil
}

// Delivery is a configuration payload bound to a step assignment. Its
// payload validates against Schema when SchemaID is set.
type Delivery struct {
	ID       ID              `json:"id"`
	Version  int             `json:"version"`
	Name     string          `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	SchemaID *ID             `json:"schemaId,omitempty"`
}

func (d Delivery) Validate() error {
	if d.Name == "" {
		return domainerrors.ValidationFailure("delivery name is required", nil)
	}
	return nil
}
