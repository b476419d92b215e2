package entity

import domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"

// Processor is the runtime that executes an activity for a step. Its
// composite key is (Version, Name): every processor instance sharing that
// key cooperates on a single bus queue.
type Processor struct {
	ID             ID     `json:"id"`
	Version        int    `json:"version"`
	Name           string `json:"name"`
	InputSchemaID  *ID    `json:"inputSchemaId,omitempty"`
	OutputSchemaID *ID    `json:"outputSchemaId,omitempty"`
}

// CompositeKey returns the (version,name) queue-binding key.
func (p Processor) CompositeKey() string {
	return CompositeKeyOf(p.Name, p.Version)
}

func (p Processor) Validate() error {
	if p.Name == "" {
		return domainerrors.ValidationFailure("processor name is required", nil)
	}
	return nil
}

// Plugin is the code unit bound to an Assignment, invoked inside a
// processor. It is not independently addressable by the CRUD managers in
// the way Schema/Address/Delivery/Processor are; it is always embedded
// inside an Assignment of Kind Plugin.
type Plugin struct {
	AssemblyBasePath       string `json:"assemblyBasePath"`
	AssemblyName           string `json:"assemblyName"`
	AssemblyVersion        string `json:"assemblyVersion"`
	TypeName               string `json:"typeName"`
	InputSchemaID          *ID    `json:"inputSchemaId,omitempty"`
	OutputSchemaID         *ID    `json:"outputSchemaId,omitempty"`
	EnableInputValidation  bool   `json:"enableInputValidation"`
	EnableOutputValidation bool   `json:"enableOutputValidation"`
	ExecutionTimeoutMs     int    `json:"executionTimeoutMs"`
	IsStateless            bool   `json:"isStateless"`
}

func (p Plugin) Validate() error {
	if p.AssemblyName == "" || p.TypeName == "" {
		return domainerrors.ValidationFailure("plugin assemblyName and typeName are required", nil)
	}
	if p.ExecutionTimeoutMs < 0 {
		return domainerrors.ValidationFailure("plugin executionTimeoutMs must be non-negative", nil)
	}
	return nil
}
