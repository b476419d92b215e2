package entity

import (
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// AssignmentKind discriminates the concrete shape held by an Assignment.
type AssignmentKind string

const (
	AssignmentKindAddress  AssignmentKind = "Address"
	AssignmentKindDelivery AssignmentKind = "Delivery"
	AssignmentKindPlugin   AssignmentKind = "Plugin"
)

// Assignment is the polymorphic {Address|Delivery|Plugin} binding attached
// to a step via StepID. Exactly one of Address/Delivery/Plugin is set,
// selected by Kind; TargetEntityIDs names the concrete Address/Delivery/
// Schema rows the bound plugin or payload refers to.
type Assignment struct {
	ID              ID             `json:"id"`
	StepID          ID             `json:"stepId"`
	Kind            AssignmentKind `json:"type"`
	TargetEntityIDs []ID           `json:"targetEntityIds,omitempty"`
	Address         *Address       `json:"address,omitempty"`
	Delivery        *Delivery      `json:"delivery,omitempty"`
	Plugin          *Plugin        `json:"plugin,omitempty"`
}

func (a Assignment) Validate() error {
	switch a.Kind {
	case AssignmentKindAddress:
		if a.Address == nil {
			return domainerrors.ValidationFailure("assignment of type Address requires an address payload", nil)
		}
		return a.Address.Validate()
	case AssignmentKindDelivery:
		if a.Delivery == nil {
			return domainerrors.ValidationFailure("assignment of type Delivery requires a delivery payload", nil)
		}
		return a.Delivery.Validate()
	case AssignmentKindPlugin:
		if a.Plugin == nil {
			return domainerrors.ValidationFailure("assignment of type Plugin requires a plugin payload", nil)
		}
		return a.Plugin.Validate()
	default:
		return domainerrors.ValidationFailure("assignment type must be one of Address, Delivery, Plugin", map[string]interface{}{"type": string(a.Kind)})
	}
}
