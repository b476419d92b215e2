package managerapi

import (
	"bytes"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/domain/workflow"
	"github.com/flowmesh-io/orchestrator/internal/schema"
)

func (s *Server) schemaResource() *Resource[entity.Schema] {
	return &Resource[entity.Schema]{
		Name:  "schema",
		Store: s.schemas,
		SetID: func(v entity.Schema, id entity.ID) entity.Schema { v.ID = id; return v },
		Validate: func(v entity.Schema) error { return v.Validate() },
		BeforeUpdate: func(existing, proposed entity.Schema) error {
			if s.analyzer == nil || bytes.Equal(existing.Definition, proposed.Definition) {
				return nil
			}
			breaking, err := s.analyzer.Diff(existing.Definition, proposed.Definition)
			if err != nil {
				return domainerrors.New(domainerrors.CodeInternal, "breaking-change analysis failed", err)
			}
			if breaking != nil {
				return (&domainerrors.Error{Code: domainerrors.CodeReferenceExists, Message: "breaking-change: " + breaking.Reason}).
					WithContext(map[string]interface{}{
						"field": breaking.Field,
						"diff":  schema.RenderDiff(existing.Definition, proposed.Definition),
					})
			}
			return nil
		},
		DeleteGuard: func(v entity.Schema) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateSchemaReferences {
				return nil
			}
			referrers := 0
			s.addresses.Each(func(a entity.Address) bool {
				if a.SchemaID != nil && *a.SchemaID == v.ID {
					referrers++
					return false
				}
				return true
			})
			if referrers == 0 {
				s.deliveries.Each(func(d entity.Delivery) bool {
					if d.SchemaID != nil && *d.SchemaID == v.ID {
						referrers++
						return false
					}
					return true
				})
			}
			if referrers == 0 {
				s.processors.Each(func(p entity.Processor) bool {
					if (p.InputSchemaID != nil && *p.InputSchemaID == v.ID) || (p.OutputSchemaID != nil && *p.OutputSchemaID == v.ID) {
						referrers++
						return false
					}
					return true
				})
			}
			if referrers == 0 {
				s.assignments.Each(func(a entity.Assignment) bool {
					if a.Plugin == nil {
						return true
					}
					if (a.Plugin.InputSchemaID != nil && *a.Plugin.InputSchemaID == v.ID) || (a.Plugin.OutputSchemaID != nil && *a.Plugin.OutputSchemaID == v.ID) {
						referrers++
						return false
					}
					return true
				})
			}
			if referrers > 0 {
				return domainerrors.ReferenceExists("schema", v.ID.String(), "address/delivery/processor/plugin")
			}
			return nil
		},
		RefFields: map[string]func(entity.Schema) []entity.ID{},
	}
}

func (s *Server) addressResource() *Resource[entity.Address] {
	return &Resource[entity.Address]{
		Name:  "address",
		Store: s.addresses,
		SetID: func(v entity.Address, id entity.ID) entity.Address { v.ID = id; return v },
		Validate: func(v entity.Address) error {
			if err := v.Validate(); err != nil {
				return err
			}
			return s.checkSchemaRef(v.SchemaID)
		},
		CompositeLookup: func(key string) (entity.Address, error) { return s.addresses.GetByKey(key) },
		DeleteGuard: func(v entity.Address) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateAssignmentReferences {
				return nil
			}
			referenced := false
			s.assignments.Each(func(a entity.Assignment) bool {
				for _, id := range a.TargetEntityIDs {
					if id == v.ID {
						referenced = true
						return false
					}
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("address", v.ID.String(), "assignment")
			}
			return nil
		},
		RefFields: map[string]func(entity.Address) []entity.ID{
			"schemaId": func(v entity.Address) []entity.ID { return idPtr(nil, v.SchemaID) },
		},
	}
}

func (s *Server) deliveryResource() *Resource[entity.Delivery] {
	return &Resource[entity.Delivery]{
		Name:  "delivery",
		Store: s.deliveries,
		SetID: func(v entity.Delivery, id entity.ID) entity.Delivery { v.ID = id; return v },
		Validate: func(v entity.Delivery) error {
			if err := v.Validate(); err != nil {
				return err
			}
			return s.checkSchemaRef(v.SchemaID)
		},
		DeleteGuard: func(v entity.Delivery) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateAssignmentReferences {
				return nil
			}
			referenced := false
			s.assignments.Each(func(a entity.Assignment) bool {
				for _, id := range a.TargetEntityIDs {
					if id == v.ID {
						referenced = true
						return false
					}
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("delivery", v.ID.String(), "assignment")
			}
			return nil
		},
		RefFields: map[string]func(entity.Delivery) []entity.ID{
			"schemaId": func(v entity.Delivery) []entity.ID { return idPtr(nil, v.SchemaID) },
		},
	}
}

func (s *Server) processorResource() *Resource[entity.Processor] {
	return &Resource[entity.Processor]{
		Name:  "processor",
		Store: s.processors,
		SetID: func(v entity.Processor, id entity.ID) entity.Processor { v.ID = id; return v },
		Validate: func(v entity.Processor) error {
			if err := v.Validate(); err != nil {
				return err
			}
			if err := s.checkSchemaRef(v.InputSchemaID); err != nil {
				return err
			}
			return s.checkSchemaRef(v.OutputSchemaID)
		},
		CompositeLookup: func(key string) (entity.Processor, error) { return s.processors.GetByKey(key) },
		DeleteGuard: func(v entity.Processor) error {
			if !s.refIntegrityEnabled() {
				return nil
			}
			referenced := false
			s.steps.Each(func(step entity.Step) bool {
				if step.ProcessorID == v.ID {
					referenced = true
					return false
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("processor", v.ID.String(), "step")
			}
			return nil
		},
		RefFields: map[string]func(entity.Processor) []entity.ID{
			"inputSchemaId":  func(v entity.Processor) []entity.ID { return idPtr(nil, v.InputSchemaID) },
			"outputSchemaId": func(v entity.Processor) []entity.ID { return idPtr(nil, v.OutputSchemaID) },
		},
	}
}

func (s *Server) stepResource() *Resource[entity.Step] {
	return &Resource[entity.Step]{
		Name:  "step",
		Store: s.steps,
		SetID: func(v entity.Step, id entity.ID) entity.Step { v.ID = id; return v },
		Validate: func(v entity.Step) error {
			if err := v.Validate(); err != nil {
				return err
			}
			if !s.processors.Exists(v.ProcessorID) {
				return domainerrors.ValidationFailure("step references an unknown processorId", map[string]interface{}{"processorId": v.ProcessorID.String()})
			}
			return nil
		},
		DeleteGuard: func(v entity.Step) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateStepReferences {
				return nil
			}
			referenced := false
			s.workflows.Each(func(wf entity.Workflow) bool {
				for _, id := range wf.StepIDs {
					if id == v.ID {
						referenced = true
						return false
					}
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("step", v.ID.String(), "workflow")
			}
			return nil
		},
		RefFields: map[string]func(entity.Step) []entity.ID{
			"processorId": func(v entity.Step) []entity.ID { return []entity.ID{v.ProcessorID} },
		},
	}
}

func (s *Server) workflowResource() *Resource[entity.Workflow] {
	return &Resource[entity.Workflow]{
		Name:  "workflow",
		Store: s.workflows,
		SetID: func(v entity.Workflow, id entity.ID) entity.Workflow { v.ID = id; return v },
		Validate: func(v entity.Workflow) error {
			if err := v.Validate(); err != nil {
				return err
			}
			steps := make(map[entity.ID]entity.Step, len(v.StepIDs))
			for _, id := range v.StepIDs {
				if !s.steps.Exists(id) {
					return domainerrors.ValidationFailure("workflow references an unknown stepId", map[string]interface{}{"stepId": id.String()})
				}
				step, err := s.steps.Get(id)
				if err != nil {
					return err
				}
				steps[id] = step
			}
			if s.cfg != nil && s.cfg.Features.RejectCyclicWorkflows {
				if err := workflow.ValidateAcyclic(steps); err != nil {
					return err
				}
			}
			return nil
		},
		DeleteGuard: func(v entity.Workflow) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateWorkflowReferences {
				return nil
			}
			referenced := false
			s.orchestratedFlows.Each(func(f entity.OrchestratedFlow) bool {
				if f.WorkflowID == v.ID {
					referenced = true
					return false
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("workflow", v.ID.String(), "orchestratedFlow")
			}
			return nil
		},
		RefFields: map[string]func(entity.Workflow) []entity.ID{
			"stepId": func(v entity.Workflow) []entity.ID { return v.StepIDs },
		},
	}
}

func (s *Server) orchestratedFlowResource() *Resource[entity.OrchestratedFlow] {
	return &Resource[entity.OrchestratedFlow]{
		Name:  "orchestratedFlow",
		Store: s.orchestratedFlows,
		SetID: func(v entity.OrchestratedFlow, id entity.ID) entity.OrchestratedFlow { v.ID = id; return v },
		Validate: func(v entity.OrchestratedFlow) error {
			if err := v.Validate(); err != nil {
				return err
			}
			if !s.workflows.Exists(v.WorkflowID) {
				return domainerrors.ValidationFailure("orchestratedFlow references an unknown workflowId", map[string]interface{}{"workflowId": v.WorkflowID.String()})
			}
			for _, id := range v.AssignmentIDs {
				if !s.assignments.Exists(id) {
					return domainerrors.ValidationFailure("orchestratedFlow references an unknown assignmentId", map[string]interface{}{"assignmentId": id.String()})
				}
			}
			return s.checkAssignmentCoverage(v)
		},
		RefFields: map[string]func(entity.OrchestratedFlow) []entity.ID{
			"workflowId":   func(v entity.OrchestratedFlow) []entity.ID { return []entity.ID{v.WorkflowID} },
			"assignmentId": func(v entity.OrchestratedFlow) []entity.ID { return v.AssignmentIDs },
		},
	}
}

func (s *Server) assignmentResource() *Resource[entity.Assignment] {
	return &Resource[entity.Assignment]{
		Name:  "assignment",
		Store: s.assignments,
		SetID: func(v entity.Assignment, id entity.ID) entity.Assignment { v.ID = id; return v },
		Validate: func(v entity.Assignment) error {
			if err := v.Validate(); err != nil {
				return err
			}
			if !s.steps.Exists(v.StepID) {
				return domainerrors.ValidationFailure("assignment references an unknown stepId", map[string]interface{}{"stepId": v.StepID.String()})
			}
			if v.Plugin != nil {
				if err := s.checkSchemaRef(v.Plugin.InputSchemaID); err != nil {
					return err
				}
				if err := s.checkSchemaRef(v.Plugin.OutputSchemaID); err != nil {
					return err
				}
			}
			return nil
		},
		DeleteGuard: func(v entity.Assignment) error {
			if !s.refIntegrityEnabled() || !s.cfg.ReferentialIntegrity.ValidateAssignmentReferences {
				return nil
			}
			referenced := false
			s.orchestratedFlows.Each(func(f entity.OrchestratedFlow) bool {
				for _, id := range f.AssignmentIDs {
					if id == v.ID {
						referenced = true
						return false
					}
				}
				return true
			})
			if referenced {
				return domainerrors.ReferenceExists("assignment", v.ID.String(), "orchestratedFlow")
			}
			return nil
		},
		RefFields: map[string]func(entity.Assignment) []entity.ID{
			"stepId":         func(v entity.Assignment) []entity.ID { return []entity.ID{v.StepID} },
			"targetEntityId": func(v entity.Assignment) []entity.ID { return v.TargetEntityIDs },
		},
	}
}

func (s *Server) checkSchemaRef(schemaID *entity.ID) error {
	if schemaID == nil {
		return nil
	}
	if !s.schemas.Exists(*schemaID) {
		return domainerrors.ValidationFailure("referenced schema does not exist", map[string]interface{}{"schemaId": schemaID.String()})
	}
	return nil
}

// checkAssignmentCoverage enforces the OrchestratedFlow assignment-coverage
// check: every step the flow's workflow lists in StepIDs must be the stepId
// of at least one assignment in AssignmentIDs. It applies to every listed
// step; it does not tell apart steps whose processor needs no assignment.
func (s *Server) checkAssignmentCoverage(flow entity.OrchestratedFlow) error {
	workflow, err := s.workflows.Get(flow.WorkflowID)
	if err != nil {
		return err
	}
	assigned := make(map[entity.ID]bool, len(flow.AssignmentIDs))
	for _, aid := range flow.AssignmentIDs {
		a, err := s.assignments.Get(aid)
		if err != nil {
			continue
		}
		assigned[a.StepID] = true
	}
	for _, stepID := range workflow.StepIDs {
		if !assigned[stepID] {
			return domainerrors.ValidationFailure("orchestratedFlow does not cover every workflow step with an assignment", map[string]interface{}{"stepId": stepID.String()})
		}
	}
	return nil
}
