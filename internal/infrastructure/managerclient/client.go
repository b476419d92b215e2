// Package managerclient implements ports.OrchestratedFlowResolver against
// the internal/managerapi HTTP surface (spec.md §6), following the same
// fan-out/join pattern (indexed error slice + sync.WaitGroup) the
// orchestration consumers use for concurrent per-edge work.
package managerclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/appconfig"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Client resolves an OrchestratedFlow's full entity graph over HTTP,
// one request per entity, following the base URLs configured under
// appconfig.Config.ManagerUrls.
type Client struct {
	http   *http.Client
	urls   appconfig.ManagerUrls
	logger ports.Logger
}

// New constructs a Client. A nil httpClient defaults to a 10 second
// per-request timeout, matching the manager surface's synchronous CRUD
// contract (no long-poll or streaming endpoints).
func New(urls appconfig.ManagerUrls, httpClient *http.Client, logger ports.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{http: httpClient, urls: urls, logger: logger}
}

func getJSON[T any](ctx context.Context, c *Client, baseURL, path string) (T, error) {
	var out T
	if baseURL == "" {
		return out, domainerrors.New(domainerrors.CodeManagerUnavailable, "manager base url not configured for "+path, nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return out, domainerrors.ManagerUnavailable(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(ctx, "manager request failed", "path", path, "error", err.Error())
		}
		return out, domainerrors.ManagerUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return out, domainerrors.NotFound("entity", path)
	}
	if resp.StatusCode >= 500 {
		if c.logger != nil {
			c.logger.Warn(ctx, "manager returned server error", "path", path, "status", resp.StatusCode)
		}
		return out, domainerrors.ManagerUnavailable(fmt.Errorf("manager returned %d for %s", resp.StatusCode, path))
	}
	if resp.StatusCode >= 400 {
		return out, domainerrors.ValidationFailure(fmt.Sprintf("manager rejected %s with %d", path, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, domainerrors.ManagerUnavailable(err)
	}
	return out, nil
}

// ResolveOrchestratedFlow loads the orchestrated flow, its workflow, every
// step the workflow lists in StepIDs, each step's processor, and the
// assignments the flow pins, then flattens them into a ports.ResolvedFlow.
func (c *Client) ResolveOrchestratedFlow(ctx context.Context, orchestratedFlowID entity.ID) (ports.ResolvedFlow, error) {
	flow, err := getJSON[entity.OrchestratedFlow](ctx, c, c.urls.OrchestratedFlow, "/api/orchestratedflow/"+orchestratedFlowID.String())
	if err != nil {
		return ports.ResolvedFlow{}, err
	}

	workflow, err := getJSON[entity.Workflow](ctx, c, c.urls.Workflow, "/api/workflow/"+flow.WorkflowID.String())
	if err != nil {
		return ports.ResolvedFlow{}, err
	}

	steps, err := c.fetchSteps(ctx, workflow.StepIDs)
	if err != nil {
		return ports.ResolvedFlow{}, err
	}

	processorIDs := uniqueProcessorIDs(steps)
	processors, err := c.fetchProcessors(ctx, processorIDs)
	if err != nil {
		return ports.ResolvedFlow{}, err
	}

	assignments, err := c.fetchAssignments(ctx, flow.AssignmentIDs)
	if err != nil {
		return ports.ResolvedFlow{}, err
	}

	return ports.ResolvedFlow{
		OrchestratedFlow: flow,
		Workflow:         workflow,
		Steps:            steps,
		Processors:       processors,
		Assignments:      assignments,
	}, nil
}

func uniqueProcessorIDs(steps map[entity.ID]entity.Step) []entity.ID {
	seen := make(map[entity.ID]bool, len(steps))
	ids := make([]entity.ID, 0, len(steps))
	for _, step := range steps {
		if seen[step.ProcessorID] {
			continue
		}
		seen[step.ProcessorID] = true
		ids = append(ids, step.ProcessorID)
	}
	return ids
}

func (c *Client) fetchSteps(ctx context.Context, stepIDs []entity.ID) (map[entity.ID]entity.Step, error) {
	results := make([]entity.Step, len(stepIDs))
	errs := make([]error, len(stepIDs))
	var wg sync.WaitGroup
	for i, id := range stepIDs {
		wg.Add(1)
		go func(i int, id entity.ID) {
			defer wg.Done()
			results[i], errs[i] = getJSON[entity.Step](ctx, c, c.urls.Step, "/api/step/"+id.String())
		}(i, id)
	}
	wg.Wait()

	steps := make(map[entity.ID]entity.Step, len(stepIDs))
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		steps[stepIDs[i]] = results[i]
	}
	return steps, nil
}

func (c *Client) fetchProcessors(ctx context.Context, processorIDs []entity.ID) (map[entity.ID]entity.Processor, error) {
	results := make([]entity.Processor, len(processorIDs))
	errs := make([]error, len(processorIDs))
	var wg sync.WaitGroup
	for i, id := range processorIDs {
		wg.Add(1)
		go func(i int, id entity.ID) {
			defer wg.Done()
			results[i], errs[i] = getJSON[entity.Processor](ctx, c, c.urls.Processor, "/api/processor/"+id.String())
		}(i, id)
	}
	wg.Wait()

	processors := make(map[entity.ID]entity.Processor, len(processorIDs))
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		processors[processorIDs[i]] = results[i]
	}
	return processors, nil
}

func (c *Client) fetchAssignments(ctx context.Context, assignmentIDs []entity.ID) (map[entity.ID][]entity.Assignment, error) {
	results := make([]entity.Assignment, len(assignmentIDs))
	errs := make([]error, len(assignmentIDs))
	var wg sync.WaitGroup
	for i, id := range assignmentIDs {
		wg.Add(1)
		go func(i int, id entity.ID) {
			defer wg.Done()
			results[i], errs[i] = getJSON[entity.Assignment](ctx, c, c.urls.Assignment, "/api/assignment/"+id.String())
		}(i, id)
	}
	wg.Wait()

	byStep := make(map[entity.ID][]entity.Assignment, len(assignmentIDs))
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		assignment := results[i]
		byStep[assignment.StepID] = append(byStep[assignment.StepID], assignment)
	}
	return byStep, nil
}

// Resolve implements ports.SchemaResolver for the processor runtime's
// input/output validation path.
func (c *Client) Resolve(ctx context.Context, id entity.ID) (entity.Schema, error) {
	return getJSON[entity.Schema](ctx, c, c.urls.Schema, "/api/schema/"+id.String())
}

var (
	_ ports.OrchestratedFlowResolver = (*Client)(nil)
	_ ports.SchemaResolver           = (*Client)(nil)
)
