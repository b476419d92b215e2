package managerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/appconfig"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

// fakeManager serves every entity type from one in-memory httptest server,
// keyed by request path, so ResolveOrchestratedFlow's fan-out can be
// exercised without a running managerapi.Server.
func fakeManager(t *testing.T, byPath map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value, ok := byPath[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(value))
	}))
}

func TestResolveOrchestratedFlow_AssemblesFullGraph(t *testing.T) {
	flowID := entity.NewID()
	workflowID := entity.NewID()
	stepID := entity.NewID()
	processorID := entity.NewID()
	assignmentID := entity.NewID()

	flow := entity.OrchestratedFlow{ID: flowID, WorkflowID: workflowID, AssignmentIDs: []entity.ID{assignmentID}}
	workflow := entity.Workflow{ID: workflowID, Name: "wf", StepIDs: []entity.ID{stepID}}
	step := entity.Step{ID: stepID, ProcessorID: processorID, EntryCondition: entity.Always}
	processor := entity.Processor{ID: processorID, Name: "reader", Version: 1}
	assignment := entity.Assignment{ID: assignmentID, StepID: stepID, Kind: entity.AssignmentKindAddress, Address: &entity.Address{ID: entity.NewID()}}

	srv := fakeManager(t, map[string]interface{}{
		"/api/orchestratedflow/" + flowID.String():  flow,
		"/api/workflow/" + workflowID.String():      workflow,
		"/api/step/" + stepID.String():               step,
		"/api/processor/" + processorID.String():     processor,
		"/api/assignment/" + assignmentID.String():   assignment,
	})
	defer srv.Close()

	urls := appconfig.ManagerUrls{
		OrchestratedFlow: srv.URL,
		Workflow:         srv.URL,
		Step:             srv.URL,
		Processor:        srv.URL,
		Assignment:       srv.URL,
	}
	client := New(urls, nil, nil)

	resolved, err := client.ResolveOrchestratedFlow(context.Background(), flowID)
	require.NoError(t, err)
	require.Equal(t, workflowID, resolved.Workflow.ID)
	require.Contains(t, resolved.Steps, stepID)
	require.Contains(t, resolved.Processors, processorID)
	require.Len(t, resolved.Assignments[stepID], 1)
}

func TestResolveOrchestratedFlow_PropagatesNotFound(t *testing.T) {
	srv := fakeManager(t, map[string]interface{}{})
	defer srv.Close()

	urls := appconfig.ManagerUrls{OrchestratedFlow: srv.URL}
	client := New(urls, nil, nil)

	_, err := client.ResolveOrchestratedFlow(context.Background(), entity.NewID())
	require.Error(t, err)
}

func TestResolveOrchestratedFlow_MissingBaseURLIsManagerUnavailable(t *testing.T) {
	client := New(appconfig.ManagerUrls{}, nil, nil)
	_, err := client.ResolveOrchestratedFlow(context.Background(), entity.NewID())
	require.Error(t, err)
}
