package managerapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/appconfig"
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/schema"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := &appconfig.Config{
		Features: appconfig.Features{ReferentialIntegrityValidation: true},
		ReferentialIntegrity: appconfig.ReferentialIntegrity{
			ValidateAssignmentReferences: true,
			ValidateSchemaReferences:     true,
			ValidateStepReferences:       true,
			ValidateWorkflowReferences:   true,
		},
	}
	s := NewServer(cfg, schema.New())
	return s, s.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSchemaCRUD_CreateGetUpdateDelete(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	createResp := doJSON(t, router, http.MethodPost, "/api/schema", map[string]interface{}{
		"name":       "widget",
		"definition": map[string]interface{}{"type": "object", "required": []string{"x"}, "properties": map[string]interface{}{"x": map[string]string{"type": "string"}}},
	})
	require.Equal(t, http.StatusCreated, createResp.Code)

	var created entity.Schema
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))
	require.NotEqual(t, entity.ZeroID, created.ID)

	getResp := doJSON(t, router, http.MethodGet, "/api/schema/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, getResp.Code)

	deleteResp := doJSON(t, router, http.MethodDelete, "/api/schema/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, deleteResp.Code)

	missingResp := doJSON(t, router, http.MethodGet, "/api/schema/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, missingResp.Code)
}

func TestSchemaUpdate_BreakingChangeReturns409(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	createResp := doJSON(t, router, http.MethodPost, "/api/schema", map[string]interface{}{
		"name": "widget",
		"definition": map[string]interface{}{
			"type":       "object",
			"required":   []string{"x", "y"},
			"properties": map[string]interface{}{"x": map[string]string{"type": "string"}, "y": map[string]string{"type": "string"}},
		},
	})
	require.Equal(t, http.StatusCreated, createResp.Code)
	var created entity.Schema
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	updateResp := doJSON(t, router, http.MethodPut, "/api/schema/"+created.ID.String(), map[string]interface{}{
		"name":     "widget",
		"version":  created.Version,
		"definition": map[string]interface{}{
			"type":       "object",
			"required":   []string{"x"},
			"properties": map[string]interface{}{"x": map[string]string{"type": "string"}},
		},
	})
	require.Equal(t, http.StatusConflict, updateResp.Code)
	require.Contains(t, updateResp.Body.String(), "Required field removed: 'y'")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(updateResp.Body.Bytes(), &body))
	context, ok := body["context"].(map[string]interface{})
	require.True(t, ok, "expected a context object in the 409 body")
	diffText, ok := context["diff"].(string)
	require.True(t, ok, "expected a rendered diff string in the 409 body")
	require.NotEmpty(t, diffText)
}

func TestAddressCreate_RejectsUnknownSchemaReference(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodPost, "/api/address", map[string]interface{}{
		"name":             "source-1",
		"connectionString": "s3://bucket/key",
		"payload":          map[string]string{},
		"schemaId":         entity.NewID().String(),
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAddressCreate_RejectsDuplicateConnectionString(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	body := map[string]interface{}{
		"name":             "source-1",
		"connectionString": "file:///tmp/a.txt",
		"payload":          map[string]string{},
	}
	first := doJSON(t, router, http.MethodPost, "/api/address", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/api/address", body)
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestPaging_RejectsOutOfRangePageSize(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodGet, "/api/address/paged?page=1&pageSize=101", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/address/paged?page=0&pageSize=10", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestOrchestratedFlowCreate_RejectsIncompleteAssignmentCoverage(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	processorResp := doJSON(t, router, http.MethodPost, "/api/processor", map[string]interface{}{"name": "reader", "version": 1})
	require.Equal(t, http.StatusCreated, processorResp.Code)
	var processor entity.Processor
	require.NoError(t, json.Unmarshal(processorResp.Body.Bytes(), &processor))

	stepResp := doJSON(t, router, http.MethodPost, "/api/step", map[string]interface{}{
		"processorId":    processor.ID.String(),
		"nextStepIds":    []string{},
		"entryCondition": string(entity.Always),
	})
	require.Equal(t, http.StatusCreated, stepResp.Code)
	var step entity.Step
	require.NoError(t, json.Unmarshal(stepResp.Body.Bytes(), &step))

	workflowResp := doJSON(t, router, http.MethodPost, "/api/workflow", map[string]interface{}{
		"name":    "wf",
		"stepIds": []string{step.ID.String()},
	})
	require.Equal(t, http.StatusCreated, workflowResp.Code)
	var workflow entity.Workflow
	require.NoError(t, json.Unmarshal(workflowResp.Body.Bytes(), &workflow))

	flowResp := doJSON(t, router, http.MethodPost, "/api/orchestratedflow", map[string]interface{}{
		"workflowId":    workflow.ID.String(),
		"assignmentIds": []string{},
	})
	require.Equal(t, http.StatusBadRequest, flowResp.Code)
}

func TestDeleteSchema_RejectedWhenReferenced(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	schemaResp := doJSON(t, router, http.MethodPost, "/api/schema", map[string]interface{}{
		"name":       "widget",
		"definition": map[string]interface{}{"type": "object"},
	})
	require.Equal(t, http.StatusCreated, schemaResp.Code)
	var createdSchema entity.Schema
	require.NoError(t, json.Unmarshal(schemaResp.Body.Bytes(), &createdSchema))

	addressResp := doJSON(t, router, http.MethodPost, "/api/address", map[string]interface{}{
		"name":             "source-1",
		"connectionString": "file:///tmp/b.txt",
		"payload":          map[string]string{},
		"schemaId":         createdSchema.ID.String(),
	})
	require.Equal(t, http.StatusCreated, addressResp.Code)

	deleteResp := doJSON(t, router, http.MethodDelete, "/api/schema/"+createdSchema.ID.String(), nil)
	require.Equal(t, http.StatusConflict, deleteResp.Code)
}

func TestExistsEndpoint_ReportsReferencingAddress(t *testing.T) {
	t.Parallel()
	_, router := newTestServer(t)

	schemaResp := doJSON(t, router, http.MethodPost, "/api/schema", map[string]interface{}{
		"name":       "widget",
		"definition": map[string]interface{}{"type": "object"},
	})
	var createdSchema entity.Schema
	require.NoError(t, json.Unmarshal(schemaResp.Body.Bytes(), &createdSchema))

	doJSON(t, router, http.MethodPost, "/api/address", map[string]interface{}{
		"name":             "source-1",
		"connectionString": "file:///tmp/c.txt",
		"payload":          map[string]string{},
		"schemaId":         createdSchema.ID.String(),
	})

	resp := doJSON(t, router, http.MethodGet, "/api/address/schemaId/"+createdSchema.ID.String()+"/exists", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body["exists"])
}

func TestWorkflowCreate_RejectsCycleWhenFeatureEnabled(t *testing.T) {
	t.Parallel()
	cfg := &appconfig.Config{
		Features: appconfig.Features{RejectCyclicWorkflows: true},
	}
	s := NewServer(cfg, schema.New())
	router := s.Router()

	processorResp := doJSON(t, router, http.MethodPost, "/api/processor", map[string]interface{}{"name": "reader", "version": 1})
	var processor entity.Processor
	require.NoError(t, json.Unmarshal(processorResp.Body.Bytes(), &processor))

	firstResp := doJSON(t, router, http.MethodPost, "/api/step", map[string]interface{}{
		"processorId":    processor.ID.String(),
		"nextStepIds":    []string{},
		"entryCondition": string(entity.Always),
	})
	var first entity.Step
	require.NoError(t, json.Unmarshal(firstResp.Body.Bytes(), &first))

	secondResp := doJSON(t, router, http.MethodPost, "/api/step", map[string]interface{}{
		"processorId":    processor.ID.String(),
		"nextStepIds":    []string{first.ID.String()},
		"entryCondition": string(entity.Always),
	})
	var second entity.Step
	require.NoError(t, json.Unmarshal(secondResp.Body.Bytes(), &second))

	// Close the cycle: first now points back at second.
	first.NextStepIDs = []entity.ID{second.ID}
	updateResp := doJSON(t, router, http.MethodPut, "/api/step/"+first.ID.String(), map[string]interface{}{
		"processorId":    processor.ID.String(),
		"nextStepIds":    []string{second.ID.String()},
		"entryCondition": string(entity.Always),
	})
	require.Equal(t, http.StatusOK, updateResp.Code)

	workflowResp := doJSON(t, router, http.MethodPost, "/api/workflow", map[string]interface{}{
		"name":    "cyclic",
		"stepIds": []string{first.ID.String(), second.ID.String()},
	})
	require.Equal(t, http.StatusBadRequest, workflowResp.Code)
}
