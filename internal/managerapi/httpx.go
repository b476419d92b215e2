package managerapi

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// writeJSON writes v as a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its spec.md §6 HTTP status and writes
// a JSON error body. Unrecognised errors map to 500.
func writeError(w http.ResponseWriter, err error) {
	code, _ := domainerrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domainerrors.CodeValidationFailure:
		status = http.StatusBadRequest
	case domainerrors.CodeNotFound:
		status = http.StatusNotFound
	case domainerrors.CodeDuplicateKey, domainerrors.CodeReferenceExists, domainerrors.CodeCacheConflict:
		status = http.StatusConflict
	case domainerrors.CodeValidatorUnavailable:
		status = http.StatusServiceUnavailable
	}
	body := errorBody{Code: string(code), Message: err.Error()}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		body.Context = domainErr.Context
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domainerrors.ValidationFailure("request body is not valid JSON for this entity", map[string]interface{}{"error": err.Error()})
	}
	return nil
}
