// Package errors defines the error taxonomy shared by the orchestration
// core and the entity managers. It mirrors the teacher's domain error
// shape (a typed code plus contextual metadata) extended with the codes
// the orchestration fabric needs.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a well-known error category. Handlers at the HTTP and
// bus boundaries switch on Code to decide retry/surface behaviour.
type Code string

const (
	// CodeValidationFailure maps to HTTP 400; never retried.
	CodeValidationFailure Code = "VALIDATION_FAILURE"
	// CodeNotFound maps to HTTP 404; never retried.
	CodeNotFound Code = "NOT_FOUND"
	// CodeDuplicateKey maps to HTTP 409; never retried.
	CodeDuplicateKey Code = "DUPLICATE_KEY"
	// CodeReferenceExists maps to HTTP 409 with a referring-entity hint.
	CodeReferenceExists Code = "REFERENCE_EXISTS"
	// CodeValidatorUnavailable maps to HTTP 503; fail-safe reject.
	CodeValidatorUnavailable Code = "VALIDATOR_UNAVAILABLE"
	// CodeBusUnavailable is transient; retry with bounded backoff.
	CodeBusUnavailable Code = "BUS_UNAVAILABLE"
	// CodeCacheUnavailable is transient; retry with bounded backoff.
	CodeCacheUnavailable Code = "CACHE_UNAVAILABLE"
	// CodeManagerUnavailable is transient; retry with bounded backoff.
	CodeManagerUnavailable Code = "MANAGER_UNAVAILABLE"
	// CodeCacheConflict signals a failed PutIfAbsent atomicity check; never retried.
	CodeCacheConflict Code = "CACHE_CONFLICT"
	// CodeOrchestrationModelMissing is fatal for the current event; dead-letter, no retry.
	CodeOrchestrationModelMissing Code = "ORCHESTRATION_MODEL_MISSING"
	// CodeStepUnknown is fatal for the current event; dead-letter, no retry.
	CodeStepUnknown Code = "STEP_UNKNOWN"
	// CodePluginTimeout propagates through the graph as an ActivityFailedEvent.
	CodePluginTimeout Code = "PLUGIN_TIMEOUT"
	// CodePluginException propagates through the graph as an ActivityFailedEvent.
	CodePluginException Code = "PLUGIN_EXCEPTION"
	// CodeInternal is the catch-all for unexpected failures.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Retryable reports whether infrastructure should retry an operation that
// failed with this code. Only transient infrastructure errors are retryable;
// every business-logic error is surfaced immediately (§7 propagation policy).
func (c Code) Retryable() bool {
	return c == CodeBusUnavailable || c == CodeCacheUnavailable || c == CodeManagerUnavailable
}

// Error is a typed error enriched with contextual metadata, free of any
// transport (HTTP/bus) concern.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// New constructs an Error.
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is allows errors.Is comparisons keyed on Code alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithContext returns a copy of e with additional contextual metadata merged in.
func (e *Error) WithContext(ctx map[string]interface{}) *Error {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &Error{Code: e.Code, Message: e.Message, Cause: e.Cause, Context: merged}
}

// CodeOf extracts the Code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func ValidationFailure(message string, ctx map[string]interface{}) *Error {
	return (&Error{Code: CodeValidationFailure, Message: message}).WithContext(ctx)
}

func NotFound(entity, id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %q not found", entity, id), nil)
}

func DuplicateKey(entity, key string) *Error {
	return New(CodeDuplicateKey, fmt.Sprintf("%s with key %q already exists", entity, key), nil)
}

func ReferenceExists(entity, id, referrer string) *Error {
	return (&Error{Code: CodeReferenceExists, Message: fmt.Sprintf("%s %q is referenced by %s", entity, id, referrer)}).
		WithContext(map[string]interface{}{"referrer": referrer})
}

func ValidatorUnavailable(cause error) *Error {
	return New(CodeValidatorUnavailable, "schema validator unavailable", cause)
}

func BusUnavailable(cause error) *Error {
	return New(CodeBusUnavailable, "bus gateway unavailable", cause)
}

func CacheUnavailable(cause error) *Error {
	return New(CodeCacheUnavailable, "cache gateway unavailable", cause)
}

func ManagerUnavailable(cause error) *Error {
	return New(CodeManagerUnavailable, "entity manager unavailable", cause)
}

func CacheConflict(mapName, key string) *Error {
	return (&Error{Code: CodeCacheConflict, Message: "key already present"}).
		WithContext(map[string]interface{}{"map": mapName, "key": key})
}

func OrchestrationModelMissing(orchestratedFlowID string) *Error {
	return (&Error{Code: CodeOrchestrationModelMissing, Message: "orchestration cache model missing"}).
		WithContext(map[string]interface{}{"orchestrated_flow_id": orchestratedFlowID})
}

func StepUnknown(stepID string) *Error {
	return (&Error{Code: CodeStepUnknown, Message: "step not present in orchestration model"}).
		WithContext(map[string]interface{}{"step_id": stepID})
}

func PluginTimeout(cause error) *Error {
	return New(CodePluginTimeout, "plugin execution timed out", cause)
}

func PluginException(cause error) *Error {
	return New(CodePluginException, "plugin raised an exception", cause)
}
