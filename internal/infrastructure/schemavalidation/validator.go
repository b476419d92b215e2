// Package schemavalidation implements ports.SchemaValidator against the
// same structural JSON-Schema subset internal/schema's breaking-change
// analyzer reasons about (type, required, properties, minLength,
// maxLength, pattern): no JSON-Schema library appears anywhere in the
// example corpus, so this validator is a minimal hand-rolled structural
// engine rather than an adopted third-party dependency (see DESIGN.md).
package schemavalidation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// jsonSchema mirrors internal/schema's structural subset so both packages
// reject and accept the same documents.
type jsonSchema struct {
	Type       string                `json:"type"`
	Required   []string              `json:"required"`
	Properties map[string]jsonSchema `json:"properties"`
	MinLength  *int                  `json:"minLength"`
	MaxLength  *int                  `json:"maxLength"`
	Pattern    string                `json:"pattern"`
}

// Validator implements ports.SchemaValidator.
type Validator struct{}

func New() *Validator { return &Validator{} }

// Validate parses schema.Definition and payload, then checks payload's
// top-level object against the schema's required fields and each
// declared property's type and string constraints. A payload that isn't
// a JSON object when the schema declares type "object" fails validation,
// matching the schema's own Validate invariant that definitions are
// always well-formed JSON by the time they reach this stage.
func (v *Validator) Validate(_ context.Context, schema entity.Schema, payload []byte) error {
	var def jsonSchema
	if err := json.Unmarshal(schema.Definition, &def); err != nil {
		return domainerrors.ValidatorUnavailable(fmt.Errorf("schema %q definition unparseable: %w", schema.Name, err))
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		if def.Type == "object" {
			return domainerrors.ValidationFailure("payload is not a JSON object", map[string]interface{}{"schema": schema.Name})
		}
		return nil
	}

	for _, field := range sortedStrings(def.Required) {
		if _, ok := doc[field]; !ok {
			return domainerrors.ValidationFailure(fmt.Sprintf("payload missing required field '%s'", field), map[string]interface{}{"schema": schema.Name})
		}
	}

	for _, name := range sortedPropertyNames(def.Properties) {
		raw, present := doc[name]
		if !present {
			continue
		}
		if err := validateProperty(name, def.Properties[name], raw); err != nil {
			return err
		}
	}
	return nil
}

func validateProperty(name string, prop jsonSchema, raw json.RawMessage) error {
	switch prop.Type {
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' must be a string", name), nil)
		}
		if prop.MinLength != nil && len(s) < *prop.MinLength {
			return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' is shorter than minLength", name), nil)
		}
		if prop.MaxLength != nil && len(s) > *prop.MaxLength {
			return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' is longer than maxLength", name), nil)
		}
		if prop.Pattern != "" {
			re, err := regexp.Compile(prop.Pattern)
			if err != nil {
				return domainerrors.ValidatorUnavailable(fmt.Errorf("field %q has an invalid pattern: %w", name, err))
			}
			if !re.MatchString(s) {
				return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' does not match pattern", name), nil)
			}
		}
	case "integer", "number":
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' must be numeric", name), nil)
		}
		if prop.Type == "integer" {
			if _, err := n.Int64(); err != nil {
				return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' must be an integer", name), nil)
			}
		}
	case "boolean":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return domainerrors.ValidationFailure(fmt.Sprintf("field '%s' must be a boolean", name), nil)
		}
	case "object", "array", "":
		// Structural recursion into nested objects/arrays is outside the
		// breaking-change analyzer's own scope; accepted as-is.
	}
	return nil
}

func sortedStrings(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}

func sortedPropertyNames(props map[string]jsonSchema) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ ports.SchemaValidator = (*Validator)(nil)
