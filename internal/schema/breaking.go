// Package schema implements the breaking-change analysis from spec.md
// §4.7: a schema update is rejected if a required field was added or
// removed, a property's declared type changed incompatibly (only
// integer→number is compatible), a property was removed, or stricter
// validation rules were introduced. Unparseable schemas are treated
// conservatively as breaking.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flowmesh-io/orchestrator/internal/ports"
	"github.com/flowmesh-io/orchestrator/pkg/diff"
)

// jsonSchema is the minimal structural shape this analyzer reasons
// about — the subset of JSON Schema the spec's breaking-change rules
// actually reference.
type jsonSchema struct {
	Type       string                `json:"type"`
	Required   []string              `json:"required"`
	Properties map[string]jsonSchema `json:"properties"`
	MinLength  *int                  `json:"minLength"`
	MaxLength  *int                  `json:"maxLength"`
	Pattern    string                `json:"pattern"`
}

// Analyzer implements ports.BreakingChangeAnalyzer.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Diff(previous, proposed []byte) (*ports.BreakingChange, error) {
	var prev, next jsonSchema
	if err := json.Unmarshal(previous, &prev); err != nil {
		return &ports.BreakingChange{Reason: "previous schema is unparseable; rejecting conservatively"}, nil
	}
	if err := json.Unmarshal(proposed, &next); err != nil {
		return &ports.BreakingChange{Reason: "proposed schema is unparseable; rejecting conservatively"}, nil
	}

	if bc := diffRequired(prev, next); bc != nil {
		return bc, nil
	}
	if bc := diffProperties(prev, next); bc != nil {
		return bc, nil
	}
	return nil, nil
}

func diffRequired(prev, next jsonSchema) *ports.BreakingChange {
	prevSet := toSet(prev.Required)
	nextSet := toSet(next.Required)

	for _, field := range sortedKeys(prevSet) {
		if !nextSet[field] {
			return &ports.BreakingChange{
				Reason: fmt.Sprintf("Required field removed: '%s'", field),
				Field:  field,
			}
		}
	}
	for _, field := range sortedKeys(nextSet) {
		if !prevSet[field] {
			return &ports.BreakingChange{
				Reason: fmt.Sprintf("Required field added: '%s'", field),
				Field:  field,
			}
		}
	}
	return nil
}

func diffProperties(prev, next jsonSchema) *ports.BreakingChange {
	for _, name := range sortedPropertyNames(prev.Properties) {
		prevProp := prev.Properties[name]
		nextProp, ok := next.Properties[name]
		if !ok {
			return &ports.BreakingChange{Reason: fmt.Sprintf("Property removed: '%s'", name), Field: name}
		}
		if !typeCompatible(prevProp.Type, nextProp.Type) {
			return &ports.BreakingChange{
				Reason: fmt.Sprintf("Property '%s' type changed incompatibly: '%s' -> '%s'", name, prevProp.Type, nextProp.Type),
				Field:  name,
			}
		}
		if stricter(prevProp, nextProp) {
			return &ports.BreakingChange{Reason: fmt.Sprintf("Property '%s' gained stricter validation rules", name), Field: name}
		}
	}
	return nil
}

// typeCompatible implements the one named-compatible widening in
// spec.md §4.7: integer → number. Every other type change is breaking.
func typeCompatible(prevType, nextType string) bool {
	if prevType == nextType {
		return true
	}
	return prevType == "integer" && nextType == "number"
}

func stricter(prev, next jsonSchema) bool {
	if next.MinLength != nil && (prev.MinLength == nil || *next.MinLength > *prev.MinLength) {
		return true
	}
	if next.MaxLength != nil && (prev.MaxLength == nil || *next.MaxLength < *prev.MaxLength) {
		return true
	}
	if next.Pattern != "" && next.Pattern != prev.Pattern {
		return true
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPropertyNames(props map[string]jsonSchema) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RenderDiff produces a human-readable unified diff of the two raw
// schema documents, attached to the 409 response alongside the
// structural Reason, using the same unified-diff renderer the teacher
// uses for apply-plan previews.
func RenderDiff(previous, proposed []byte) string {
	return diff.GenerateUnifiedDiff(previous, proposed, "previous", "proposed")
}

var _ ports.BreakingChangeAnalyzer = (*Analyzer)(nil)
