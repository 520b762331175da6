// Package tools contains the pure validation and formatting functions the
// coaching agents may invoke. A tool takes typed input, validates it and
// returns a structured record or a ValidationError. Tools have no side
// effects: persistence and context updates are the caller's responsibility.
package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidationError reports malformed tool input. It is recoverable: the
// calling agent surfaces it to the user as a corrective prompt.
type ValidationError struct {
	// Field is the input field that failed validation.
	Field string
	// Reason explains what was wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalid is a shorthand constructor used throughout the package.
func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Result is a successful tool invocation: a human-readable summary for the
// conversation plus the structured record for the caller to apply.
type Result struct {
	// Summary is the text fed back into the conversation.
	Summary string
	// Data is the structured record (models.ProgressEntry, models.Goal,
	// models.MealPlan, models.WorkoutPlan or CheckinSchedule).
	Data interface{}
}

// Tool is one validate-and-structure function exposed to the agents.
type Tool interface {
	// Name is the identifier used in capability tables and LLM tool calls.
	Name() string
	// Description is shown to the LLM as the tool description.
	Description() string
	// InputSchema returns the JSON schema properties and required fields
	// for the tool's input.
	InputSchema() (properties map[string]interface{}, required []string)
	// Execute validates the JSON input and returns a structured result.
	// Input errors are returned as *ValidationError.
	Execute(input json.RawMessage) (*Result, error)
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry containing the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Get returns the tool with the given name, or nil if unknown.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Names returns all registered tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// decodeInput unmarshals tool input strictly, rejecting unknown fields so
// malformed LLM calls fail loudly instead of silently dropping data.
func decodeInput(input json.RawMessage, v interface{}) error {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("input", "malformed JSON: %v", err)
	}
	return nil
}
