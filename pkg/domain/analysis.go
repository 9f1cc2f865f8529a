package domain

import (
	"fmt"
	"strings"
)

// HealthStatusOK is the only status the service reports while running
const HealthStatusOK = "ok"

// AnalysisRequest is a single file submitted for analysis
type AnalysisRequest struct {
	Repo    string `json:"repo"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// AnalysisResponse echoes the analyzed file's location with its insights
type AnalysisResponse struct {
	Repo     string   `json:"repo"`
	Path     string   `json:"path"`
	Insights []string `json:"insights"`
}

// HealthStatus reports service liveness
type HealthStatus struct {
	Status string `json:"status"`
}

// FieldError describes why a single request field was rejected
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a request body fails required-field or
// type checks.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
