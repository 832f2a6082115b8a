package app

import (
	"fmt"
	"sort"
	"strings"
)

// Custom application-level errors for the submission lifecycle.
var ErrInvalidStatus = fmt.Errorf("status is not one of the known values")
var ErrSameStatus = fmt.Errorf("submission already has this status")
var ErrTrackingCodeConflict = fmt.Errorf("could not generate a unique tracking code")
var ErrForbidden = fmt.Errorf("identity verification failed")

// ValidationError carries every field-level problem found in one request, so
// the caller can display them all at once instead of fixing one at a time.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
