// ABOUTME: Error taxonomy for entity store operations
// ABOUTME: Every failed call surfaces exactly one of these three error kinds
package client

import (
	"fmt"
	"strings"
)

// NetworkError is a transport failure or a 5xx response. The store was
// unreachable or broken; nothing can be said about the entity.
type NetworkError struct {
	Op   string
	Kind string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError is a 404 on an id-addressed operation.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ValidationError reports missing required fields, caught client-side before
// any network call or surfaced from a 4xx validation response.
type ValidationError struct {
	Kind   string
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: missing required fields: %s", e.Kind, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}
