package moltbook

import (
	"fmt"
	"strings"
)

// HTTPError is raised when the primary backend answers with a non-2xx status.
// Body holds the raw response body so the caller can diagnose the cause.
type HTTPError struct {
	Backend BackendName
	Status  int
	Body    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Backend, e.Status, e.Body)
}

// NetworkError is raised when a backend cannot be reached or its reply cannot be read
type NetworkError struct {
	Backend BackendName
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network error: %v", e.Backend, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports caller-supplied tool arguments that fail their schema
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Reason)
}

// ValidationErrors collects every failed field of a single call
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
