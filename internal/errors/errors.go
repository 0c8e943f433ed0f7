// Package errors collects multiple independent errors into one value.
package errors

import "strings"

// ErrorList aggregates errors reported while validating a single input.
type ErrorList struct {
	errors []error
}

// Add appends err unless it is nil.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

func (e *ErrorList) Error() string {
	errStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errStrings[i] = err.Error()
	}
	return strings.Join(errStrings, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.errors
}

func (e *ErrorList) HasErrors() bool {
	return len(e.errors) > 0
}

// ErrorOrNil returns nil when no errors were added.
func (e *ErrorList) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
