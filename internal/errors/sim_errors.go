package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the failures the simulation core can report. Every error
// that crosses a package boundary inside the core carries one of these.
type Kind string

const (
	// KindInvalidConfiguration covers out-of-range strategy parameters,
	// unknown variants, and empty date ranges.
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"

	// KindInsufficientData means the supplied price series has no periods
	// in the requested range. The data collaborator owns retries; the core
	// fails fast.
	KindInsufficientData Kind = "INSUFFICIENT_DATA"

	// KindInsufficientSamples means a significance test was given fewer
	// than two samples on a side.
	KindInsufficientSamples Kind = "INSUFFICIENT_SAMPLES"
)

// SimError is a categorized simulation error with component context.
type SimError struct {
	Kind       Kind
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *SimError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Kind, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Kind, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// New creates a new categorized simulation error.
func New(kind Kind, component, operation, message string) *SimError {
	return &SimError{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// Newf creates a new categorized simulation error with a formatted message.
func Newf(kind Kind, component, operation, format string, args ...interface{}) *SimError {
	return New(kind, component, operation, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with simulation error context.
func Wrap(err error, kind Kind, component, operation string) *SimError {
	if err == nil {
		return nil
	}
	return &SimError{
		Kind:       kind,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// IsKind reports whether err (or anything it wraps) is a SimError of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var simErr *SimError
	if errors.As(err, &simErr) {
		return simErr.Kind == kind
	}
	return false
}

// IsInvalidConfiguration reports whether err is an InvalidConfiguration error.
func IsInvalidConfiguration(err error) bool {
	return IsKind(err, KindInvalidConfiguration)
}

// IsInsufficientData reports whether err is an InsufficientData error.
func IsInsufficientData(err error) bool {
	return IsKind(err, KindInsufficientData)
}

// IsInsufficientSamples reports whether err is an InsufficientSamples error.
func IsInsufficientSamples(err error) bool {
	return IsKind(err, KindInsufficientSamples)
}
