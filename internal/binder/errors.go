package binder

import "errors"

// Binding failures. The orchestrator adds controller and method context.
var (
	// ErrAmbiguousPathVariable is returned when two parameters claim one path variable.
	ErrAmbiguousPathVariable = errors.New("ambiguous path variable")
	// ErrUnsupportedParameterSource is returned when the backend cannot read a source.
	ErrUnsupportedParameterSource = errors.New("unsupported parameter source")
	// ErrMissingRequiredParameter is returned when a path binding names no template variable.
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	// ErrDuplicateBody is returned for a second body binding.
	ErrDuplicateBody = errors.New("duplicate body parameter")
	// ErrUnsupportedParameterType is returned when a value binding has no converter.
	ErrUnsupportedParameterType = errors.New("unsupported parameter type")
	// ErrUnknownBean is returned when a bean type was not found in the scanned sources.
	ErrUnknownBean = errors.New("unknown bean type")
)
