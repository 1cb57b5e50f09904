// Package openapi projects controller descriptors onto a Swagger 2.0 document.
// Generated route code does not depend on it; gen writes the document next to
// the route files when json or yaml output is requested.
package openapi

import (
	"github.com/go-openapi/spec"

	"github.com/griffnb/core-routegen/internal/domain"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// StructLookup resolves body and result types to their declarations.
type StructLookup interface {
	LookupStruct(t domain.TypeRef) (*domain.Struct, bool)
}

// Service registers descriptors on a swagger document.
type Service struct {
	strict  bool
	debug   Debugger
	structs StructLookup
}

// Option configures a Service.
type Option func(*Service)

// WithStrict makes a route declared twice an error instead of a warning.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		if debugger != nil {
			s.debug = debugger
		}
	}
}

// WithStructs enables definitions for body and result structs.
func WithStructs(structs StructLookup) Option {
	return func(s *Service) {
		s.structs = structs
	}
}

// NewService creates a new openapi service
func NewService(options ...Option) *Service {
	s := &Service{debug: &noOpDebugger{}}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NewSwagger returns an empty document.
func NewSwagger(title, version string) *spec.Swagger {
	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:   title,
					Version: version,
				},
			},
			Paths: &spec.Paths{
				Paths: make(map[string]spec.PathItem),
			},
			Definitions: make(spec.Definitions),
		},
	}
}
