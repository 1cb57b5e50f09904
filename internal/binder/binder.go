// Package binder decides where each controller method parameter is read from
// and how it is converted.
//
// Parameters are classified in declaration order:
//
//  1. backend context types are passed through;
//  2. names of path variables (including matrix "idKey" names) bind to the path;
//  3. @path, @query, @header, @cookie, @form, @body and @bean directives bind explicitly;
//  4. structs whose fields carry binding tags are beans, types without a
//     converter are the body, everything else is a query value.
package binder

import (
	"fmt"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/naming"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
	"github.com/griffnb/core-routegen/pkg/convert"
)

// bindingTags are the struct tags that place a bean field, in precedence order.
var bindingTags = []string{"path", "query", "header", "cookie", "form"}

// Platform is the part of a backend the binder consults.
type Platform interface {
	IsContextType(t domain.TypeRef) bool
	ReadParameter(kind descriptor.SourceKind, wireName string, def *string) (string, error)
}

// StructLookup finds struct declarations for bean expansion.
type StructLookup interface {
	LookupStruct(t domain.TypeRef) (*domain.Struct, bool)
}

// Binder binds the parameters of methods. It is stateless and safe for concurrent use.
type Binder struct {
	platform Platform
	structs  StructLookup
	registry *convert.Registry
	naming   string
}

// Option configures a Binder.
type Option func(*Binder)

// WithRegistry replaces convert.Default.
func WithRegistry(registry *convert.Registry) Option {
	return func(b *Binder) {
		b.registry = registry
	}
}

// WithNamingStrategy sets how untagged bean fields are named on the wire.
func WithNamingStrategy(strategy string) Option {
	return func(b *Binder) {
		b.naming = strategy
	}
}

// New creates a binder for one backend.
func New(platform Platform, structs StructLookup, opts ...Option) *Binder {
	b := &Binder{
		platform: platform,
		structs:  structs,
		registry: convert.Default,
		naming:   naming.CamelCase,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the binding of one method.
type Result struct {
	Params   []descriptor.ParamBinding
	Args     []descriptor.Argument
	BodyType *domain.TypeRef
}

// state tracks what one method has claimed so far.
type state struct {
	tmpl    *pathtemplate.Template
	claimed map[string]string
	body    bool
}

// claim records that owner reads path variable varName.
func (s *state) claim(varName, owner string) error {
	if prev, ok := s.claimed[varName]; ok {
		return fmt.Errorf("%w: %q is bound by %s and %s", ErrAmbiguousPathVariable, varName, prev, owner)
	}
	s.claimed[varName] = owner
	return nil
}

// pathVariable returns the first candidate naming a variable of the template.
func (s *state) pathVariable(candidates ...string) (string, bool) {
	for _, name := range candidates {
		if s.tmpl.IsPathParameter(name) {
			return name, true
		}
	}
	return "", false
}

// Bind classifies every parameter of m against the method's path template.
func (b *Binder) Bind(m *domain.Method, tmpl *pathtemplate.Template) (*Result, error) {
	st := &state{tmpl: tmpl, claimed: make(map[string]string)}
	result := &Result{}

	for _, param := range m.Params {
		if b.platform.IsContextType(param.Type) {
			result.Args = append(result.Args, descriptor.Argument{
				Name:    param.Name,
				Type:    param.Type,
				Context: true,
				Binding: -1,
			})
			continue
		}

		binding, err := b.bindParam(st, m, param)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", param.Name, err)
		}
		if binding.Source == descriptor.Body {
			bodyType := binding.Type
			result.BodyType = &bodyType
		}

		result.Args = append(result.Args, descriptor.Argument{
			Name:    param.Name,
			Type:    param.Type,
			Binding: len(result.Params),
		})
		result.Params = append(result.Params, binding)
	}

	return result, nil
}

func (b *Binder) bindParam(st *state, m *domain.Method, param domain.Param) (descriptor.ParamBinding, error) {
	hint, hinted := m.Hint(param.Name)

	if st.tmpl.IsPathParameter(param.Name) {
		if hinted && hint.Source != descriptor.Path.String() {
			return descriptor.ParamBinding{}, fmt.Errorf("%w: declared @%s but names a path variable", ErrAmbiguousPathVariable, hint.Source)
		}
		varName := param.Name
		if hinted && hint.WireName != "" {
			varName = hint.WireName
		}
		return b.bindPath(st, param.Name, varName, param.Type, param.Name)
	}

	if hinted {
		kind, ok := descriptor.ParseSourceKind(hint.Source)
		if !ok {
			return descriptor.ParamBinding{}, fmt.Errorf("%w: %s", ErrUnsupportedParameterSource, hint.Source)
		}
		switch kind {
		case descriptor.Path:
			varName := param.Name
			if hint.WireName != "" {
				varName = hint.WireName
			}
			return b.bindPath(st, param.Name, varName, param.Type, param.Name)
		case descriptor.Body:
			return b.bindBody(st, param)
		case descriptor.Bean:
			return b.bindBean(st, param)
		}
		wire := hint.WireName
		if wire == "" {
			wire = param.Name
		}
		return b.bindValue(param.Name, wire, kind, param.Type, hint.Default)
	}

	if b.isBean(param.Type) {
		return b.bindBean(st, param)
	}
	if _, ok := b.converter(param.Type); !ok {
		return b.bindBody(st, param)
	}
	return b.bindValue(param.Name, param.Name, descriptor.Query, param.Type, nil)
}

// bindPath binds to a template variable: a segment value or one matrix value.
func (b *Binder) bindPath(st *state, name, varName string, t domain.TypeRef, owner string) (descriptor.ParamBinding, error) {
	pathVar, ok := st.tmpl.Lookup(varName)
	if !ok {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: path variable %q is not in %q", ErrMissingRequiredParameter, varName, st.tmpl.Raw())
	}
	if err := st.claim(varName, owner); err != nil {
		return descriptor.ParamBinding{}, err
	}

	conv, ok := b.converter(t)
	if !ok {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %s has no converter", ErrUnsupportedParameterType, t)
	}

	binding := descriptor.ParamBinding{
		Name:      name,
		WireName:  pathVar.Segment.Name,
		Source:    descriptor.Path,
		Type:      t,
		Required:  true,
		Converter: conv,
	}

	switch {
	case pathVar.Metric != "":
		// Matrix values are optional by nature; a pointer parameter reads them nullable.
		binding.WireName = pathVar.Metric
		binding.Matrix = &descriptor.MatrixRef{Segment: pathVar.Segment, Metric: pathVar.Metric}
		binding.Nullable = t.Pointer
		binding.Required = !t.Pointer
	case t.Pointer:
		return descriptor.ParamBinding{}, fmt.Errorf("%w: path value %s cannot be a pointer", ErrUnsupportedParameterType, t)
	case pathVar.Segment.IsMatrix():
		binding.Matrix = &descriptor.MatrixRef{Segment: pathVar.Segment}
	}

	if _, err := b.platform.ReadParameter(descriptor.Path, pathVar.Segment.Placeholder(), nil); err != nil {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %v", ErrUnsupportedParameterSource, err)
	}
	return binding, nil
}

// bindValue binds a query, header, cookie or form value.
func (b *Binder) bindValue(name, wire string, kind descriptor.SourceKind, t domain.TypeRef, def *string) (descriptor.ParamBinding, error) {
	conv, ok := b.converter(t)
	if !ok {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %s has no converter", ErrUnsupportedParameterType, t)
	}
	if _, err := b.platform.ReadParameter(kind, wire, def); err != nil {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %v", ErrUnsupportedParameterSource, err)
	}
	return descriptor.ParamBinding{
		Name:      name,
		WireName:  wire,
		Source:    kind,
		Type:      t,
		Default:   def,
		Required:  !t.Pointer && def == nil,
		Nullable:  t.Pointer,
		Converter: conv,
	}, nil
}

func (b *Binder) bindBody(st *state, param domain.Param) (descriptor.ParamBinding, error) {
	if st.body {
		return descriptor.ParamBinding{}, ErrDuplicateBody
	}
	st.body = true
	return descriptor.ParamBinding{
		Name:     param.Name,
		Source:   descriptor.Body,
		Type:     param.Type,
		Required: !param.Type.Pointer,
	}, nil
}

// converter returns the converter for a single value of t. Slices have none.
func (b *Binder) converter(t domain.TypeRef) (convert.Converter, bool) {
	if t.Slice {
		return convert.Converter{}, false
	}
	return b.registry.Lookup(t.Key())
}
