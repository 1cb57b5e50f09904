// Package descriptor holds the backend-neutral representation of controllers
// and their endpoints. Descriptors are assembled once per controller and
// backend and are never modified afterwards.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/parser/javadoc"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
	"github.com/griffnb/core-routegen/pkg/convert"
)

// SourceKind is where a bound value is read from.
type SourceKind int

// Binding sources.
const (
	Path SourceKind = iota + 1
	Query
	Header
	Cookie
	Form
	Body
	Bean
)

var sourceNames = map[SourceKind]string{
	Path:   "path",
	Query:  "query",
	Header: "header",
	Cookie: "cookie",
	Form:   "form",
	Body:   "body",
	Bean:   "bean",
}

func (k SourceKind) String() string {
	if name, ok := sourceNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// IsValue reports whether the source yields a single string per request,
// which is what converters consume.
func (k SourceKind) IsValue() bool {
	switch k {
	case Path, Query, Header, Cookie, Form:
		return true
	}
	return false
}

// ParseSourceKind parses a directive or tag name such as "query".
func ParseSourceKind(s string) (SourceKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range sourceNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// MatrixRef ties a path binding to a matrix segment. An empty Metric selects
// the segment's primary value.
type MatrixRef struct {
	Segment pathtemplate.Segment
	Metric  string
}

// Local is the name of the variable holding the parsed segment in generated code.
func (m MatrixRef) Local() string {
	return m.Segment.Name + "Segment"
}

// ParamBinding is one bound value.
type ParamBinding struct {
	// Name is the Go parameter name, or the field name for bean fields.
	Name     string
	WireName string
	Source   SourceKind
	Type     domain.TypeRef
	Default  *string
	Required bool
	// Nullable selects the ToT converter family; the value is a pointer.
	Nullable  bool
	Converter convert.Converter
	Matrix    *MatrixRef
	// Fields are the flattened field bindings of a bean.
	Fields []ParamBinding
	// FieldPath is the selector of a bean field relative to the bean, e.g. "Paging.Limit".
	FieldPath string
}

// ConvertFunc is the converter function the generated code calls.
func (p ParamBinding) ConvertFunc() string {
	return p.Converter.Function(p.Nullable)
}

// Leaves returns the value bindings in order, expanding beans.
func (p ParamBinding) Leaves() []ParamBinding {
	if p.Source != Bean {
		return []ParamBinding{p}
	}
	var out []ParamBinding
	for _, f := range p.Fields {
		out = append(out, f.Leaves()...)
	}
	return out
}

// Argument is one Go parameter of the controller method in declaration order.
// Context arguments are supplied by the backend and have no binding.
type Argument struct {
	Name    string
	Type    domain.TypeRef
	Context bool
	// Binding indexes Method.Params; -1 for context arguments.
	Binding int
}

// Method describes one endpoint.
type Method struct {
	Name       string
	HTTPMethod string
	StatusCode int
	Path       *pathtemplate.Template
	Params     []ParamBinding
	Args       []Argument
	BodyType   *domain.TypeRef
	// Produces is empty for the JSON default.
	Produces     string
	Consumes     []string
	Roles        []string
	Validate     bool
	Result       *domain.TypeRef
	ReturnsError bool
	Doc          javadoc.Javadoc
}

// Body returns the body binding, if any.
func (m *Method) Body() (ParamBinding, bool) {
	for _, p := range m.Params {
		if p.Source == Body {
			return p, true
		}
	}
	return ParamBinding{}, false
}

// MatrixSegments returns the matrix segments read by the bindings, in path order.
func (m *Method) MatrixSegments() []pathtemplate.Segment {
	used := make(map[string]bool)
	for _, p := range m.Params {
		for _, leaf := range p.Leaves() {
			if leaf.Matrix != nil {
				used[leaf.Matrix.Segment.Name] = true
			}
		}
	}
	var out []pathtemplate.Segment
	for _, s := range m.Path.MatrixSegments() {
		if used[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

// WireParams lists "source:wireName" for every value binding in order; body
// bindings are listed as "body". Equal across backends for one controller.
func (m *Method) WireParams() []string {
	var out []string
	for _, p := range m.Params {
		for _, leaf := range p.Leaves() {
			if leaf.Source == Body {
				out = append(out, Body.String())
				continue
			}
			out = append(out, leaf.Source.String()+":"+leaf.WireName)
		}
	}
	return out
}

// Controller describes one controller and owns its methods.
type Controller struct {
	TypeName      string
	PkgPath       string
	PkgName       string
	Dir           string
	BasePath      string
	RequestScoped bool
	Roles         []string
	Doc           javadoc.Javadoc
	Methods       []*Method
}

// Type returns the controller type reference.
func (c *Controller) Type() domain.TypeRef {
	return domain.TypeRef{PkgPath: c.PkgPath, PkgName: c.PkgName, Name: c.TypeName}
}

// Validates reports whether any method validates its input.
func (c *Controller) Validates() bool {
	for _, m := range c.Methods {
		if m.Validate {
			return true
		}
	}
	return false
}

// Authorizes reports whether any method requires roles.
func (c *Controller) Authorizes() bool {
	for _, m := range c.Methods {
		if len(m.Roles) > 0 {
			return true
		}
	}
	return false
}

// ReadsBody reports whether any method binds a body.
func (c *Controller) ReadsBody() bool {
	for _, m := range c.Methods {
		if _, ok := m.Body(); ok {
			return true
		}
	}
	return false
}
