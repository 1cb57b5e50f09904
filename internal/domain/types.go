// Package domain contains the records produced by the metadata provider:
// annotated controllers, their methods and parameters, and the structs that
// can be bound as beans. The records are plain data; the route compiler turns
// them into descriptors.
package domain

import (
	"reflect"
	"strings"
)

// TypeRef identifies a declared Go type. Builtins have an empty PkgPath.
type TypeRef struct {
	PkgPath string
	PkgName string
	Name    string
	Pointer bool
	Slice   bool
}

// Key is the fully qualified element type, e.g. "int64", "time.Time" or
// "github.com/google/uuid.UUID". Pointer and slice markers are not part of the key.
func (t TypeRef) Key() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// IsBuiltin reports whether the type is predeclared.
func (t TypeRef) IsBuiltin() bool {
	return t.PkgPath == ""
}

// IsZero reports whether t names no type.
func (t TypeRef) IsZero() bool {
	return t.Name == ""
}

// Elem returns t without its pointer marker.
func (t TypeRef) Elem() TypeRef {
	t.Pointer = false
	return t
}

// Expr renders the type as Go source. qualify returns the identifier used for
// a package, or "" when the type is declared in the package being written.
func (t TypeRef) Expr(qualify func(pkgPath, pkgName string) string) string {
	var b strings.Builder
	if t.Slice {
		b.WriteString("[]")
	}
	if t.Pointer {
		b.WriteByte('*')
	}
	if t.PkgPath != "" {
		if q := qualify(t.PkgPath, t.PkgName); q != "" {
			b.WriteString(q)
			b.WriteByte('.')
		}
	}
	b.WriteString(t.Name)
	return b.String()
}

// String renders the type with package names, for messages.
func (t TypeRef) String() string {
	return t.Expr(func(_, pkgName string) string { return pkgName })
}

// Param is one declared method parameter.
type Param struct {
	Name string
	Type TypeRef
}

// BindingHint is an explicit source directive on a method, e.g. "@query limit max default(10)".
type BindingHint struct {
	// Source is one of path, query, header, cookie, form, body, bean.
	Source   string
	Name     string
	WireName string
	Default  *string
}

// Method is one annotated method of a controller.
type Method struct {
	Name     string
	Verb     string
	Path     string
	Status   int
	Params   []Param
	Hints    []BindingHint
	Result   *TypeRef
	// ReturnsError is set when the last result is error.
	ReturnsError bool
	Produces     string
	Consumes     []string
	Roles        []string
	Validate     bool
	Doc          string
	Position     string
}

// Hint returns the binding hint for parameter name.
func (m *Method) Hint(name string) (BindingHint, bool) {
	for _, h := range m.Hints {
		if h.Name == name {
			return h, true
		}
	}
	return BindingHint{}, false
}

// Controller is an annotated controller type and its methods in declaration order.
type Controller struct {
	Name          string
	PkgPath       string
	PkgName       string
	Dir           string
	File          string
	BasePath      string
	Roles         []string
	RequestScoped bool
	Doc           string
	Methods       []*Method
}

// Type returns the controller's type reference.
func (c *Controller) Type() TypeRef {
	return TypeRef{PkgPath: c.PkgPath, PkgName: c.PkgName, Name: c.Name}
}

// Field is one exported struct field.
type Field struct {
	Name     string
	Type     TypeRef
	Tag      reflect.StructTag
	Embedded bool
}

// Struct is a struct type declared in a scanned package.
type Struct struct {
	PkgPath string
	PkgName string
	Name    string
	Fields  []Field
}

// Type returns the struct's type reference.
func (s *Struct) Type() TypeRef {
	return TypeRef{PkgPath: s.PkgPath, PkgName: s.PkgName, Name: s.Name}
}

// Provider supplies the records discovered in source.
type Provider interface {
	// Controllers returns every controller in a stable order.
	Controllers() []*Controller
	// LookupStruct returns the struct declaration for a type.
	LookupStruct(t TypeRef) (*Struct, bool)
}
