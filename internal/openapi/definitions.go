package openapi

import (
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-routegen/internal/domain"
)

// DefinitionName is the key of a struct in swagger definitions: "api.User".
func DefinitionName(t domain.TypeRef) string {
	if t.PkgName == "" {
		return t.Name
	}
	return t.PkgName + "." + t.Name
}

// schemaOf returns the schema of a body or result type. Structs known to the
// lookup are added to definitions and referenced.
func (s *Service) schemaOf(swagger *spec.Swagger, t domain.TypeRef) *spec.Schema {
	elem := t
	elem.Slice = false
	elem.Pointer = false

	var schema *spec.Schema
	switch {
	case domain.IsExtendedPrimitiveType(elem.Key()):
		schema = domain.TransToValidPrimitiveSchema(elem.Key())
	case s.define(swagger, elem):
		schema = spec.RefSchema("#/definitions/" + DefinitionName(elem))
	default:
		schema = &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{domain.OBJECT}}}
	}

	if t.Slice {
		return spec.ArrayProperty(schema)
	}
	return schema
}

// define adds the definition of t and reports whether t is a known struct.
func (s *Service) define(swagger *spec.Swagger, t domain.TypeRef) bool {
	if s.structs == nil {
		return false
	}
	st, ok := s.structs.LookupStruct(t)
	if !ok {
		return false
	}
	name := DefinitionName(t)
	if swagger.Definitions == nil {
		swagger.Definitions = make(spec.Definitions)
	}
	if _, exists := swagger.Definitions[name]; exists {
		return true
	}
	// placeholder first so self references terminate
	swagger.Definitions[name] = spec.Schema{}

	schema := spec.Schema{SchemaProps: spec.SchemaProps{
		Type:       []string{domain.OBJECT},
		Properties: make(spec.SchemaProperties),
	}}
	for _, f := range st.Fields {
		propName, omit := jsonName(f)
		if omit {
			continue
		}
		schema.Properties[propName] = *s.schemaOf(swagger, f.Type)
		if strings.Contains(f.Tag.Get("validate"), "required") {
			schema.Required = append(schema.Required, propName)
		}
	}
	swagger.Definitions[name] = schema
	s.debug.Printf("openapi: defined %s", name)
	return true
}

func jsonName(f domain.Field) (string, bool) {
	tag := f.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		name = f.Name
	}
	return name, false
}
