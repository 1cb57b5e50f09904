package domain

import (
	"strings"

	"github.com/go-openapi/spec"
)

const (
	// ARRAY represent a array value.
	ARRAY = "array"
	// OBJECT represent a object value.
	OBJECT = "object"
	// BOOLEAN represent a boolean value.
	BOOLEAN = "boolean"
	// INTEGER represent a integer value.
	INTEGER = "integer"
	// NUMBER represent a number value.
	NUMBER = "number"
	// STRING represent a string value.
	STRING = "string"
	// ERROR represent a error value.
	ERROR = "error"
)

// IsGolangPrimitiveType checks if a type is a Go primitive type.
func IsGolangPrimitiveType(typeName string) bool {
	switch typeName {
	case "uint",
		"int",
		"uint8",
		"int8",
		"uint16",
		"int16",
		"byte",
		"uint32",
		"int32",
		"rune",
		"uint64",
		"int64",
		"float32",
		"float64",
		"bool",
		"string":
		return true
	}

	return false
}

// IsBuiltinType checks if an identifier names a predeclared type.
func IsBuiltinType(typeName string) bool {
	switch typeName {
	case ERROR, "any", "complex64", "complex128", "uintptr":
		return true
	}
	return IsGolangPrimitiveType(typeName)
}

// IsExtendedPrimitiveType checks if a type key should be treated as a scalar,
// including time.Time, UUID and decimal.
func IsExtendedPrimitiveType(typeName string) bool {
	cleanType := strings.TrimPrefix(typeName, "*")

	if IsGolangPrimitiveType(cleanType) {
		return true
	}

	switch cleanType {
	case "time.Time",
		"time.Duration",
		"decimal.Decimal",
		"github.com/shopspring/decimal.Decimal",
		"uuid.UUID",
		"github.com/google/uuid.UUID":
		return true
	}

	return false
}

// TransToValidPrimitiveSchema transfer golang basic type to swagger schema with format considered.
func TransToValidPrimitiveSchema(typeName string) *spec.Schema {
	cleanType := strings.TrimPrefix(typeName, "*")

	switch cleanType {
	case "int", "uint":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{INTEGER}}}
	case "uint8", "int8", "uint16", "int16", "byte", "int32", "uint32", "rune":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{INTEGER}, Format: "int32"}}
	case "uint64", "int64":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{INTEGER}, Format: "int64"}}
	case "float32":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{NUMBER}, Format: "float"}}
	case "float64":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{NUMBER}, Format: "double"}}
	case "bool":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{BOOLEAN}}}
	case "string":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{STRING}}}
	case "time.Time":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{STRING}, Format: "date-time"}}
	case "time.Duration":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{STRING}, Format: "duration"}}
	case "uuid.UUID", "github.com/google/uuid.UUID":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{STRING}, Format: "uuid"}}
	case "decimal.Decimal", "github.com/shopspring/decimal.Decimal":
		return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{NUMBER}}}
	}
	return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{OBJECT}}}
}
