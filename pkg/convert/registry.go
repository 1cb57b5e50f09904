package convert

import "sort"

// Converter names the pair of conversion functions generated code calls for one type.
type Converter struct {
	// TypeKey is the fully qualified type, e.g. "int64" or "github.com/google/uuid.UUID".
	TypeKey string
	// Strict is the AsT function name.
	Strict string
	// Nullable is the ToT function name.
	Nullable string
}

// Registry maps type keys to converters. A Registry is never mutated after
// construction and is safe for concurrent use.
type Registry struct {
	converters map[string]Converter
}

// Default is the registry of every converter in this package.
var Default = NewRegistry(
	Converter{TypeKey: "string", Strict: "AsString", Nullable: "ToString"},
	Converter{TypeKey: "int", Strict: "AsInt", Nullable: "ToInt"},
	Converter{TypeKey: "int32", Strict: "AsInt32", Nullable: "ToInt32"},
	Converter{TypeKey: "int64", Strict: "AsInt64", Nullable: "ToInt64"},
	Converter{TypeKey: "float32", Strict: "AsFloat32", Nullable: "ToFloat32"},
	Converter{TypeKey: "float64", Strict: "AsFloat64", Nullable: "ToFloat64"},
	Converter{TypeKey: "bool", Strict: "AsBool", Nullable: "ToBool"},
	Converter{TypeKey: "github.com/shopspring/decimal.Decimal", Strict: "AsDecimal", Nullable: "ToDecimal"},
	Converter{TypeKey: "github.com/google/uuid.UUID", Strict: "AsUUID", Nullable: "ToUUID"},
	Converter{TypeKey: "time.Time", Strict: "AsTime", Nullable: "ToTime"},
	Converter{TypeKey: "time.Duration", Strict: "AsDuration", Nullable: "ToDuration"},
)

// NewRegistry builds a registry; a later converter for the same key wins.
func NewRegistry(converters ...Converter) *Registry {
	r := &Registry{converters: make(map[string]Converter, len(converters))}
	for _, c := range converters {
		r.converters[c.TypeKey] = c
	}
	return r
}

// Lookup returns the converter registered for typeKey.
func (r *Registry) Lookup(typeKey string) (Converter, bool) {
	c, ok := r.converters[typeKey]
	return c, ok
}

// Keys returns the registered type keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.converters))
	for k := range r.converters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Function returns the strict or nullable function name.
func (c Converter) Function(nullable bool) string {
	if nullable {
		return c.Nullable
	}
	return c.Strict
}
