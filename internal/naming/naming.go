// Package naming converts Go identifiers to the spellings used on the wire
// and in generated file names.
package naming

import (
	"fmt"
	"unicode"
)

// Naming strategies for bean field wire names.
const (
	// CamelCase renders FirstName as firstName
	CamelCase = "camelcase"
	// PascalCase keeps FirstName
	PascalCase = "pascalcase"
	// SnakeCase renders FirstName as first_name
	SnakeCase = "snakecase"
)

// ToSnakeCase converts a name to snake_case
func ToSnakeCase(in string) string {
	var (
		runes  = []rune(in)
		length = len(runes)
		out    []rune
	)

	for idx := 0; idx < length; idx++ {
		if idx > 0 && unicode.IsUpper(runes[idx]) &&
			((idx+1 < length && unicode.IsLower(runes[idx+1])) || unicode.IsLower(runes[idx-1])) {
			out = append(out, '_')
		}

		out = append(out, unicode.ToLower(runes[idx]))
	}

	return string(out)
}

// ToLowerCamelCase converts a name to lowerCamelCase; a leading acronym is lowered as a whole (IDValue -> idValue).
func ToLowerCamelCase(in string) string {
	runes := []rune(in)
	out := make([]rune, len(runes))

	lowering := true
	for i, curr := range runes {
		next := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowering && unicode.IsUpper(curr) && (i == 0 || !next) {
			out[i] = unicode.ToLower(curr)
			continue
		}
		lowering = false
		out[i] = curr
	}

	return string(out)
}

// Apply renders a field name with strategy. An empty strategy is CamelCase.
func Apply(name, strategy string) string {
	switch strategy {
	case SnakeCase:
		return ToSnakeCase(name)
	case PascalCase:
		return name
	default:
		return ToLowerCamelCase(name)
	}
}

// Validate reports an unknown strategy.
func Validate(strategy string) error {
	switch strategy {
	case "", CamelCase, PascalCase, SnakeCase:
		return nil
	}
	return fmt.Errorf("unknown naming strategy %q, want %s, %s or %s", strategy, CamelCase, SnakeCase, PascalCase)
}
