// Package pathmatrix splits a matrix path segment such as "42;author=rob;country=nz"
// into its primary value and its metric sub-values.
//
// Routers only see the compound segment as a single path parameter; generated
// route code calls Parse on it and reads Val and Metric.
package pathmatrix

import "strings"

// Value is a parsed matrix segment. The zero Value has no primary value and no metrics.
type Value struct {
	val     string
	metrics map[string]string
}

// Parse splits raw on ';' and each metric on the first '='.
// A metric written without a value ("k" or "k=") is recorded as absent.
func Parse(raw string) Value {
	parts := strings.Split(raw, ";")
	v := Value{val: parts[0]}
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if key == "" || !found || value == "" {
			continue
		}
		if v.metrics == nil {
			v.metrics = make(map[string]string, len(parts)-1)
		}
		if _, dup := v.metrics[key]; !dup {
			v.metrics[key] = value
		}
	}
	return v
}

// ParseRaw is Parse for an optional raw value; nil yields the zero Value.
func ParseRaw(raw *string) Value {
	if raw == nil {
		return Value{}
	}
	return Parse(*raw)
}

// Val returns the primary value, the text before the first ';'.
func (v Value) Val() string {
	return v.val
}

// Metric returns the value of metric key and whether it is present.
func (v Value) Metric(key string) (string, bool) {
	m, ok := v.metrics[key]
	return m, ok
}

// Len returns the number of present metrics.
func (v Value) Len() int {
	return len(v.metrics)
}
