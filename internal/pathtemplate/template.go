// Package pathtemplate parses route templates such as "/users/:id/posts/{slug}"
// and matrix templates such as "/:id;author;country/:other".
//
// A matrix segment is registered with the router as one placeholder named
// "<name>_segment"; its compound value is split at request time by pkg/pathmatrix.
package pathtemplate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Errors returned by Parse.
var (
	ErrDuplicateVariable  = errors.New("duplicate path variable")
	ErrDuplicateMetricKey = errors.New("duplicate matrix key")
	ErrEmptyVariable      = errors.New("empty path variable name")
)

const matrixSuffix = "_segment"

// Segment is one variable section of a template.
type Segment struct {
	Name string
	// MetricKeys holds the matrix keys in declaration order; empty for plain variables.
	MetricKeys []string
}

// IsMatrix reports whether the segment declares matrix keys.
func (s Segment) IsMatrix() bool {
	return len(s.MetricKeys) > 0
}

// HasMetric reports whether key is one of the segment's matrix keys. Keys are case-sensitive.
func (s Segment) HasMetric(key string) bool {
	return slices.Contains(s.MetricKeys, key)
}

// Placeholder is the router parameter name of the segment.
func (s Segment) Placeholder() string {
	if s.IsMatrix() {
		return s.Name + matrixSuffix
	}
	return s.Name
}

// MetricVar is the method parameter name bound to one matrix key: "id"+"key" -> "idKey".
func (s Segment) MetricVar(key string) string {
	return s.Name + capitalize(key)
}

// PathVar is what a method parameter name resolves to: a segment's primary
// value when Metric is empty, otherwise one of its matrix values.
type PathVar struct {
	Segment Segment
	Metric  string
}

type part struct {
	literal string
	segment int
}

// Template is a parsed route template. It is immutable.
type Template struct {
	raw      string
	parts    []part
	segments []Segment
	vars     map[string]PathVar
}

// Parse parses raw. An empty template or "/" has no segments and the full path "/".
func Parse(raw string) (*Template, error) {
	t := &Template{
		raw:  raw,
		vars: make(map[string]PathVar),
	}

	placeholders := make(map[string]bool)
	for _, section := range strings.Split(raw, "/") {
		if section == "" {
			continue
		}
		body, ok := variableBody(section)
		if !ok {
			t.parts = append(t.parts, part{literal: section, segment: -1})
			continue
		}

		seg, err := parseSegment(body)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", raw, err)
		}
		if err := t.addVar(seg.Name, PathVar{Segment: seg}); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", raw, err)
		}
		// Routers see only placeholders, so two segments must not share one.
		if placeholders[seg.Placeholder()] {
			return nil, fmt.Errorf("parsing %q: %w: placeholder %q", raw, ErrDuplicateVariable, seg.Placeholder())
		}
		placeholders[seg.Placeholder()] = true
		for _, key := range seg.MetricKeys {
			if err := t.addVar(seg.MetricVar(key), PathVar{Segment: seg, Metric: key}); err != nil {
				return nil, fmt.Errorf("parsing %q: %w", raw, err)
			}
		}
		t.parts = append(t.parts, part{segment: len(t.segments)})
		t.segments = append(t.segments, seg)
	}

	return t, nil
}

// MustParse is Parse that panics on error. For tests and literals.
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Join concatenates a controller base path and a method path with one '/'.
func Join(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	switch {
	case base == "" && path == "":
		return "/"
	case path == "":
		return base
	case base == "":
		return "/" + path
	}
	return base + "/" + path
}

func variableBody(section string) (string, bool) {
	if name, ok := strings.CutPrefix(section, ":"); ok {
		return name, true
	}
	if strings.HasPrefix(section, "{") && strings.HasSuffix(section, "}") {
		return section[1 : len(section)-1], true
	}
	return "", false
}

func parseSegment(body string) (Segment, error) {
	tokens := strings.Split(body, ";")
	seg := Segment{Name: strings.TrimSpace(tokens[0])}
	if seg.Name == "" {
		return Segment{}, ErrEmptyVariable
	}
	for _, token := range tokens[1:] {
		key, _, _ := strings.Cut(token, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if seg.HasMetric(key) {
			return Segment{}, fmt.Errorf("%w %q in segment %q", ErrDuplicateMetricKey, key, seg.Name)
		}
		seg.MetricKeys = append(seg.MetricKeys, key)
	}
	return seg, nil
}

func (t *Template) addVar(name string, v PathVar) error {
	if _, exists := t.vars[name]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateVariable, name)
	}
	t.vars[name] = v
	return nil
}

// Raw returns the template as written.
func (t *Template) Raw() string {
	return t.raw
}

// Segments returns the variable segments in left-to-right order.
func (t *Template) Segments() []Segment {
	return slices.Clone(t.segments)
}

// MatrixSegments returns the segments that declare at least one matrix key.
func (t *Template) MatrixSegments() []Segment {
	var out []Segment
	for _, s := range t.segments {
		if s.IsMatrix() {
			out = append(out, s)
		}
	}
	return out
}

// FullPath is the normalized path with ':' placeholders; matrix segments become ":<name>_segment".
func (t *Template) FullPath() string {
	return t.Render(func(placeholder string) string {
		return ":" + placeholder
	})
}

// Render prints the path, formatting each placeholder with variable.
func (t *Template) Render(variable func(placeholder string) string) string {
	if len(t.parts) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, p := range t.parts {
		b.WriteByte('/')
		if p.segment < 0 {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(variable(t.segments[p.segment].Placeholder()))
	}
	return b.String()
}

// Contains reports whether name is a segment's primary variable name.
func (t *Template) Contains(name string) bool {
	for _, s := range t.segments {
		if s.Name == name {
			return true
		}
	}
	return false
}

// IsPathParameter reports whether a method parameter called varName binds to the path,
// either to a segment's primary value or to a matrix value ("idKey").
func (t *Template) IsPathParameter(varName string) bool {
	_, ok := t.vars[varName]
	return ok
}

// Lookup resolves a method parameter name to its path variable.
func (t *Template) Lookup(varName string) (PathVar, bool) {
	v, ok := t.vars[varName]
	return v, ok
}

// Placeholders returns the router parameter names in path order.
func (t *Template) Placeholders() []string {
	out := make([]string, 0, len(t.segments))
	for _, s := range t.segments {
		out = append(out, s.Placeholder())
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// A Caser is stateful; one per call keeps Parse safe for concurrent use.
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
