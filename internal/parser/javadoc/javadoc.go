// Package javadoc extracts summary, parameter, return and deprecation text
// from a doc comment. Route directives in the same comment are skipped.
package javadoc

import (
	"maps"
	"regexp"
	"strings"
)

// Javadoc is the parsed documentation of a controller or method.
type Javadoc struct {
	Summary     string
	Description string
	Params      map[string]string
	Return      string
	Deprecated  bool
}

// Empty is the documentation of an undocumented element.
var Empty = Javadoc{}

var inlineTagPattern = regexp.MustCompile(`\{@(?:link|linkplain|code|literal)\s+([^}]*)\}`)

// IsEmpty reports whether no documentation was found.
func (j Javadoc) IsEmpty() bool {
	return j.Summary == "" && j.Description == "" && len(j.Params) == 0 && j.Return == "" && !j.Deprecated
}

// Param returns the description of parameter name, or "".
func (j Javadoc) Param(name string) string {
	return j.Params[name]
}

// Text joins summary and description.
func (j Javadoc) Text() string {
	if j.Description == "" {
		return j.Summary
	}
	if j.Summary == "" {
		return j.Description
	}
	return j.Summary + "\n\n" + j.Description
}

// Clone returns a copy that shares no map with j.
func (j Javadoc) Clone() Javadoc {
	j.Params = maps.Clone(j.Params)
	return j
}

// Parse parses comment text as returned by ast.CommentGroup.Text, or a
// /** ... */ block.
func Parse(text string) Javadoc {
	lines := normalize(text)
	if len(lines) == 0 {
		return Empty
	}

	var (
		doc  Javadoc
		body []string
		tag  *tagBlock
		tags []*tagBlock
	)
	for _, line := range lines {
		if strings.HasPrefix(line, "@") {
			name, rest, _ := strings.Cut(line, " ")
			tag = &tagBlock{name: strings.ToLower(name[1:]), text: strings.TrimSpace(rest)}
			tags = append(tags, tag)
			continue
		}
		if tag != nil {
			if line == "" {
				tag = nil
				continue
			}
			tag.text = strings.TrimSpace(tag.text + " " + line)
			continue
		}
		body = append(body, line)
	}

	paragraphs := splitParagraphs(body)
	kept := paragraphs[:0]
	for _, p := range paragraphs {
		if strings.HasPrefix(p, "Deprecated:") {
			doc.Deprecated = true
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) > 0 {
		summary, rest := firstSentence(kept[0])
		doc.Summary = unwrapInline(summary)
		descr := kept[1:]
		if rest != "" {
			descr = append([]string{rest}, descr...)
		}
		doc.Description = unwrapInline(strings.Join(descr, "\n\n"))
	}

	for _, t := range tags {
		switch t.name {
		case "param":
			name, text, _ := strings.Cut(t.text, " ")
			if name == "" {
				continue
			}
			if doc.Params == nil {
				doc.Params = make(map[string]string)
			}
			doc.Params[name] = unwrapInline(strings.TrimSpace(text))
		case "return", "returns":
			doc.Return = unwrapInline(t.text)
		case "deprecated":
			doc.Deprecated = true
		}
	}

	if doc.IsEmpty() {
		return Empty
	}
	return doc
}

type tagBlock struct {
	name string
	text string
}

func normalize(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "//")
		if l != "*" && !strings.HasPrefix(l, "*/") {
			l = strings.TrimPrefix(l, "* ")
		}
		if l == "*" {
			l = ""
		}
		lines = append(lines, strings.TrimSpace(l))
	}

	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

func splitParagraphs(lines []string) []string {
	var (
		out []string
		cur []string
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, l := range lines {
		if l == "" {
			flush()
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return out
}

// firstSentence splits at the first period followed by whitespace.
func firstSentence(p string) (string, string) {
	for i := 0; i < len(p)-1; i++ {
		if p[i] == '.' && (p[i+1] == ' ' || p[i+1] == '\t') {
			return p[:i+1], strings.TrimSpace(p[i+1:])
		}
	}
	return p, ""
}

func unwrapInline(s string) string {
	return inlineTagPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := inlineTagPattern.FindStringSubmatch(m)
		return strings.TrimSpace(sub[1])
	})
}
