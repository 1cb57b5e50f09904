package route

import (
	"fmt"
	"go/ast"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/griffnb/core-routegen/internal/domain"
)

var (
	defaultPattern  = regexp.MustCompile(`(?i)default\(([^)]*)\)`)
	mimeTypeAliases = map[string]string{
		"json":                  "application/json",
		"xml":                   "application/xml",
		"plain":                 "text/plain",
		"html":                  "text/html",
		"mpfd":                  "multipart/form-data",
		"x-www-form-urlencoded": "application/x-www-form-urlencoded",
		"json-api":              "application/vnd.api+json",
		"octet-stream":          "application/octet-stream",
		"event-stream":          "text/event-stream",
	}
	verbs = map[string]string{
		"@get":     http.MethodGet,
		"@post":    http.MethodPost,
		"@put":     http.MethodPut,
		"@patch":   http.MethodPatch,
		"@delete":  http.MethodDelete,
		"@head":    http.MethodHead,
		"@options": http.MethodOptions,
	}
	bindingSources = map[string]bool{
		"@path":   true,
		"@query":  true,
		"@header": true,
		"@cookie": true,
		"@form":   true,
		"@body":   true,
		"@bean":   true,
	}
)

// parseMethod parses an annotated method. Functions without a receiver or
// without a verb directive yield nil.
func (s *Service) parseMethod(file *fileScope, funcDecl *ast.FuncDecl) (*ReceiverMethod, error) {
	if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 || funcDecl.Doc == nil {
		return nil, nil
	}
	receiver := receiverName(funcDecl.Recv.List[0].Type)
	if receiver == "" {
		return nil, nil
	}

	m := &domain.Method{
		Name:     funcDecl.Name.Name,
		Doc:      funcDecl.Doc.Text(),
		Position: file.position(funcDecl.Pos()),
	}

	hasVerb := false
	var bad []error
	for _, comment := range funcDecl.Doc.List {
		if err := s.parseComment(m, comment.Text, &hasVerb); err != nil {
			bad = append(bad, err)
		}
	}
	if !hasVerb {
		return nil, nil
	}
	for _, err := range bad {
		if s.strict {
			return nil, fmt.Errorf("method %s.%s: %w", receiver, m.Name, err)
		}
		s.debug.Printf("skipping directive on %s.%s: %v", receiver, m.Name, err)
	}

	if err := s.parseSignature(file, funcDecl.Type, m); err != nil {
		return nil, fmt.Errorf("method %s.%s: %w", receiver, m.Name, err)
	}

	return &ReceiverMethod{
		PkgPath:  file.pkgPath,
		Receiver: receiver,
		File:     file.info.Path,
		Offset:   file.offset(funcDecl.Pos()),
		Method:   m,
	}, nil
}

func receiverName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// docTags belong to the method's doc comment and are read by the javadoc parser.
var docTags = map[string]bool{
	"@param":      true,
	"@return":     true,
	"@returns":    true,
	"@deprecated": true,
}

// splitDirective returns the lowercased @attribute of a comment line and the rest of the line.
func splitDirective(comment string) (string, string) {
	commentLine := strings.TrimSpace(comment)

	if strings.HasPrefix(commentLine, "//") {
		commentLine = strings.TrimSpace(commentLine[2:])
	} else if strings.HasPrefix(commentLine, "/*") {
		commentLine = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(commentLine, "/*"), "*/"))
	}

	allFields := strings.Fields(commentLine)
	if len(allFields) == 0 || !strings.HasPrefix(allFields[0], "@") {
		return "", ""
	}
	return strings.ToLower(allFields[0]), strings.Join(allFields[1:], " ")
}

// parseComment parses a single comment line and updates the method
func (s *Service) parseComment(m *domain.Method, comment string, hasVerb *bool) error {
	attribute, lineRemainder := splitDirective(comment)
	if attribute == "" {
		return nil
	}

	if verb, ok := verbs[attribute]; ok {
		if *hasVerb {
			return fmt.Errorf("second verb directive %s", attribute)
		}
		*hasVerb = true
		m.Verb = verb
		m.Path = lineRemainder
		return nil
	}
	if bindingSources[attribute] {
		return parseBinding(m, attribute[1:], lineRemainder)
	}

	switch attribute {
	case "@produces", "@produce":
		types := parseMimeTypes(lineRemainder)
		if len(types) == 0 {
			return fmt.Errorf("empty %s", attribute)
		}
		m.Produces = types[0]
	case "@consumes", "@accept":
		m.Consumes = append(m.Consumes, parseMimeTypes(lineRemainder)...)
	case "@status":
		code, err := strconv.Atoi(lineRemainder)
		if err != nil || code < 100 || code > 599 {
			return fmt.Errorf("invalid status %q", lineRemainder)
		}
		m.Status = code
	case "@roles":
		m.Roles = parseList(lineRemainder)
	case "@valid":
		m.Validate = true
	default:
		if !docTags[attribute] {
			return fmt.Errorf("unknown directive %s", attribute)
		}
	}

	return nil
}

// parseBinding parses "@query name [wireName] [default(value)]".
func parseBinding(m *domain.Method, source, line string) error {
	hint := domain.BindingHint{Source: source}

	if match := defaultPattern.FindStringSubmatch(line); match != nil {
		def := strings.Trim(strings.TrimSpace(match[1]), `"'`)
		hint.Default = &def
		line = strings.Replace(line, match[0], "", 1)
	}

	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return fmt.Errorf("@%s needs a parameter name", source)
	case 1:
	case 2:
		hint.WireName = fields[1]
	default:
		return fmt.Errorf("invalid @%s directive %q", source, line)
	}
	hint.Name = fields[0]

	if (source == "body" || source == "bean") && (hint.WireName != "" || hint.Default != nil) {
		return fmt.Errorf("@%s takes only a parameter name", source)
	}
	if _, dup := m.Hint(hint.Name); dup {
		return fmt.Errorf("parameter %q bound twice", hint.Name)
	}

	m.Hints = append(m.Hints, hint)
	return nil
}

// parseList parses a comma-separated list
func parseList(line string) []string {
	var out []string
	for _, item := range strings.Split(line, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseMimeTypes parses a comma-separated list of mime types
func parseMimeTypes(line string) []string {
	var out []string
	for _, mimeType := range parseList(line) {
		if fullType, ok := mimeTypeAliases[mimeType]; ok {
			out = append(out, fullType)
		} else {
			out = append(out, mimeType)
		}
	}
	return out
}

// parseSignature records parameters and the supported result shapes:
// none, error, T, and (T, error).
func (s *Service) parseSignature(file *fileScope, fn *ast.FuncType, m *domain.Method) error {
	if fn.TypeParams != nil {
		return fmt.Errorf("generic methods are not supported")
	}
	for _, field := range fn.Params.List {
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			return fmt.Errorf("variadic parameters are not supported")
		}
		if len(field.Names) == 0 {
			return fmt.Errorf("parameters must be named")
		}
		ref, err := file.resolveType(field.Type)
		if err != nil {
			return err
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				return fmt.Errorf("parameters must be named")
			}
			m.Params = append(m.Params, domain.Param{Name: name.Name, Type: ref})
		}
	}

	var results []domain.TypeRef
	if fn.Results != nil {
		for _, field := range fn.Results.List {
			ref, err := file.resolveType(field.Type)
			if err != nil {
				return err
			}
			n := max(len(field.Names), 1)
			for i := 0; i < n; i++ {
				results = append(results, ref)
			}
		}
	}

	isError := func(t domain.TypeRef) bool {
		return t.IsBuiltin() && t.Name == domain.ERROR && !t.Pointer && !t.Slice
	}
	switch {
	case len(results) == 0:
	case len(results) == 1 && isError(results[0]):
		m.ReturnsError = true
	case len(results) == 1:
		m.Result = &results[0]
	case len(results) == 2 && isError(results[1]) && !isError(results[0]):
		m.Result = &results[0]
		m.ReturnsError = true
	default:
		return fmt.Errorf("unsupported results; want none, error, T or (T, error)")
	}

	for _, hint := range m.Hints {
		if !hasParam(m, hint.Name) {
			return fmt.Errorf("@%s names unknown parameter %q", hint.Source, hint.Name)
		}
	}
	return nil
}

func hasParam(m *domain.Method, name string) bool {
	for _, p := range m.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}
