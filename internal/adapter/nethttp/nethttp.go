// Package nethttp emits routes for the standard library *http.ServeMux
// using method and wildcard patterns ("GET /users/{id}").
package nethttp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// Name selects this backend.
const Name = "http"

var (
	contextType  = emitter.TypeOf[context.Context]()
	requestType  = emitter.TypeOf[http.Request]()
	responseType = emitter.TypeOf[http.ResponseWriter]()
)

// Adapter is the net/http backend.
type Adapter struct{}

var _ emitter.PlatformAdapter = Adapter{}

// New returns the net/http adapter.
func New() Adapter {
	return Adapter{}
}

func (Adapter) Name() string { return Name }

func (Adapter) TypeSuffix() string { return "HTTP" }

func (Adapter) RouterType(imports *emitter.ImportSet) string {
	return "*" + imports.Add("net/http", "http") + ".ServeMux"
}

func (Adapter) Locals() []string { return []string{"w", "req"} }

func (Adapter) IsContextType(t domain.TypeRef) bool {
	return emitter.IsType(t, contextType, false) ||
		emitter.IsType(t, requestType, true) ||
		emitter.IsType(t, responseType, false)
}

func (Adapter) ContextArgument(t domain.TypeRef) string {
	switch {
	case emitter.IsType(t, requestType, true):
		return "req"
	case emitter.IsType(t, responseType, false):
		return "w"
	}
	return "req.Context()"
}

func (Adapter) RequestContext() string { return "req.Context()" }

func (Adapter) ReadParameter(kind descriptor.SourceKind, wireName string, def *string) (string, error) {
	var expr string
	switch kind {
	case descriptor.Path:
		expr = fmt.Sprintf("convert.NonEmpty(req.PathValue(%q))", wireName)
	case descriptor.Query:
		expr = fmt.Sprintf("convert.Opt(routeset.QueryValue(req.URL.Query(), %q))", wireName)
	case descriptor.Header:
		expr = fmt.Sprintf("convert.Opt(routeset.HeaderValue(req.Header, %q))", wireName)
	case descriptor.Cookie:
		expr = fmt.Sprintf("convert.Opt(routeset.CookieValue(req, %q))", wireName)
	case descriptor.Form:
		expr = fmt.Sprintf("convert.Opt(routeset.FormValue(req, %q))", wireName)
	default:
		return "", fmt.Errorf("%w: %s", emitter.ErrUnsupportedSource, kind)
	}
	if def != nil {
		expr = fmt.Sprintf("convert.WithDefault(%s, %q)", expr, *def)
	}
	return expr, nil
}

// ControllerRoles needs no wiring: checks go through the injected routeset.Authorizer.
func (Adapter) ControllerRoles(*emitter.ImportSet, []string) {}

func (a Adapter) MethodRoles(w *emitter.Writer, imports *emitter.ImportSet, roles []string) {
	w.Line("if err := %s.authorizer.Authorize(req.Context(), %#v); err != nil {", emitter.SetVar, roles).Indent()
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

func (Adapter) NeedsCodecs() bool { return true }

// Pattern renders a ServeMux pattern. The root path is anchored with {$}.
func Pattern(verb string, path *pathtemplate.Template) string {
	rendered := path.Render(func(placeholder string) string {
		return "{" + placeholder + "}"
	})
	if rendered == "/" {
		rendered = "/{$}"
	}
	return verb + " " + rendered
}

func (Adapter) BeginRoute(w *emitter.Writer, imports *emitter.ImportSet, verb string, path *pathtemplate.Template) {
	httpPkg := imports.Add("net/http", "http")
	w.Line("router.HandleFunc(%q, func(w %s.ResponseWriter, req *%s.Request) {", Pattern(verb, path), httpPkg, httpPkg)
}

func (Adapter) EndRoute(w *emitter.Writer) {
	w.Line("})")
}

func (Adapter) WriteFail(w *emitter.Writer, _ *emitter.ImportSet, errExpr string) {
	w.Line("routeset.WriteError(w, %s)", errExpr)
	w.Line("return")
}

func (a Adapter) ReadBody(w *emitter.Writer, imports *emitter.ImportSet, body descriptor.ParamBinding, target, typeExpr string) {
	decode := "DecodeJSON"
	if !body.Required {
		decode = "DecodeOptionalJSON"
		w.Line("var %s *%s", target, typeExpr)
	} else {
		w.Line("var %s %s", target, typeExpr)
	}
	w.Line("if %s, err = routeset.%s[%s](%s.codecs, req.Body); err != nil {", target, decode, typeExpr, emitter.SetVar).Indent()
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

func (Adapter) WriteResponse(w *emitter.Writer, imports *emitter.ImportSet, m *descriptor.Method, resultExpr string) {
	status := emitter.StatusExpr(imports.Add("net/http", "http"), m.StatusCode)
	switch emitter.ResponseOf(m) {
	case emitter.NoContent:
		w.Line("w.WriteHeader(%s)", status)
	case emitter.JSON:
		w.Line("routeset.WriteJSON(w, %s, %s)", status, resultExpr)
	case emitter.Text:
		w.Line("routeset.WriteText(w, %s, %q, %s)", status, m.Produces, resultExpr)
	case emitter.Negotiate:
		w.Line("routeset.Negotiate(w, req, %s, %s, %s)", status, resultExpr, emitter.Quoted(emitter.Offers(m)))
	}
}
