// Package echo emits routes for echo. Handlers take echo.Context and return
// the error of the response they write.
package echo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// Name selects this backend.
const Name = "echo"

var (
	echoContext  = emitter.TypeOf[echo.Context]()
	echoRouter   = emitter.TypeOf[echo.Echo]()
	contextType  = emitter.TypeOf[context.Context]()
	requestType  = emitter.TypeOf[http.Request]()
	responseType = emitter.TypeOf[http.ResponseWriter]()
)

// Adapter is the echo backend.
type Adapter struct{}

var _ emitter.PlatformAdapter = Adapter{}

// New returns the echo adapter.
func New() Adapter {
	return Adapter{}
}

func (Adapter) Name() string { return Name }

func (Adapter) TypeSuffix() string { return "Echo" }

func (Adapter) RouterType(imports *emitter.ImportSet) string {
	return "*" + imports.Add(echoRouter.PkgPath(), "echo") + "." + echoRouter.Name()
}

func (Adapter) Locals() []string { return []string{"c"} }

func (Adapter) IsContextType(t domain.TypeRef) bool {
	return emitter.IsType(t, echoContext, false) ||
		emitter.IsType(t, contextType, false) ||
		emitter.IsType(t, requestType, true) ||
		emitter.IsType(t, responseType, false)
}

func (Adapter) ContextArgument(t domain.TypeRef) string {
	switch {
	case emitter.IsType(t, echoContext, false):
		return "c"
	case emitter.IsType(t, requestType, true):
		return "c.Request()"
	case emitter.IsType(t, responseType, false):
		return "c.Response()"
	}
	return "c.Request().Context()"
}

func (Adapter) RequestContext() string { return "c.Request().Context()" }

func (Adapter) ReadParameter(kind descriptor.SourceKind, wireName string, def *string) (string, error) {
	var expr string
	switch kind {
	case descriptor.Path:
		expr = fmt.Sprintf("convert.NonEmpty(c.Param(%q))", wireName)
	case descriptor.Query:
		expr = fmt.Sprintf("convert.Opt(routeset.QueryValue(c.QueryParams(), %q))", wireName)
	case descriptor.Header:
		expr = fmt.Sprintf("convert.Opt(routeset.HeaderValue(c.Request().Header, %q))", wireName)
	case descriptor.Cookie:
		expr = fmt.Sprintf("convert.Opt(routeset.CookieValue(c.Request(), %q))", wireName)
	case descriptor.Form:
		expr = fmt.Sprintf("convert.Opt(routeset.FormValue(c.Request(), %q))", wireName)
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
	w.Line("if err := %s.authorizer.Authorize(c.Request().Context(), %#v); err != nil {", emitter.SetVar, roles).Indent()
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

// NeedsCodecs is false: bodies go through echo's DefaultBinder.
func (Adapter) NeedsCodecs() bool { return false }

// Path renders an echo path with ":name" parameters.
func Path(path *pathtemplate.Template) string {
	return path.Render(func(placeholder string) string {
		return ":" + placeholder
	})
}

func (Adapter) BeginRoute(w *emitter.Writer, imports *emitter.ImportSet, verb string, path *pathtemplate.Template) {
	echoPkg := imports.Add(echoContext.PkgPath(), "echo")
	w.Line("router.Add(%s, %q, func(c %s.Context) error {", emitter.MethodExpr(imports.Add("net/http", "http"), verb), Path(path), echoPkg)
}

func (Adapter) EndRoute(w *emitter.Writer) {
	w.Line("})")
}

func (Adapter) WriteFail(w *emitter.Writer, _ *emitter.ImportSet, errExpr string) {
	w.Line("return c.JSON(routeset.StatusOf(%s), routeset.NewProblem(%s))", errExpr, errExpr)
}

// ReadBody binds through echo's DefaultBinder, which accepts an empty body
// silently; the request's ContentLength decides presence first.
func (a Adapter) ReadBody(w *emitter.Writer, imports *emitter.ImportSet, body descriptor.ParamBinding, target, typeExpr string) {
	echoPkg := imports.Add(echoContext.PkgPath(), "echo")
	if !body.Required {
		w.Line("var %s *%s", target, typeExpr)
		w.Line("if c.Request().ContentLength != 0 {").Indent()
		w.Line("%s = new(%s)", target, typeExpr)
		w.Line("if err = (&%s.DefaultBinder{}).BindBody(c, %s); err != nil {", echoPkg, target).Indent()
		w.Line("err = &routeset.BodyError{Type: %q, Err: err}", typeExpr)
		a.WriteFail(w, imports, "err")
		w.Dedent().Line("}")
		w.Dedent().Line("}")
		return
	}
	w.Line("var %s %s", target, typeExpr)
	w.Line("if c.Request().ContentLength == 0 {").Indent()
	w.Line("err = routeset.ErrEmptyBody")
	w.Dedent().Line("} else {").Indent()
	w.Line("err = (&%s.DefaultBinder{}).BindBody(c, &%s)", echoPkg, target)
	w.Dedent().Line("}")
	w.Line("if err != nil {").Indent()
	w.Line("err = &routeset.BodyError{Type: %q, Err: err}", typeExpr)
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

func (Adapter) WriteResponse(w *emitter.Writer, imports *emitter.ImportSet, m *descriptor.Method, resultExpr string) {
	status := emitter.StatusExpr(imports.Add("net/http", "http"), m.StatusCode)
	switch emitter.ResponseOf(m) {
	case emitter.NoContent:
		w.Line("return c.NoContent(%s)", status)
	case emitter.JSON:
		w.Line("return c.JSON(%s, %s)", status, resultExpr)
	case emitter.Text:
		w.Line("return c.Blob(%s, %q, []byte(%s))", status, m.Produces, resultExpr)
	case emitter.Negotiate:
		w.Line("routeset.Negotiate(c.Response(), c.Request(), %s, %s, %s)", status, resultExpr, emitter.Quoted(emitter.Offers(m)))
		w.Line("return nil")
	}
}
