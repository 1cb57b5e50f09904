// Package gin emits routes for gin. Handlers take *gin.Context and respond
// through gin's writers; raw values are read with gin's accessors.
package gin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// Name selects this backend.
const Name = "gin"

var (
	ginContext   = emitter.TypeOf[gin.Context]()
	ginRoutes    = emitter.TypeOf[gin.IRoutes]()
	contextType  = emitter.TypeOf[context.Context]()
	requestType  = emitter.TypeOf[http.Request]()
	responseType = emitter.TypeOf[http.ResponseWriter]()
)

// Adapter is the gin backend.
type Adapter struct{}

var _ emitter.PlatformAdapter = Adapter{}

// New returns the gin adapter.
func New() Adapter {
	return Adapter{}
}

func (Adapter) Name() string { return Name }

func (Adapter) TypeSuffix() string { return "Gin" }

func (Adapter) RouterType(imports *emitter.ImportSet) string {
	return imports.Add(ginRoutes.PkgPath(), "gin") + "." + ginRoutes.Name()
}

func (Adapter) Locals() []string { return []string{"c"} }

func (Adapter) IsContextType(t domain.TypeRef) bool {
	return emitter.IsType(t, ginContext, true) ||
		emitter.IsType(t, contextType, false) ||
		emitter.IsType(t, requestType, true) ||
		emitter.IsType(t, responseType, false)
}

func (Adapter) ContextArgument(t domain.TypeRef) string {
	switch {
	case emitter.IsType(t, ginContext, true):
		return "c"
	case emitter.IsType(t, requestType, true):
		return "c.Request"
	case emitter.IsType(t, responseType, false):
		return "c.Writer"
	}
	return "c.Request.Context()"
}

func (Adapter) RequestContext() string { return "c.Request.Context()" }

func (Adapter) ReadParameter(kind descriptor.SourceKind, wireName string, def *string) (string, error) {
	var expr string
	switch kind {
	case descriptor.Path:
		expr = fmt.Sprintf("convert.NonEmpty(c.Param(%q))", wireName)
	case descriptor.Query:
		expr = fmt.Sprintf("convert.Opt(c.GetQuery(%q))", wireName)
	case descriptor.Header:
		expr = fmt.Sprintf("convert.Opt(routeset.HeaderValue(c.Request.Header, %q))", wireName)
	case descriptor.Cookie:
		expr = fmt.Sprintf("convert.OptErr(c.Cookie(%q))", wireName)
	case descriptor.Form:
		expr = fmt.Sprintf("convert.Opt(c.GetPostForm(%q))", wireName)
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
	w.Line("if err := %s.authorizer.Authorize(c.Request.Context(), %#v); err != nil {", emitter.SetVar, roles).Indent()
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

func (Adapter) NeedsCodecs() bool { return true }

// Path renders a gin path with ":name" parameters.
func Path(path *pathtemplate.Template) string {
	return path.Render(func(placeholder string) string {
		return ":" + placeholder
	})
}

func (Adapter) BeginRoute(w *emitter.Writer, imports *emitter.ImportSet, verb string, path *pathtemplate.Template) {
	ginPkg := imports.Add(ginContext.PkgPath(), "gin")
	w.Line("router.Handle(%s, %q, func(c *%s.Context) {", emitter.MethodExpr(imports.Add("net/http", "http"), verb), Path(path), ginPkg)
}

func (Adapter) EndRoute(w *emitter.Writer) {
	w.Line("})")
}

func (Adapter) WriteFail(w *emitter.Writer, _ *emitter.ImportSet, errExpr string) {
	w.Line("c.AbortWithStatusJSON(routeset.StatusOf(%s), routeset.NewProblem(%s))", errExpr, errExpr)
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
	w.Line("if %s, err = routeset.%s[%s](%s.codecs, c.Request.Body); err != nil {", target, decode, typeExpr, emitter.SetVar).Indent()
	a.WriteFail(w, imports, "err")
	w.Dedent().Line("}")
}

func (Adapter) WriteResponse(w *emitter.Writer, imports *emitter.ImportSet, m *descriptor.Method, resultExpr string) {
	status := emitter.StatusExpr(imports.Add("net/http", "http"), m.StatusCode)
	switch emitter.ResponseOf(m) {
	case emitter.NoContent:
		w.Line("c.Status(%s)", status)
	case emitter.JSON:
		w.Line("c.JSON(%s, %s)", status, resultExpr)
	case emitter.Text:
		w.Line("c.Data(%s, %q, []byte(%s))", status, m.Produces, resultExpr)
	case emitter.Negotiate:
		w.Line("routeset.Negotiate(c.Writer, c.Request, %s, %s, %s)", status, resultExpr, emitter.Quoted(emitter.Offers(m)))
	}
}
