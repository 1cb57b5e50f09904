package emitter

import (
	"errors"
	"strings"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// ErrUnsupportedSource is returned by ReadParameter for sources that have no
// single-value read, such as the body and beans.
var ErrUnsupportedSource = errors.New("source cannot be read as a value")

// Handler local names shared by every backend. Parameter locals are renamed
// when they collide with these.
const (
	ResultVar = "result"
	ErrVar    = "err"
	SetVar    = "rs"
)

// PlatformAdapter is what one web backend contributes to generated code.
// Implementations are stateless and safe for concurrent use.
type PlatformAdapter interface {
	// Name selects the backend, e.g. "http".
	Name() string
	// TypeSuffix is inserted into the generated type name: Users + HTTP + Routes.
	TypeSuffix() string
	// RouterType is the type RegisterRoutes accepts. It registers the backend imports.
	RouterType(imports *ImportSet) string
	// Locals are the identifiers handlers declare, e.g. "w" and "req".
	Locals() []string

	IsContextType(t domain.TypeRef) bool
	// ContextArgument is the expression passed for a context parameter.
	ContextArgument(t domain.TypeRef) string
	// RequestContext is an expression of type context.Context.
	RequestContext() string
	// ReadParameter returns a *string expression reading one raw value, nil when absent.
	ReadParameter(kind descriptor.SourceKind, wireName string, def *string) (string, error)

	// ControllerRoles is called once when any method of the controller requires roles.
	ControllerRoles(imports *ImportSet, roles []string)
	// MethodRoles writes the authorization check of one route.
	MethodRoles(w *Writer, imports *ImportSet, roles []string)
	// NeedsCodecs reports whether ReadBody decodes through routeset.Codecs.
	NeedsCodecs() bool

	// BeginRoute opens the registration of one route; the handler body follows.
	BeginRoute(w *Writer, imports *ImportSet, verb string, path *pathtemplate.Template)
	EndRoute(w *Writer)
	// WriteFail writes the error response for errExpr and leaves the handler.
	WriteFail(w *Writer, imports *ImportSet, errExpr string)
	// ReadBody declares target and decodes the body into it. A required body
	// declares target of type typeExpr and fails on an empty request; an
	// optional body declares *typeExpr and leaves it nil.
	// err is already declared in the handler.
	ReadBody(w *Writer, imports *ImportSet, body descriptor.ParamBinding, target, typeExpr string)
	// WriteResponse writes the success response and leaves the handler.
	// resultExpr is empty for methods without a result.
	WriteResponse(w *Writer, imports *ImportSet, m *descriptor.Method, resultExpr string)
}

// ResponseKind is how a successful result is written.
type ResponseKind int

// Response kinds.
const (
	// NoContent writes only the status.
	NoContent ResponseKind = iota
	// JSON encodes the result as JSON.
	JSON
	// Text writes a string result under the literal produced type.
	Text
	// Negotiate picks between the produced type and JSON from the Accept header.
	Negotiate
)

// ResponseOf classifies the response of m.
func ResponseOf(m *descriptor.Method) ResponseKind {
	if m.Result == nil {
		return NoContent
	}
	if m.Produces == "" || isJSON(m.Produces) {
		return JSON
	}
	if r := m.Result; r.IsBuiltin() && r.Name == "string" && !r.Pointer && !r.Slice {
		return Text
	}
	return Negotiate
}

// Offers lists the media types a negotiated response may use.
func Offers(m *descriptor.Method) []string {
	return []string{m.Produces, "application/json"}
}

func isJSON(mediaType string) bool {
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
