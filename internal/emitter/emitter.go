// Package emitter renders a controller descriptor into a route registration
// file for one backend. The backend specifics come from a PlatformAdapter;
// everything else (the route set type, binding statements, argument order)
// is shared so every backend registers the same routes with the same inputs.
package emitter

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/naming"
)

// DefaultRuntimeImport is the parent of the convert, pathmatrix and routeset packages.
const DefaultRuntimeImport = "github.com/griffnb/core-routegen/pkg"

// Header starts every generated file.
const Header = "// Code generated by core-routegen. DO NOT EDIT."

// Config places the generated code.
type Config struct {
	// PackagePath and PackageName of the generated file; empty means the controller's package.
	PackagePath string
	PackageName string
	// RuntimeImport replaces DefaultRuntimeImport.
	RuntimeImport string
}

// Emitter renders units. It holds no per-controller state and is safe for concurrent use.
type Emitter struct {
	cfg Config
}

// New creates an emitter.
func New(cfg Config) *Emitter {
	if cfg.RuntimeImport == "" {
		cfg.RuntimeImport = DefaultRuntimeImport
	}
	cfg.RuntimeImport = strings.TrimRight(cfg.RuntimeImport, "/")
	return &Emitter{cfg: cfg}
}

// RouteInfo is the backend-neutral shape of one registered route.
type RouteInfo struct {
	Method string
	Verb   string
	Path   string
	Params []string
}

// Unit is one generated file.
type Unit struct {
	Controller string
	Backend    string
	Package    string
	TypeName   string
	FileName   string
	// Dir is the controller's source directory.
	Dir    string
	Source []byte
	Routes []RouteInfo
}

// TypeName is the generated route set type of a controller: Users + HTTP -> UsersHTTPRoutes.
func TypeName(controller string, a PlatformAdapter) string {
	return controller + a.TypeSuffix() + "Routes"
}

// FileName is the generated file of a controller: users_http_routes.go.
func FileName(controller string, a PlatformAdapter) string {
	return naming.ToSnakeCase(controller) + "_" + a.Name() + "_routes.go"
}

// Emit renders c for adapter a. The output depends only on c, a and the emitter config.
func (e *Emitter) Emit(c *descriptor.Controller, a PlatformAdapter) (*Unit, error) {
	pkgPath, pkgName := e.cfg.PackagePath, e.cfg.PackageName
	if pkgPath == "" {
		pkgPath = c.PkgPath
	}
	if pkgName == "" {
		pkgName = c.PkgName
	}

	u := &unit{
		ctrl:    c,
		adapter: a,
		imports: NewImportSet(pkgPath),
		body:    NewWriter(),
		runtime: e.cfg.RuntimeImport,
	}
	u.imports.Reserve(append([]string{ResultVar, ErrVar, SetVar, "router"}, a.Locals()...)...)
	u.register()

	u.writeType()
	routes, err := u.writeRegister()
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", c.TypeName, err)
	}

	u.imports.Prune(u.body.String())

	file := NewWriter()
	file.Line(Header).Eol()
	file.Line("package %s", pkgName).Eol()
	if u.imports.Len() > 0 {
		u.imports.Write(file)
		file.Eol()
	}
	file.Append("%s", u.body.String())

	fileName := FileName(c.TypeName, a)
	source, err := format.Source(file.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", fileName, err)
	}

	return &Unit{
		Controller: c.TypeName,
		Backend:    a.Name(),
		Package:    pkgName,
		TypeName:   TypeName(c.TypeName, a),
		FileName:   fileName,
		Dir:        c.Dir,
		Source:     source,
		Routes:     routes,
	}, nil
}

// unit is the state of one Emit call.
type unit struct {
	ctrl    *descriptor.Controller
	adapter PlatformAdapter
	imports *ImportSet
	body    *Writer
	runtime string

	routeset, convert, pathmatrix, http, context string
}

// register claims every import up front so local names can avoid them.
// Runtime packages go first so they keep their names; unused ones are pruned.
func (u *unit) register() {
	u.adapter.RouterType(u.imports)
	u.http = u.imports.Add("net/http", "http")
	u.routeset = u.imports.Add(u.runtime+"/routeset", "routeset")
	u.convert = u.imports.Add(u.runtime+"/convert", "convert")
	u.pathmatrix = u.imports.Add(u.runtime+"/pathmatrix", "pathmatrix")
	if u.ctrl.RequestScoped {
		u.context = u.imports.Add("context", "context")
	}

	for _, m := range u.ctrl.Methods {
		for _, arg := range m.Args {
			if arg.Type.PkgPath != "" {
				u.imports.Add(arg.Type.PkgPath, arg.Type.PkgName)
			}
		}
		if m.Result != nil && m.Result.PkgPath != "" {
			u.imports.Add(m.Result.PkgPath, m.Result.PkgName)
		}
	}
	u.imports.Add(u.ctrl.PkgPath, u.ctrl.PkgName)
	if u.ctrl.Authorizes() {
		u.adapter.ControllerRoles(u.imports, u.ctrl.Roles)
	}
}

func (u *unit) typeName() string {
	return TypeName(u.ctrl.TypeName, u.adapter)
}

func (u *unit) controllerType() string {
	return u.ctrl.Type().Expr(u.imports.Qualify)
}

type field struct {
	name, typ, param, fallback string
}

func (u *unit) fields() []field {
	var out []field
	if u.ctrl.RequestScoped {
		out = append(out, field{name: "newController", typ: fmt.Sprintf("func(%s.Context) *%s", u.context, u.controllerType()), param: "newController"})
	} else {
		out = append(out, field{name: "controller", typ: "*" + u.controllerType(), param: "controller"})
	}
	if u.ctrl.Validates() {
		out = append(out, field{name: "validator", typ: u.routeset + ".Validator", param: "validator", fallback: u.routeset + ".NewValidator()"})
	}
	if u.ctrl.Authorizes() {
		out = append(out, field{name: "authorizer", typ: u.routeset + ".Authorizer", param: "authorizer", fallback: u.routeset + ".DenyAll()"})
	}
	if u.ctrl.ReadsBody() && u.adapter.NeedsCodecs() {
		out = append(out, field{name: "codecs", typ: "*" + u.routeset + ".Codecs", param: "codecs", fallback: u.routeset + ".NewCodecs()"})
	}
	return out
}

func (u *unit) writeType() {
	w := u.body
	name := u.typeName()
	routerType := u.adapter.RouterType(u.imports)
	fields := u.fields()

	w.Line("// %s registers the routes of %s on a %s.", name, u.ctrl.TypeName, routerType)
	w.Line("type %s struct {", name).Indent()
	for _, f := range fields {
		w.Line("%s %s", f.name, f.typ)
	}
	w.Dedent().Line("}").Eol()

	w.Line("var _ %s.RouteSet[%s] = (*%s)(nil)", u.routeset, routerType, name).Eol()

	params := make([]string, 0, len(fields))
	for _, f := range fields {
		params = append(params, f.param+" "+f.typ)
	}
	if u.ctrl.RequestScoped {
		w.Line("// New%s returns the route set of %s. newController is called once per request.", name, u.ctrl.TypeName)
	} else {
		w.Line("// New%s returns the route set of controller.", name)
	}
	for _, f := range fields {
		if f.fallback != "" {
			w.Line("// A nil %s is replaced by %s.", f.param, f.fallback)
		}
	}
	w.Line("func New%s(%s) *%s {", name, strings.Join(params, ", "), name).Indent()
	for _, f := range fields {
		if f.fallback == "" {
			continue
		}
		w.Line("if %s == nil {", f.param).Indent()
		w.Line("%s = %s", f.param, f.fallback)
		w.Dedent().Line("}")
	}
	w.Line("return &%s{", name).Indent()
	for _, f := range fields {
		w.Line("%s: %s,", f.name, f.param)
	}
	w.Dedent().Line("}")
	w.Dedent().Line("}").Eol()
}

func (u *unit) writeRegister() ([]RouteInfo, error) {
	w := u.body
	w.Line("// RegisterRoutes registers every route of %s on router.", u.ctrl.TypeName)
	w.Line("func (%s *%s) RegisterRoutes(router %s) {", SetVar, u.typeName(), u.adapter.RouterType(u.imports)).Indent()

	routes := make([]RouteInfo, 0, len(u.ctrl.Methods))
	for i, m := range u.ctrl.Methods {
		if i > 0 {
			w.Eol()
		}
		if err := u.writeRoute(m); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		routes = append(routes, RouteInfo{
			Method: m.Name,
			Verb:   m.HTTPMethod,
			Path:   m.Path.FullPath(),
			Params: m.WireParams(),
		})
	}

	w.Dedent().Line("}")
	return routes, nil
}

// StatusExpr renders a status code as a net/http constant when one exists.
func StatusExpr(httpPkg string, code int) string {
	if name, ok := statusNames[code]; ok {
		return httpPkg + "." + name
	}
	return strconv.Itoa(code)
}

var statusNames = map[int]string{
	200: "StatusOK",
	201: "StatusCreated",
	202: "StatusAccepted",
	204: "StatusNoContent",
	206: "StatusPartialContent",
	301: "StatusMovedPermanently",
	302: "StatusFound",
	303: "StatusSeeOther",
	304: "StatusNotModified",
	307: "StatusTemporaryRedirect",
	308: "StatusPermanentRedirect",
}
