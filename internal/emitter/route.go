package emitter

import (
	"fmt"
	"strings"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// handler is the state of one route handler body.
type handler struct {
	*unit
	m           *descriptor.Method
	locals      map[string]string
	errDeclared bool
}

func (u *unit) writeRoute(m *descriptor.Method) error {
	w := u.body
	h := &handler{unit: u, m: m, locals: make(map[string]string)}

	u.writeRouteDoc(m)
	u.adapter.BeginRoute(w, u.imports, m.HTTPMethod, m.Path)
	w.Indent()

	if len(m.Roles) > 0 {
		u.adapter.MethodRoles(w, u.imports, m.Roles)
	}

	for _, seg := range m.MatrixSegments() {
		raw, err := u.adapter.ReadParameter(descriptor.Path, seg.Placeholder(), nil)
		if err != nil {
			return fmt.Errorf("segment %s: %w", seg.Name, err)
		}
		w.Line("%s := %s.ParseRaw(%s)", h.local(segmentKey(seg)), u.pathmatrix, raw)
	}

	for _, p := range m.Params {
		var err error
		switch p.Source {
		case descriptor.Body:
			h.declareErr()
			u.adapter.ReadBody(w, u.imports, p, h.local(p.Name), h.valueType(p))
		case descriptor.Bean:
			err = h.writeBean(p)
		default:
			err = h.writeValue(p)
		}
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
	}

	if m.Validate {
		for _, p := range m.Params {
			if p.Source != descriptor.Body && p.Source != descriptor.Bean {
				continue
			}
			w.Line("if %s := %s.validator.Validate(%s, %s); %s != nil {", ErrVar, SetVar, u.adapter.RequestContext(), h.local(p.Name), ErrVar).Indent()
			u.adapter.WriteFail(w, u.imports, ErrVar)
			w.Dedent().Line("}")
		}
	}

	h.writeCall()

	w.Dedent()
	u.adapter.EndRoute(w)
	return nil
}

func (u *unit) writeRouteDoc(m *descriptor.Method) {
	w := u.body
	summary := m.Doc.Summary
	if summary == "" {
		summary = m.Name
	}
	w.Comment(fmt.Sprintf("%s %s: %s", m.HTTPMethod, m.Path.FullPath(), summary))
	if m.Doc.Deprecated {
		w.Line("//")
		w.Line("// Deprecated: %s.%s is deprecated.", u.ctrl.TypeName, m.Name)
	}
}

func segmentKey(seg pathtemplate.Segment) string {
	return "\x00segment:" + seg.Name
}

// local returns the handler variable for a parameter or matrix segment.
func (h *handler) local(key string) string {
	if name, ok := h.locals[key]; ok {
		return name
	}
	name := key
	if seg, ok := strings.CutPrefix(key, "\x00segment:"); ok {
		name = seg + "Segment"
	}
	for h.taken(name) {
		name += "Param"
	}
	h.locals[key] = name
	return name
}

func (h *handler) taken(name string) bool {
	if _, reserved := h.imports.byName[name]; reserved {
		return true
	}
	for _, used := range h.locals {
		if used == name {
			return true
		}
	}
	return false
}

func (h *handler) declareErr() {
	if h.errDeclared {
		return
	}
	h.body.Line("var %s error", ErrVar)
	h.errDeclared = true
}

// rawExpr is the *string expression feeding the converter of a value binding.
func (h *handler) rawExpr(p descriptor.ParamBinding) (string, error) {
	if p.Matrix == nil {
		return h.adapter.ReadParameter(p.Source, p.WireName, p.Default)
	}
	segment := h.local(segmentKey(p.Matrix.Segment))
	if p.Matrix.Metric == "" {
		return fmt.Sprintf("%s.NonEmpty(%s.Val())", h.convert, segment), nil
	}
	return fmt.Sprintf("%s.Opt(%s.Metric(%q))", h.convert, segment, p.Matrix.Metric), nil
}

func (h *handler) convertExpr(p descriptor.ParamBinding) (string, error) {
	raw, err := h.rawExpr(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s(%q, %s)", h.convert, p.ConvertFunc(), p.WireName, raw), nil
}

func (h *handler) writeValue(p descriptor.ParamBinding) error {
	expr, err := h.convertExpr(p)
	if err != nil {
		return err
	}
	w := h.body
	w.Line("%s, %s := %s", h.local(p.Name), ErrVar, expr)
	h.errDeclared = true
	w.Line("if %s != nil {", ErrVar).Indent()
	h.adapter.WriteFail(w, h.imports, ErrVar)
	w.Dedent().Line("}")
	return nil
}

func (h *handler) writeBean(p descriptor.ParamBinding) error {
	w := h.body
	target := h.local(p.Name)
	w.Line("var %s %s", target, h.valueType(p))
	if len(p.Fields) == 0 {
		return nil
	}
	h.declareErr()
	for _, f := range p.Fields {
		expr, err := h.convertExpr(f)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.FieldPath, err)
		}
		w.Line("if %s.%s, %s = %s; %s != nil {", target, f.FieldPath, ErrVar, expr, ErrVar).Indent()
		h.adapter.WriteFail(w, h.imports, ErrVar)
		w.Dedent().Line("}")
	}
	return nil
}

// argument is the expression passed for one controller parameter.
func (h *handler) argument(arg descriptor.Argument) string {
	if arg.Context {
		return h.adapter.ContextArgument(arg.Type)
	}
	p := h.m.Params[arg.Binding]
	local := h.local(p.Name)
	if p.Source == descriptor.Bean && p.Type.Pointer && !p.Type.Slice {
		return "&" + local
	}
	return local
}

// valueType is the element type of a body or bean. A pointer bean is filled
// through a value and passed by address; an optional body is read as a pointer.
func (h *handler) valueType(p descriptor.ParamBinding) string {
	if p.Type.Slice {
		return p.Type.Expr(h.imports.Qualify)
	}
	return p.Type.Elem().Expr(h.imports.Qualify)
}

func (h *handler) writeCall() {
	w := h.body
	args := make([]string, 0, len(h.m.Args))
	for _, arg := range h.m.Args {
		args = append(args, h.argument(arg))
	}

	receiver := SetVar + ".controller"
	if h.ctrl.RequestScoped {
		receiver = fmt.Sprintf("%s.newController(%s)", SetVar, h.adapter.RequestContext())
	}
	call := fmt.Sprintf("%s.%s(%s)", receiver, h.m.Name, strings.Join(args, ", "))

	switch {
	case h.m.Result != nil && h.m.ReturnsError:
		w.Line("%s, %s := %s", ResultVar, ErrVar, call)
		w.Line("if %s != nil {", ErrVar).Indent()
		h.adapter.WriteFail(w, h.imports, ErrVar)
		w.Dedent().Line("}")
		h.adapter.WriteResponse(w, h.imports, h.m, ResultVar)
	case h.m.Result != nil:
		w.Line("%s := %s", ResultVar, call)
		h.adapter.WriteResponse(w, h.imports, h.m, ResultVar)
	case h.m.ReturnsError:
		w.Line("if %s := %s; %s != nil {", ErrVar, call, ErrVar).Indent()
		h.adapter.WriteFail(w, h.imports, ErrVar)
		w.Dedent().Line("}")
		h.adapter.WriteResponse(w, h.imports, h.m, "")
	default:
		w.Line("%s", call)
		h.adapter.WriteResponse(w, h.imports, h.m, "")
	}
}
