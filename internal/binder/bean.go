package binder

import (
	"fmt"
	"strings"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/naming"
)

// maxBeanDepth bounds nested struct expansion.
const maxBeanDepth = 8

// isBean reports whether t is a scanned struct with at least one binding tag,
// directly or through an embedded struct.
func (b *Binder) isBean(t domain.TypeRef) bool {
	if t.Slice || t.IsBuiltin() {
		return false
	}
	return b.hasBindingTags(t, make(map[string]bool))
}

func (b *Binder) hasBindingTags(t domain.TypeRef, visited map[string]bool) bool {
	if visited[t.Key()] {
		return false
	}
	visited[t.Key()] = true

	st, ok := b.structs.LookupStruct(t.Elem())
	if !ok {
		return false
	}
	for _, f := range st.Fields {
		if _, tag := sourceTag(f); tag != "" && tag != "-" {
			return true
		}
		if f.Embedded && !f.Type.Pointer && b.hasBindingTags(f.Type, visited) {
			return true
		}
	}
	return false
}

func (b *Binder) bindBean(st *state, param domain.Param) (descriptor.ParamBinding, error) {
	if param.Type.Slice {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %s", ErrUnknownBean, param.Type)
	}
	decl, ok := b.structs.LookupStruct(param.Type.Elem())
	if !ok {
		return descriptor.ParamBinding{}, fmt.Errorf("%w: %s", ErrUnknownBean, param.Type)
	}

	fields, err := b.expandFields(st, param.Name, decl, "", map[string]bool{decl.Type().Key(): true}, 0)
	if err != nil {
		return descriptor.ParamBinding{}, err
	}
	return descriptor.ParamBinding{
		Name:   param.Name,
		Source: descriptor.Bean,
		Type:   param.Type,
		Fields: fields,
	}, nil
}

// expandFields flattens the fields of decl. prefix is the selector of decl within the bean.
func (b *Binder) expandFields(st *state, bean string, decl *domain.Struct, prefix string, visiting map[string]bool, depth int) ([]descriptor.ParamBinding, error) {
	if depth > maxBeanDepth {
		return nil, fmt.Errorf("%w: %s nests deeper than %d levels", ErrUnsupportedParameterType, decl.Name, maxBeanDepth)
	}

	var out []descriptor.ParamBinding
	for _, f := range decl.Fields {
		fieldPath := f.Name
		if prefix != "" {
			fieldPath = prefix + "." + f.Name
		}
		source, tag := sourceTag(f)
		if tag == "-" {
			continue
		}

		if tag == "" {
			nested, ok := b.nestedStruct(f.Type)
			if ok {
				if visiting[nested.Type().Key()] {
					return nil, fmt.Errorf("%w: %s refers to itself", ErrUnsupportedParameterType, nested.Name)
				}
				visiting[nested.Type().Key()] = true
				inner, err := b.expandFields(st, bean, nested, fieldPath, visiting, depth+1)
				delete(visiting, nested.Type().Key())
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
				continue
			}
			if _, convertible := b.converter(f.Type); !convertible {
				// Untagged fields nothing can read are left to the zero value.
				continue
			}
		}

		binding, err := b.bindField(st, bean, f, fieldPath, source, tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldPath, err)
		}
		out = append(out, binding)
	}
	return out, nil
}

func (b *Binder) bindField(st *state, bean string, f domain.Field, fieldPath string, source descriptor.SourceKind, tag string) (descriptor.ParamBinding, error) {
	var def *string
	if value, ok := f.Tag.Lookup("default"); ok {
		def = &value
	}

	var (
		binding descriptor.ParamBinding
		err     error
	)
	switch {
	case source == descriptor.Path:
		binding, err = b.bindPath(st, f.Name, tag, f.Type, bean+"."+fieldPath)
		if err == nil && def != nil {
			err = fmt.Errorf("%w: path values take no default", ErrUnsupportedParameterSource)
		}
	case tag == "":
		wire := b.wireName(f)
		if varName, ok := st.pathVariable(wire, f.Name); ok {
			binding, err = b.bindPath(st, f.Name, varName, f.Type, bean+"."+fieldPath)
			if err == nil && def != nil {
				err = fmt.Errorf("%w: path values take no default", ErrUnsupportedParameterSource)
			}
			break
		}
		binding, err = b.bindValue(f.Name, wire, descriptor.Query, f.Type, def)
	default:
		binding, err = b.bindValue(f.Name, tag, source, f.Type, def)
	}
	if err != nil {
		return descriptor.ParamBinding{}, err
	}
	binding.FieldPath = fieldPath
	return binding, nil
}

// nestedStruct returns the declaration of a value struct field that has no converter.
func (b *Binder) nestedStruct(t domain.TypeRef) (*domain.Struct, bool) {
	if t.Pointer || t.Slice || t.IsBuiltin() {
		return nil, false
	}
	if _, ok := b.converter(t); ok {
		return nil, false
	}
	return b.structs.LookupStruct(t)
}

// wireName names an untagged field: its json name when it has one, else the naming strategy.
func (b *Binder) wireName(f domain.Field) string {
	if jsonTag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(jsonTag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return naming.Apply(f.Name, b.naming)
}

// sourceTag returns the first binding tag of f and its name.
func sourceTag(f domain.Field) (descriptor.SourceKind, string) {
	for _, tag := range bindingTags {
		value, ok := f.Tag.Lookup(tag)
		if !ok {
			continue
		}
		kind, _ := descriptor.ParseSourceKind(tag)
		name, _, _ := strings.Cut(value, ",")
		if name == "" {
			name = f.Name
		}
		return kind, name
	}
	return descriptor.Query, ""
}
