package route

import (
	"go/ast"
	"go/token"
	"reflect"
	"strconv"

	"github.com/griffnb/core-routegen/internal/domain"
)

// collectStructs records every top-level struct declaration of the file.
// Unexported fields are dropped; fields whose type cannot be bound are
// dropped with a debug message since most structs are never used as beans.
func (s *Service) collectStructs(file *fileScope) []*domain.Struct {
	var out []*domain.Struct
	for _, decl := range file.info.File.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			out = append(out, s.parseStruct(file, typeSpec.Name.Name, structType))
		}
	}
	return out
}

func (s *Service) parseStruct(file *fileScope, name string, structType *ast.StructType) *domain.Struct {
	st := &domain.Struct{
		PkgPath: file.pkgPath,
		PkgName: file.pkgName,
		Name:    name,
	}
	for _, field := range structType.Fields.List {
		var tag reflect.StructTag
		if field.Tag != nil {
			if raw, err := strconv.Unquote(field.Tag.Value); err == nil {
				tag = reflect.StructTag(raw)
			}
		}

		ref, err := file.resolveType(field.Type)
		if err != nil {
			s.debug.Printf("struct %s: skipping field: %v", name, err)
			continue
		}

		if len(field.Names) == 0 {
			if !ast.IsExported(ref.Name) {
				continue
			}
			st.Fields = append(st.Fields, domain.Field{Name: ref.Name, Type: ref, Tag: tag, Embedded: true})
			continue
		}
		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}
			st.Fields = append(st.Fields, domain.Field{Name: ident.Name, Type: ref, Tag: tag})
		}
	}
	return st
}
