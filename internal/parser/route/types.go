package route

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/griffnb/core-routegen/internal/domain"
)

// ErrUnsupportedType is returned for type expressions a binding cannot carry:
// maps, funcs, channels, generics, anonymous structs.
var ErrUnsupportedType = errors.New("unsupported type expression")

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// importsOf maps the identifier a file uses for each import to its path.
func importsOf(file *ast.File) map[string]string {
	out := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := DefaultPackageName(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		out[name] = importPath
	}
	return out
}

// DefaultPackageName guesses the package name of an import path:
// "github.com/labstack/echo/v4" -> "echo", "gopkg.in/yaml.v3" -> "yaml",
// "github.com/goccy/go-json" -> "json".
func DefaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if versionSuffix.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.NewReplacer("-", "_", ".", "_").Replace(base)
}

// resolveType turns a parameter, result or field type expression into a TypeRef.
func (f *fileScope) resolveType(expr ast.Expr) (domain.TypeRef, error) {
	var ref domain.TypeRef

	if arr, ok := expr.(*ast.ArrayType); ok {
		if arr.Len != nil {
			return ref, fmt.Errorf("%w: %s", ErrUnsupportedType, types.ExprString(expr))
		}
		ref.Slice = true
		expr = arr.Elt
	}
	if star, ok := expr.(*ast.StarExpr); ok {
		ref.Pointer = true
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.Ident:
		ref.Name = t.Name
		if !domain.IsBuiltinType(t.Name) {
			ref.PkgPath = f.pkgPath
			ref.PkgName = f.pkgName
		}
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return ref, fmt.Errorf("%w: %s", ErrUnsupportedType, types.ExprString(expr))
		}
		importPath, ok := f.imports[pkg.Name]
		if !ok {
			return ref, fmt.Errorf("unknown package %q in %s", pkg.Name, types.ExprString(expr))
		}
		ref.PkgPath = importPath
		ref.PkgName = pkg.Name
		ref.Name = t.Sel.Name
	case *ast.InterfaceType:
		if t.Methods != nil && len(t.Methods.List) > 0 {
			return ref, fmt.Errorf("%w: %s", ErrUnsupportedType, types.ExprString(expr))
		}
		ref.Name = "any"
	default:
		return ref, fmt.Errorf("%w: %s", ErrUnsupportedType, types.ExprString(expr))
	}
	return ref, nil
}
