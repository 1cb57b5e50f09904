package route

import (
	"fmt"
	"go/ast"
	"path/filepath"
	"strings"

	"github.com/griffnb/core-routegen/internal/domain"
)

// parseControllers reads @controller types from one type declaration.
func (s *Service) parseControllers(file *fileScope, decl *ast.GenDecl) ([]*domain.Controller, error) {
	var out []*domain.Controller
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := typeSpec.Doc
		if doc == nil && len(decl.Specs) == 1 {
			doc = decl.Doc
		}
		if doc == nil {
			continue
		}

		c, err := s.parseController(file, typeSpec, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.position(typeSpec.Pos()), err)
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) parseController(file *fileScope, spec *ast.TypeSpec, doc *ast.CommentGroup) (*domain.Controller, error) {
	c := &domain.Controller{
		Name:    spec.Name.Name,
		PkgPath: file.pkgPath,
		PkgName: file.pkgName,
		Dir:     filepath.Dir(file.info.Path),
		File:    file.info.Path,
		Doc:     doc.Text(),
	}

	isController := false
	for _, comment := range doc.List {
		attribute, remainder := splitDirective(comment.Text)
		switch attribute {
		case "@controller":
			isController = true
			c.BasePath = remainder
		case "@roles":
			c.Roles = parseList(remainder)
		case "@requestscoped":
			c.RequestScoped = true
		}
	}
	if !isController {
		return nil, nil
	}
	if spec.TypeParams != nil {
		return nil, fmt.Errorf("controller %s: generic controllers are not supported", c.Name)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return nil, fmt.Errorf("controller %s: base path %q must start with /", c.Name, c.BasePath)
	}
	return c, nil
}
