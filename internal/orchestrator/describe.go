package orchestrator

import (
	"fmt"
	"net/http"

	"github.com/griffnb/core-routegen/internal/binder"
	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/parser/javadoc"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

// Describe turns a parsed controller into its descriptor for the backend the binder serves.
func Describe(c *domain.Controller, b *binder.Binder) (*descriptor.Controller, error) {
	desc := &descriptor.Controller{
		TypeName:      c.Name,
		PkgPath:       c.PkgPath,
		PkgName:       c.PkgName,
		Dir:           c.Dir,
		BasePath:      c.BasePath,
		RequestScoped: c.RequestScoped,
		Roles:         c.Roles,
		Doc:           javadoc.Parse(c.Doc),
	}

	for _, m := range c.Methods {
		dm, err := describeMethod(c, m, b)
		if err != nil {
			return nil, fmt.Errorf("method %s (%s): %w", m.Name, m.Position, err)
		}
		desc.Methods = append(desc.Methods, dm)
	}
	return desc, nil
}

func describeMethod(c *domain.Controller, m *domain.Method, b *binder.Binder) (*descriptor.Method, error) {
	tmpl, err := pathtemplate.Parse(pathtemplate.Join(c.BasePath, m.Path))
	if err != nil {
		return nil, err
	}

	bound, err := b.Bind(m, tmpl)
	if err != nil {
		return nil, err
	}

	return &descriptor.Method{
		Name:         m.Name,
		HTTPMethod:   m.Verb,
		StatusCode:   StatusCode(m),
		Path:         tmpl,
		Params:       bound.Params,
		Args:         bound.Args,
		BodyType:     bound.BodyType,
		Produces:     m.Produces,
		Consumes:     m.Consumes,
		Roles:        EffectiveRoles(c, m),
		Validate:     m.Validate,
		Result:       m.Result,
		ReturnsError: m.ReturnsError,
		Doc:          javadoc.Parse(m.Doc),
	}, nil
}

// StatusCode is the explicit @status, else 201 for POST, 204 without a result, else 200.
func StatusCode(m *domain.Method) int {
	switch {
	case m.Status != 0:
		return m.Status
	case m.Verb == http.MethodPost:
		return http.StatusCreated
	case m.Result == nil:
		return http.StatusNoContent
	}
	return http.StatusOK
}

// EffectiveRoles are the method roles, or the controller roles when the method names none.
func EffectiveRoles(c *domain.Controller, m *domain.Method) []string {
	if len(m.Roles) > 0 {
		return m.Roles
	}
	return c.Roles
}
