package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-routegen/internal/binder"
	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

type noStructs struct{}

func (noStructs) LookupStruct(domain.TypeRef) (*domain.Struct, bool) { return nil, false }

func TestLookup(t *testing.T) {
	t.Run("should find every backend and alias", func(t *testing.T) {
		for name, want := range map[string]string{
			"http":    "http",
			"nethttp": "http",
			"GIN":     "gin",
			" echo ":  "echo",
		} {
			a, err := Lookup(name)
			require.NoError(t, err, name)
			assert.Equal(t, want, a.Name())
		}
	})

	t.Run("should reject unknown backends", func(t *testing.T) {
		_, err := Lookup("javalin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "echo, gin, http")
	})

	t.Run("should resolve a list without duplicates", func(t *testing.T) {
		list, err := Resolve([]string{"gin", "http", "nethttp", "gin"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "gin", list[0].Name())
		assert.Equal(t, "http", list[1].Name())
	})
}

func TestReadParameter(t *testing.T) {
	def := "10"
	tests := []struct {
		backend string
		kind    descriptor.SourceKind
		def     *string
		want    string
	}{
		{"http", descriptor.Path, nil, `convert.NonEmpty(req.PathValue("id"))`},
		{"http", descriptor.Query, &def, `convert.WithDefault(convert.Opt(routeset.QueryValue(req.URL.Query(), "id")), "10")`},
		{"http", descriptor.Header, nil, `convert.Opt(routeset.HeaderValue(req.Header, "id"))`},
		{"http", descriptor.Cookie, nil, `convert.Opt(routeset.CookieValue(req, "id"))`},
		{"http", descriptor.Form, nil, `convert.Opt(routeset.FormValue(req, "id"))`},
		{"gin", descriptor.Path, nil, `convert.NonEmpty(c.Param("id"))`},
		{"gin", descriptor.Query, nil, `convert.Opt(c.GetQuery("id"))`},
		{"gin", descriptor.Header, nil, `convert.Opt(routeset.HeaderValue(c.Request.Header, "id"))`},
		{"gin", descriptor.Cookie, nil, `convert.OptErr(c.Cookie("id"))`},
		{"gin", descriptor.Form, &def, `convert.WithDefault(convert.Opt(c.GetPostForm("id")), "10")`},
		{"echo", descriptor.Path, nil, `convert.NonEmpty(c.Param("id"))`},
		{"echo", descriptor.Query, nil, `convert.Opt(routeset.QueryValue(c.QueryParams(), "id"))`},
		{"echo", descriptor.Header, nil, `convert.Opt(routeset.HeaderValue(c.Request().Header, "id"))`},
		{"echo", descriptor.Cookie, nil, `convert.Opt(routeset.CookieValue(c.Request(), "id"))`},
		{"echo", descriptor.Form, nil, `convert.Opt(routeset.FormValue(c.Request(), "id"))`},
	}
	for _, tt := range tests {
		t.Run(tt.backend+" "+tt.kind.String(), func(t *testing.T) {
			a, err := Lookup(tt.backend)
			require.NoError(t, err)
			expr, err := a.ReadParameter(tt.kind, "id", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr)
		})
	}

	t.Run("should not read bodies or beans", func(t *testing.T) {
		for _, name := range Names() {
			a, _ := Lookup(name)
			for _, kind := range []descriptor.SourceKind{descriptor.Body, descriptor.Bean} {
				_, err := a.ReadParameter(kind, "x", nil)
				assert.ErrorIs(t, err, emitter.ErrUnsupportedSource, name)
			}
		}
	})
}

func TestContextTypes(t *testing.T) {
	ctx := domain.TypeRef{PkgPath: "context", Name: "Context"}
	req := domain.TypeRef{PkgPath: "net/http", Name: "Request", Pointer: true}
	ginCtx := domain.TypeRef{PkgPath: "github.com/gin-gonic/gin", Name: "Context", Pointer: true}
	echoCtx := domain.TypeRef{PkgPath: "github.com/labstack/echo/v4", Name: "Context"}
	plainReq := domain.TypeRef{PkgPath: "net/http", Name: "Request"}

	tests := []struct {
		backend string
		t       domain.TypeRef
		want    bool
		arg     string
	}{
		{"http", ctx, true, "req.Context()"},
		{"http", req, true, "req"},
		{"http", plainReq, false, ""},
		{"http", ginCtx, false, ""},
		{"gin", ginCtx, true, "c"},
		{"gin", req, true, "c.Request"},
		{"gin", ctx, true, "c.Request.Context()"},
		{"gin", echoCtx, false, ""},
		{"echo", echoCtx, true, "c"},
		{"echo", ctx, true, "c.Request().Context()"},
		{"echo", ginCtx, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.backend+" "+tt.t.String(), func(t *testing.T) {
			a, err := Lookup(tt.backend)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.IsContextType(tt.t))
			if tt.want {
				assert.Equal(t, tt.arg, a.ContextArgument(tt.t))
			}
		})
	}
}

// describe binds a small controller for one backend the way the orchestrator does.
func describe(t *testing.T, a emitter.PlatformAdapter) *descriptor.Controller {
	t.Helper()
	b := binder.New(a, noStructs{})

	ctx := domain.TypeRef{PkgPath: "context", PkgName: "context", Name: "Context"}
	user := domain.TypeRef{PkgPath: "example.com/app/api", PkgName: "api", Name: "User"}
	methods := []struct {
		verb, path string
		status     int
		m          *domain.Method
	}{
		{"GET", "/items/:id;v", 200, &domain.Method{
			Name: "Get",
			Params: []domain.Param{
				{Name: "ctx", Type: ctx},
				{Name: "id", Type: domain.TypeRef{Name: "int"}},
				{Name: "idV", Type: domain.TypeRef{Name: "string", Pointer: true}},
				{Name: "q", Type: domain.TypeRef{Name: "string", Pointer: true}},
			},
			Result:       &user,
			ReturnsError: true,
		}},
		{"POST", "/items", 201, &domain.Method{
			Name:         "Create",
			Params:       []domain.Param{{Name: "user", Type: user}, {Name: "token", Type: domain.TypeRef{Name: "string"}}},
			Hints:        []domain.BindingHint{{Source: "header", Name: "token", WireName: "X-Token"}},
			Validate:     true,
			ReturnsError: true,
		}},
		{"DELETE", "/items/:id", 204, &domain.Method{
			Name:   "Delete",
			Params: []domain.Param{{Name: "id", Type: domain.TypeRef{Name: "int64"}}},
			Roles:  []string{"admin"},
		}},
		{"PUT", "/items/:id", 204, &domain.Method{
			Name:   "Update",
			Params: []domain.Param{{Name: "id", Type: domain.TypeRef{Name: "int64"}}, {Name: "patch", Type: domain.TypeRef{PkgPath: user.PkgPath, PkgName: user.PkgName, Name: user.Name, Pointer: true}}},
			Hints:  []domain.BindingHint{{Source: "body", Name: "patch"}},
		}},
	}

	c := &descriptor.Controller{TypeName: "Items", PkgPath: "example.com/app/api", PkgName: "api"}
	for _, spec := range methods {
		tmpl := pathtemplate.MustParse(spec.path)
		bound, err := b.Bind(spec.m, tmpl)
		require.NoError(t, err)
		c.Methods = append(c.Methods, &descriptor.Method{
			Name:         spec.m.Name,
			HTTPMethod:   spec.verb,
			StatusCode:   spec.status,
			Path:         tmpl,
			Params:       bound.Params,
			Args:         bound.Args,
			BodyType:     bound.BodyType,
			Roles:        spec.m.Roles,
			Validate:     spec.m.Validate,
			Result:       spec.m.Result,
			ReturnsError: spec.m.ReturnsError,
		})
	}
	return c
}

func TestBackendsAreEquivalent(t *testing.T) {
	e := emitter.New(emitter.Config{})

	var units []*emitter.Unit
	for _, name := range Names() {
		a, err := Lookup(name)
		require.NoError(t, err)
		unit, err := e.Emit(describe(t, a), a)
		require.NoError(t, err, name)
		units = append(units, unit)
	}

	reference := units[0]
	require.Len(t, reference.Routes, 4)
	for _, unit := range units[1:] {
		assert.Equal(t, reference.Routes, unit.Routes, unit.Backend)
		assert.NotEqual(t, string(reference.Source), string(unit.Source))
	}
	assert.Equal(t, []string{"path:id", "path:v", "query:q"}, reference.Routes[0].Params)
	assert.Equal(t, []string{"body", "header:X-Token"}, reference.Routes[1].Params)
}

func TestEmitGin(t *testing.T) {
	a, _ := Lookup("gin")
	unit, err := emitter.New(emitter.Config{}).Emit(describe(t, a), a)
	require.NoError(t, err)
	src := string(unit.Source)

	assert.Equal(t, "items_gin_routes.go", unit.FileName)
	assert.Contains(t, src, "var _ routeset.RouteSet[gin.IRoutes] = (*ItemsGinRoutes)(nil)")
	assert.Contains(t, src, `router.Handle(http.MethodGet, "/items/:id_segment", func(c *gin.Context) {`)
	assert.Contains(t, src, `result, err := rs.controller.Get(c.Request.Context(), id, idV, q)`)
	assert.Contains(t, src, `c.JSON(http.StatusOK, result)`)
	assert.Contains(t, src, `c.AbortWithStatusJSON(routeset.StatusOf(err), routeset.NewProblem(err))`)
	assert.Contains(t, src, `if user, err = routeset.DecodeJSON[User](rs.codecs, c.Request.Body); err != nil {`)
	assert.Contains(t, src, `c.Status(http.StatusNoContent)`)
}

func TestEmitEcho(t *testing.T) {
	a, _ := Lookup("echo")
	unit, err := emitter.New(emitter.Config{}).Emit(describe(t, a), a)
	require.NoError(t, err)
	src := string(unit.Source)

	assert.Contains(t, src, `echo "github.com/labstack/echo/v4"`)
	assert.Contains(t, src, "var _ routeset.RouteSet[*echo.Echo] = (*ItemsEchoRoutes)(nil)")
	assert.Contains(t, src, `router.Add(http.MethodDelete, "/items/:id", func(c echo.Context) error {`)
	assert.Contains(t, src, "if c.Request().ContentLength == 0 {\n\t\t\terr = routeset.ErrEmptyBody\n\t\t} else {\n\t\t\terr = (&echo.DefaultBinder{}).BindBody(c, &user)\n\t\t}")
	assert.Contains(t, src, `return c.JSON(routeset.StatusOf(err), routeset.NewProblem(err))`)
	assert.Contains(t, src, `return c.NoContent(http.StatusNoContent)`)
	assert.NotContains(t, src, "codecs")
}

func TestEmitNetHTTPRoot(t *testing.T) {
	assert.Equal(t, "GET /{$}", nethttpPattern("GET", "/"))
	assert.Equal(t, "GET /a/{id_segment}", nethttpPattern("GET", "/a/:id;x"))
}

func TestReadBody(t *testing.T) {
	e := emitter.New(emitter.Config{})
	emit := func(t *testing.T, name string) string {
		t.Helper()
		a, err := Lookup(name)
		require.NoError(t, err)
		unit, err := e.Emit(describe(t, a), a)
		require.NoError(t, err)
		return string(unit.Source)
	}

	t.Run("should fail required bodies and keep optional bodies nil on http", func(t *testing.T) {
		src := emit(t, "http")
		assert.Contains(t, src, `if user, err = routeset.DecodeJSON[User](rs.codecs, req.Body); err != nil {`)
		assert.Contains(t, src, "var patch *User\n")
		assert.Contains(t, src, `if patch, err = routeset.DecodeOptionalJSON[User](rs.codecs, req.Body); err != nil {`)
		assert.Contains(t, src, "rs.controller.Update(id, patch)\n")
	})

	t.Run("should fail required bodies and keep optional bodies nil on gin", func(t *testing.T) {
		src := emit(t, "gin")
		assert.Contains(t, src, `if patch, err = routeset.DecodeOptionalJSON[User](rs.codecs, c.Request.Body); err != nil {`)
		assert.Contains(t, src, "rs.controller.Update(id, patch)\n")
	})

	t.Run("should check the content length before echo binds", func(t *testing.T) {
		src := emit(t, "echo")
		assert.Contains(t, src, "err = routeset.ErrEmptyBody")
		assert.Contains(t, src, "if c.Request().ContentLength != 0 {\n\t\t\tpatch = new(User)\n\t\t\tif err = (&echo.DefaultBinder{}).BindBody(c, patch); err != nil {")
		assert.Contains(t, src, "rs.controller.Update(id, patch)\n")
	})
}
