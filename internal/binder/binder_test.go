package binder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/naming"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

const appPkg = "example.com/app/api"

type fakePlatform struct {
	unreadable map[descriptor.SourceKind]bool
}

func (f *fakePlatform) IsContextType(t domain.TypeRef) bool {
	return t.Key() == "context.Context"
}

func (f *fakePlatform) ReadParameter(kind descriptor.SourceKind, wireName string, _ *string) (string, error) {
	if f.unreadable[kind] || !kind.IsValue() {
		return "", errors.New("no read for " + kind.String())
	}
	return kind.String() + "(" + wireName + ")", nil
}

type structTable map[string]*domain.Struct

func (s structTable) LookupStruct(t domain.TypeRef) (*domain.Struct, bool) {
	st, ok := s[t.Key()]
	return st, ok
}

func builtin(name string) domain.TypeRef {
	return domain.TypeRef{Name: name}
}

func local(name string) domain.TypeRef {
	return domain.TypeRef{PkgPath: appPkg, PkgName: "api", Name: name}
}

func ptr(t domain.TypeRef) domain.TypeRef {
	t.Pointer = true
	return t
}

func str(s string) *string { return &s }

func field(name string, t domain.TypeRef, tag string) domain.Field {
	return domain.Field{Name: name, Type: t, Tag: reflect.StructTag(tag)}
}

func testStructs() structTable {
	return structTable{
		appPkg + ".Paging": {PkgPath: appPkg, PkgName: "api", Name: "Paging", Fields: []domain.Field{
			field("Limit", builtin("int"), `query:"limit" default:"20"`),
			field("Offset", ptr(builtin("int")), `query:"offset"`),
		}},
		appPkg + ".Filter": {PkgPath: appPkg, PkgName: "api", Name: "Filter", Fields: []domain.Field{
			field("ID", builtin("int64"), `path:"id"`),
			field("Token", builtin("string"), `header:"X-Token"`),
			field("Session", ptr(builtin("string")), `cookie:"session"`),
			field("FirstName", ptr(builtin("string")), ``),
			field("Sort", builtin("string"), `json:"sort_by"`),
			field("Paging", local("Paging"), ``),
			field("Ignored", builtin("string"), `query:"-"`),
			field("Meta", domain.TypeRef{Name: "string", Slice: true}, ``),
		}},
		appPkg + ".Lookup": {PkgPath: appPkg, PkgName: "api", Name: "Lookup", Fields: []domain.Field{
			field("Owner", builtin("string"), ``),
			field("Page", ptr(builtin("int")), ``),
		}},
		appPkg + ".User": {PkgPath: appPkg, PkgName: "api", Name: "User", Fields: []domain.Field{
			field("Name", builtin("string"), `json:"name"`),
		}},
		appPkg + ".Node": {PkgPath: appPkg, PkgName: "api", Name: "Node", Fields: []domain.Field{
			field("Name", builtin("string"), `query:"name"`),
			field("Next", local("Node"), ``),
		}},
	}
}

func newBinder(opts ...Option) *Binder {
	return New(&fakePlatform{}, testStructs(), opts...)
}

func TestBind_Classification(t *testing.T) {
	t.Run("should pass context through and bind path and query", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{
				{Name: "ctx", Type: domain.TypeRef{PkgPath: "context", PkgName: "context", Name: "Context"}},
				{Name: "id", Type: builtin("int64")},
				{Name: "limit", Type: builtin("int")},
				{Name: "q", Type: ptr(builtin("string"))},
			},
		}
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/users/:id"))
		require.NoError(t, err)

		require.Len(t, result.Args, 4)
		assert.True(t, result.Args[0].Context)
		assert.Equal(t, -1, result.Args[0].Binding)
		assert.Equal(t, 0, result.Args[1].Binding)

		require.Len(t, result.Params, 3)
		id := result.Params[0]
		assert.Equal(t, descriptor.Path, id.Source)
		assert.True(t, id.Required)
		assert.False(t, id.Nullable)
		assert.Equal(t, "AsInt64", id.ConvertFunc())

		limit := result.Params[1]
		assert.Equal(t, descriptor.Query, limit.Source)
		assert.True(t, limit.Required)
		assert.Equal(t, "AsInt", limit.ConvertFunc())

		q := result.Params[2]
		assert.Equal(t, descriptor.Query, q.Source)
		assert.False(t, q.Required)
		assert.True(t, q.Nullable)
		assert.Equal(t, "ToString", q.ConvertFunc())
	})

	t.Run("should honor explicit directives and defaults", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{
				{Name: "token", Type: builtin("string")},
				{Name: "limit", Type: builtin("int")},
				{Name: "session", Type: ptr(builtin("string"))},
				{Name: "name", Type: builtin("string")},
			},
			Hints: []domain.BindingHint{
				{Source: "header", Name: "token", WireName: "X-Token"},
				{Source: "query", Name: "limit", WireName: "max", Default: str("10")},
				{Source: "cookie", Name: "session"},
				{Source: "form", Name: "name"},
			},
		}
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/"))
		require.NoError(t, err)
		require.Len(t, result.Params, 4)

		assert.Equal(t, descriptor.Header, result.Params[0].Source)
		assert.Equal(t, "X-Token", result.Params[0].WireName)

		limit := result.Params[1]
		assert.Equal(t, "max", limit.WireName)
		require.NotNil(t, limit.Default)
		assert.Equal(t, "10", *limit.Default)
		assert.False(t, limit.Required)
		assert.Equal(t, "AsInt", limit.ConvertFunc())

		assert.Equal(t, descriptor.Cookie, result.Params[2].Source)
		assert.Equal(t, "session", result.Params[2].WireName)
		assert.Equal(t, descriptor.Form, result.Params[3].Source)
	})

	t.Run("should fall back to the body for types without converters", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{{Name: "user", Type: local("User")}},
		}
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/"))
		require.NoError(t, err)
		require.Len(t, result.Params, 1)
		assert.Equal(t, descriptor.Body, result.Params[0].Source)
		require.NotNil(t, result.BodyType)
		assert.Equal(t, appPkg+".User", result.BodyType.Key())
	})

	t.Run("should treat slices as the body", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{{Name: "ids", Type: domain.TypeRef{Name: "int", Slice: true}}},
		}
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/"))
		require.NoError(t, err)
		assert.Equal(t, descriptor.Body, result.Params[0].Source)
	})
}

func TestBind_Matrix(t *testing.T) {
	tmpl := pathtemplate.MustParse("/:id;key;other/:foo;baz")

	t.Run("should bind segment values and metrics", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{
				{Name: "id", Type: builtin("int")},
				{Name: "idKey", Type: builtin("string")},
				{Name: "idOther", Type: ptr(builtin("string"))},
				{Name: "foo", Type: builtin("string")},
			},
		}
		result, err := newBinder().Bind(m, tmpl)
		require.NoError(t, err)
		require.Len(t, result.Params, 4)

		id := result.Params[0]
		assert.Equal(t, descriptor.Path, id.Source)
		require.NotNil(t, id.Matrix)
		assert.Equal(t, "id", id.Matrix.Segment.Name)
		assert.Empty(t, id.Matrix.Metric)
		assert.Equal(t, "id", id.WireName)

		key := result.Params[1]
		require.NotNil(t, key.Matrix)
		assert.Equal(t, "key", key.Matrix.Metric)
		assert.Equal(t, "AsString", key.ConvertFunc())
		assert.True(t, key.Required)

		other := result.Params[2]
		assert.True(t, other.Nullable)
		assert.False(t, other.Required)
		assert.Equal(t, "ToString", other.ConvertFunc())
	})

	t.Run("should reject two parameters on one variable", func(t *testing.T) {
		m := &domain.Method{
			Params: []domain.Param{
				{Name: "id", Type: builtin("int")},
				{Name: "other", Type: builtin("int")},
			},
			Hints: []domain.BindingHint{{Source: "path", Name: "other", WireName: "id"}},
		}
		_, err := newBinder().Bind(m, tmpl)
		assert.ErrorIs(t, err, ErrAmbiguousPathVariable)
	})
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name     string
		method   *domain.Method
		template string
		platform *fakePlatform
		want     error
	}{
		{
			name: "explicit path outside the template",
			method: &domain.Method{
				Params: []domain.Param{{Name: "id", Type: builtin("int")}},
				Hints:  []domain.BindingHint{{Source: "path", Name: "id"}},
			},
			template: "/users",
			want:     ErrMissingRequiredParameter,
		},
		{
			name: "a path variable declared as query",
			method: &domain.Method{
				Params: []domain.Param{{Name: "id", Type: builtin("int")}},
				Hints:  []domain.BindingHint{{Source: "query", Name: "id"}},
			},
			template: "/users/:id",
			want:     ErrAmbiguousPathVariable,
		},
		{
			name: "two bodies",
			method: &domain.Method{
				Params: []domain.Param{{Name: "a", Type: local("User")}, {Name: "b", Type: local("User")}},
			},
			template: "/",
			want:     ErrDuplicateBody,
		},
		{
			name: "a query value without converter",
			method: &domain.Method{
				Params: []domain.Param{{Name: "user", Type: local("User")}},
				Hints:  []domain.BindingHint{{Source: "query", Name: "user"}},
			},
			template: "/",
			want:     ErrUnsupportedParameterType,
		},
		{
			name: "a pointer path value",
			method: &domain.Method{
				Params: []domain.Param{{Name: "id", Type: ptr(builtin("int"))}},
			},
			template: "/:id",
			want:     ErrUnsupportedParameterType,
		},
		{
			name: "an unknown bean",
			method: &domain.Method{
				Params: []domain.Param{{Name: "f", Type: local("Missing")}},
				Hints:  []domain.BindingHint{{Source: "bean", Name: "f"}},
			},
			template: "/",
			want:     ErrUnknownBean,
		},
		{
			name: "a source the backend cannot read",
			method: &domain.Method{
				Params: []domain.Param{{Name: "name", Type: builtin("string")}},
				Hints:  []domain.BindingHint{{Source: "form", Name: "name"}},
			},
			template: "/",
			platform: &fakePlatform{unreadable: map[descriptor.SourceKind]bool{descriptor.Form: true}},
			want:     ErrUnsupportedParameterSource,
		},
		{
			name: "a self-referencing bean",
			method: &domain.Method{
				Params: []domain.Param{{Name: "n", Type: local("Node")}},
			},
			template: "/",
			want:     ErrUnsupportedParameterType,
		},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			platform := tt.platform
			if platform == nil {
				platform = &fakePlatform{}
			}
			_, err := New(platform, testStructs()).Bind(tt.method, pathtemplate.MustParse(tt.template))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBind_Bean(t *testing.T) {
	m := &domain.Method{
		Params: []domain.Param{{Name: "filter", Type: local("Filter")}},
	}

	t.Run("should expand tagged fields in order", func(t *testing.T) {
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/items/:id"))
		require.NoError(t, err)
		require.Len(t, result.Params, 1)

		bean := result.Params[0]
		assert.Equal(t, descriptor.Bean, bean.Source)
		assert.Nil(t, result.BodyType)

		fields := bean.Fields
		require.Len(t, fields, 7)

		assert.Equal(t, descriptor.Path, fields[0].Source)
		assert.Equal(t, "id", fields[0].WireName)
		assert.Equal(t, "ID", fields[0].FieldPath)

		assert.Equal(t, descriptor.Header, fields[1].Source)
		assert.Equal(t, "X-Token", fields[1].WireName)
		assert.True(t, fields[1].Required)

		assert.Equal(t, descriptor.Cookie, fields[2].Source)
		assert.True(t, fields[2].Nullable)

		assert.Equal(t, descriptor.Query, fields[3].Source)
		assert.Equal(t, "firstName", fields[3].WireName)

		assert.Equal(t, "sort_by", fields[4].WireName)

		assert.Equal(t, "Paging.Limit", fields[5].FieldPath)
		require.NotNil(t, fields[5].Default)
		assert.Equal(t, "20", *fields[5].Default)
		assert.False(t, fields[5].Required)

		assert.Equal(t, "Paging.Offset", fields[6].FieldPath)
		assert.Equal(t, "ToInt", fields[6].ConvertFunc())
	})

	t.Run("should apply the naming strategy to untagged fields", func(t *testing.T) {
		result, err := newBinder(WithNamingStrategy(naming.SnakeCase)).Bind(m, pathtemplate.MustParse("/items/:id"))
		require.NoError(t, err)
		assert.Equal(t, "first_name", result.Params[0].Fields[3].WireName)
	})

	t.Run("should require the path variable of a path field", func(t *testing.T) {
		_, err := newBinder().Bind(m, pathtemplate.MustParse("/items"))
		assert.ErrorIs(t, err, ErrMissingRequiredParameter)
	})

	t.Run("should bind untagged fields named after a path variable to the path", func(t *testing.T) {
		lookup := &domain.Method{
			Params: []domain.Param{{Name: "l", Type: local("Lookup")}},
			Hints:  []domain.BindingHint{{Source: "bean", Name: "l"}},
		}
		result, err := newBinder().Bind(lookup, pathtemplate.MustParse("/owners/:owner/list"))
		require.NoError(t, err)

		fields := result.Params[0].Fields
		require.Len(t, fields, 2)

		assert.Equal(t, descriptor.Path, fields[0].Source)
		assert.Equal(t, "owner", fields[0].WireName)
		assert.True(t, fields[0].Required)
		assert.Equal(t, "AsString", fields[0].ConvertFunc())

		assert.Equal(t, descriptor.Query, fields[1].Source)
		assert.Equal(t, "page", fields[1].WireName)
	})

	t.Run("should reject an untagged path field declared as a pointer", func(t *testing.T) {
		lookup := &domain.Method{
			Params: []domain.Param{{Name: "l", Type: local("Lookup")}},
			Hints:  []domain.BindingHint{{Source: "bean", Name: "l"}},
		}
		_, err := newBinder().Bind(lookup, pathtemplate.MustParse("/owners/:owner/pages/:page"))
		assert.ErrorIs(t, err, ErrUnsupportedParameterType)
	})

	t.Run("should list bean leaves in wire order", func(t *testing.T) {
		result, err := newBinder().Bind(m, pathtemplate.MustParse("/items/:id"))
		require.NoError(t, err)
		leaves := result.Params[0].Leaves()
		assert.Len(t, leaves, 7)
	})
}
