package route

import (
	goparser "go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/loader"
)

func parseSource(t *testing.T, src string, flag loader.ParseFlag, opts ...Option) (*FileResult, error) {
	t.Helper()
	fset := token.NewFileSet()
	astFile, err := goparser.ParseFile(fset, "users.go", src, goparser.ParseComments)
	require.NoError(t, err)

	info := &loader.AstFileInfo{
		File:        astFile,
		Path:        "/src/app/api/users.go",
		PackagePath: "example.com/app/api",
		ParseFlag:   flag,
		FileSet:     fset,
	}
	return NewService(opts...).ParseFile(info)
}

const usersSource = `
package api

import (
	"context"
	"time"

	guuid "github.com/google/uuid"
	"example.com/app/models"
)

// Users serves the user API.
// @controller /api/users
// @roles admin
type Users struct{}

// Get returns one user.
// @param id the user id
// @get /:id
// @query limit max default(10)
// @header token X-Token
// @produces json
// @roles admin,support
func (u *Users) Get(ctx context.Context, id int64, limit int, token *string) (*models.User, error) {
	return nil, nil
}

// Create stores a user.
// @post
// @body user
// @status 202
// @valid
// @consumes json, xml
func (u *Users) Create(ctx context.Context, user models.User) error {
	return nil
}

// Touch updates a timestamp.
// @put /:id/touch
func (u Users) Touch(id guuid.UUID, at []time.Time) {}

// helper has no verb.
func (u *Users) helper() {}

// Free is not a method.
// @get /free
func Free() {}
`

func TestParseFile_Controllers(t *testing.T) {
	t.Run("should parse controller directives", func(t *testing.T) {
		result, err := parseSource(t, usersSource, loader.ParseAll)
		require.NoError(t, err)
		require.Len(t, result.Controllers, 1)

		c := result.Controllers[0]
		assert.Equal(t, "Users", c.Name)
		assert.Equal(t, "/api/users", c.BasePath)
		assert.Equal(t, []string{"admin"}, c.Roles)
		assert.False(t, c.RequestScoped)
		assert.Equal(t, "example.com/app/api", c.PkgPath)
		assert.Equal(t, "api", c.PkgName)
		assert.Equal(t, "/src/app/api", c.Dir)
		assert.Contains(t, c.Doc, "Users serves the user API.")
	})

	t.Run("should read grouped type declarations", func(t *testing.T) {
		src := `
package api

type (
	// Notes.
	// @controller /notes
	// @requestscoped
	Notes struct{}

	Plain struct{}
)
`
		result, err := parseSource(t, src, loader.ParseAll)
		require.NoError(t, err)
		require.Len(t, result.Controllers, 1)
		assert.Equal(t, "Notes", result.Controllers[0].Name)
		assert.True(t, result.Controllers[0].RequestScoped)
	})

	t.Run("should reject a relative base path", func(t *testing.T) {
		src := `
package api

// @controller notes
type Notes struct{}
`
		_, err := parseSource(t, src, loader.ParseAll)
		assert.Error(t, err)
	})

	t.Run("should ignore controllers in model-only files", func(t *testing.T) {
		result, err := parseSource(t, usersSource, loader.ParseModels)
		require.NoError(t, err)
		assert.Empty(t, result.Controllers)
		assert.Empty(t, result.Methods)
		assert.NotEmpty(t, result.Structs)
	})
}

func TestParseFile_Methods(t *testing.T) {
	result, err := parseSource(t, usersSource, loader.ParseAll)
	require.NoError(t, err)
	require.Len(t, result.Methods, 3)

	t.Run("should keep declaration order", func(t *testing.T) {
		assert.Equal(t, "Get", result.Methods[0].Method.Name)
		assert.Equal(t, "Create", result.Methods[1].Method.Name)
		assert.Equal(t, "Touch", result.Methods[2].Method.Name)
		assert.Less(t, result.Methods[0].Offset, result.Methods[1].Offset)
		for _, m := range result.Methods {
			assert.Equal(t, "Users", m.Receiver)
			assert.Equal(t, "example.com/app/api", m.PkgPath)
		}
	})

	t.Run("should parse verb, hints and media", func(t *testing.T) {
		get := result.Methods[0].Method
		assert.Equal(t, "GET", get.Verb)
		assert.Equal(t, "/:id", get.Path)
		assert.Equal(t, "application/json", get.Produces)
		assert.Equal(t, []string{"admin", "support"}, get.Roles)
		assert.Zero(t, get.Status)

		limit, ok := get.Hint("limit")
		require.True(t, ok)
		assert.Equal(t, "query", limit.Source)
		assert.Equal(t, "max", limit.WireName)
		require.NotNil(t, limit.Default)
		assert.Equal(t, "10", *limit.Default)

		token, ok := get.Hint("token")
		require.True(t, ok)
		assert.Equal(t, "header", token.Source)
		assert.Equal(t, "X-Token", token.WireName)
		assert.Nil(t, token.Default)
	})

	t.Run("should resolve parameter types through imports", func(t *testing.T) {
		get := result.Methods[0].Method
		require.Len(t, get.Params, 4)

		assert.Equal(t, "ctx", get.Params[0].Name)
		assert.Equal(t, "context.Context", get.Params[0].Type.Key())
		assert.Equal(t, "int64", get.Params[1].Type.Key())
		assert.True(t, get.Params[3].Type.Pointer)
		assert.Equal(t, "string", get.Params[3].Type.Key())

		require.NotNil(t, get.Result)
		assert.Equal(t, "example.com/app/models.User", get.Result.Key())
		assert.True(t, get.Result.Pointer)
		assert.True(t, get.ReturnsError)

		touch := result.Methods[2].Method
		assert.Equal(t, "github.com/google/uuid.UUID", touch.Params[0].Type.Key())
		assert.Equal(t, "guuid", touch.Params[0].Type.PkgName)
		assert.True(t, touch.Params[1].Type.Slice)
		assert.Equal(t, "time.Time", touch.Params[1].Type.Key())
		assert.Nil(t, touch.Result)
		assert.False(t, touch.ReturnsError)
	})

	t.Run("should parse body, status, validation and consumes", func(t *testing.T) {
		create := result.Methods[1].Method
		assert.Equal(t, "POST", create.Verb)
		assert.Empty(t, create.Path)
		assert.Equal(t, 202, create.Status)
		assert.True(t, create.Validate)
		assert.Equal(t, []string{"application/json", "application/xml"}, create.Consumes)
		assert.True(t, create.ReturnsError)
		assert.Nil(t, create.Result)

		body, ok := create.Hint("user")
		require.True(t, ok)
		assert.Equal(t, "body", body.Source)
	})
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unnamed parameters",
			src: `
package api
type Users struct{}
// @get /x
func (u *Users) Get(int) {}
`,
		},
		{
			name: "unsupported results",
			src: `
package api
type Users struct{}
// @get /x
func (u *Users) Get() (int, string) { return 0, "" }
`,
		},
		{
			name: "unsupported parameter type",
			src: `
package api
type Users struct{}
// @get /x
func (u *Users) Get(m map[string]int) {}
`,
		},
		{
			name: "hint for an unknown parameter",
			src: `
package api
type Users struct{}
// @get /x
// @query missing
func (u *Users) Get(id int) {}
`,
		},
		{
			name: "unknown package",
			src: `
package api
type Users struct{}
// @get /x
func (u *Users) Get(id other.ID) {}
`,
		},
	}
	for _, tt := range tests {
		t.Run("should fail on "+tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.src, loader.ParseAll)
			assert.Error(t, err)
		})
	}
}

func TestParseFile_Strict(t *testing.T) {
	src := `
package api
type Users struct{}
// @get /x
// @status abc
func (u *Users) Get() {}
`
	t.Run("should skip malformed directives by default", func(t *testing.T) {
		result, err := parseSource(t, src, loader.ParseAll)
		require.NoError(t, err)
		require.Len(t, result.Methods, 1)
		assert.Zero(t, result.Methods[0].Method.Status)
	})

	t.Run("should fail in strict mode", func(t *testing.T) {
		_, err := parseSource(t, src, loader.ParseAll, WithStrict(true))
		assert.Error(t, err)
	})

	t.Run("should reject a second verb in strict mode", func(t *testing.T) {
		twoVerbs := `
package api
type Users struct{}
// @get /x
// @post /x
func (u *Users) Get() {}
`
		_, err := parseSource(t, twoVerbs, loader.ParseAll, WithStrict(true))
		assert.Error(t, err)
	})
}

func TestParseFile_UnknownDirectives(t *testing.T) {
	src := `
package api
type Users struct{}
// Get returns one user.
// @param id the user id
// @return the user
// @returns the user
// @deprecated use Find
// @get /:id
// @quer limit
func (u *Users) Get(id int64) {}

// helper is not a route.
// @internal
func (u *Users) helper() {}
`
	t.Run("should skip unknown directives and keep doc tags by default", func(t *testing.T) {
		result, err := parseSource(t, src, loader.ParseAll)
		require.NoError(t, err)
		require.Len(t, result.Methods, 1)
		assert.Empty(t, result.Methods[0].Method.Hints)
	})

	t.Run("should fail on an unknown directive of a route in strict mode", func(t *testing.T) {
		_, err := parseSource(t, src, loader.ParseAll, WithStrict(true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown directive @quer")
	})

	t.Run("should accept doc tags in strict mode", func(t *testing.T) {
		clean := strings.Replace(src, "// @quer limit\n", "", 1)
		result, err := parseSource(t, clean, loader.ParseAll, WithStrict(true))
		require.NoError(t, err)
		assert.Len(t, result.Methods, 1)
	})
}

func TestParseBinding(t *testing.T) {
	t.Run("should accept a quoted default with spaces", func(t *testing.T) {
		m := &domain.Method{}
		require.NoError(t, parseBinding(m, "query", `q default("hello world")`))
		require.Len(t, m.Hints, 1)
		assert.Equal(t, "q", m.Hints[0].Name)
		assert.Empty(t, m.Hints[0].WireName)
		assert.Equal(t, "hello world", *m.Hints[0].Default)
	})

	t.Run("should accept an empty default", func(t *testing.T) {
		m := &domain.Method{}
		require.NoError(t, parseBinding(m, "query", `q default()`))
		assert.Equal(t, "", *m.Hints[0].Default)
	})

	t.Run("should reject extras on body", func(t *testing.T) {
		assert.Error(t, parseBinding(&domain.Method{}, "body", "user payload"))
	})

	t.Run("should reject a parameter bound twice", func(t *testing.T) {
		m := &domain.Method{}
		require.NoError(t, parseBinding(m, "query", "q"))
		assert.Error(t, parseBinding(m, "header", "q"))
	})

	t.Run("should require a name", func(t *testing.T) {
		assert.Error(t, parseBinding(&domain.Method{}, "query", ""))
	})
}

func TestCollectStructs(t *testing.T) {
	src := `
package api

import "time"

type Base struct {
	ID int ` + "`path:\"id\"`" + `
}

type Filter struct {
	Base
	Name    string    ` + "`query:\"name\" default:\"all\"`" + `
	Since   *time.Time
	secret  string
	Tags    map[string]string
	A, B    int
}

type Generic[T any] struct{ V T }

type NotAStruct int
`
	result, err := parseSource(t, src, loader.ParseModels)
	require.NoError(t, err)
	require.Len(t, result.Structs, 2)

	base := result.Structs[0]
	assert.Equal(t, "Base", base.Name)
	require.Len(t, base.Fields, 1)
	assert.Equal(t, "id", base.Fields[0].Tag.Get("path"))

	filter := result.Structs[1]
	assert.Equal(t, "example.com/app/api.Filter", filter.Type().Key())

	names := make([]string, 0, len(filter.Fields))
	for _, f := range filter.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Base", "Name", "Since", "A", "B"}, names)
	assert.True(t, filter.Fields[0].Embedded)
	assert.Equal(t, "all", filter.Fields[1].Tag.Get("default"))
	assert.True(t, filter.Fields[2].Type.Pointer)
	assert.Equal(t, "time.Time", filter.Fields[2].Type.Key())
}

func TestDefaultPackageName(t *testing.T) {
	tests := map[string]string{
		"github.com/labstack/echo/v4": "echo",
		"gopkg.in/yaml.v3":            "yaml",
		"github.com/goccy/go-json":     "json",
		"github.com/google/uuid":      "uuid",
		"time":                        "time",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, DefaultPackageName(in))
		})
	}
}
