package roundtrip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/griffnb/core-routegen/pkg/routeset"
)

func backends(authorizer routeset.Authorizer) map[string]http.Handler {
	mux := http.NewServeMux()
	NewItemsHTTPRoutes(&Items{}, nil, authorizer, nil).RegisterRoutes(mux)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewItemsGinRoutes(&Items{}, nil, authorizer, nil).RegisterRoutes(engine)

	e := echo.New()
	NewItemsEchoRoutes(&Items{}, nil, authorizer).RegisterRoutes(e)

	return map[string]http.Handler{"http": mux, "gin": engine, "echo": e}
}

func serve(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestItemsRoutes(t *testing.T) {
	admin := routeset.RoleAuthorizer(func(context.Context) []string { return []string{"admin"} })

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		header   map[string]string
		status   int
		contains string
	}{
		{"read a guarded item", http.MethodGet, "/items/7", "", nil, http.StatusOK, `"name":"item 7"`},
		{"reject a malformed path value", http.MethodGet, "/items/x", "", nil, http.StatusBadRequest, ""},
		{"create an item", http.MethodPost, "/items", `{"id":3,"name":"new"}`, nil, http.StatusCreated, `"id":3`},
		{"reject a missing required body", http.MethodPost, "/items", "", nil, http.StatusBadRequest, "request body is empty"},
		{"validate a present body", http.MethodPost, "/items", `{"name":"new"}`, nil, http.StatusUnprocessableEntity, ""},
		{"accept a missing optional body", http.MethodPut, "/items/7", "", nil, http.StatusOK, `"name":"unchanged"`},
		{"read a present optional body", http.MethodPut, "/items/7", `{"name":"renamed"}`, nil, http.StatusOK, `"name":"renamed"`},
		{"bind an untagged bean field to the path", http.MethodGet, "/items/7/owners/rob?page=2", "", nil, http.StatusOK, `{"owner":"rob","page":2}`},
		{"negotiate xml", http.MethodGet, "/items/7/describe", "", map[string]string{"Accept": "application/xml"}, http.StatusOK, "<name>described</name>"},
		{"skip an offer excluded by q=0", http.MethodGet, "/items/7/describe", "", map[string]string{"Accept": "application/xml;q=0, application/json"}, http.StatusOK, `"name":"described"`},
		{"prefer the higher quality", http.MethodGet, "/items/7/describe", "", map[string]string{"Accept": "application/json;q=0.1, application/xml;q=0.9"}, http.StatusOK, "<name>described</name>"},
	}

	for backend, h := range backends(admin) {
		for _, tt := range tests {
			t.Run("should "+tt.name+" on "+backend, func(t *testing.T) {
				rec := serve(h, tt.method, tt.target, tt.body, tt.header)
				assert.Equal(t, tt.status, rec.Code, rec.Body.String())
				if tt.contains != "" {
					assert.Contains(t, rec.Body.String(), tt.contains)
				}
			})
		}
	}
}

func TestItemsRoutes_WithoutAuthorizer(t *testing.T) {
	for backend, h := range backends(nil) {
		t.Run("should forbid guarded routes on "+backend, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, serve(h, http.MethodGet, "/items/7", "", nil).Code)
			assert.Equal(t, http.StatusOK, serve(h, http.MethodPut, "/items/7", "", nil).Code)
		})
	}
}
