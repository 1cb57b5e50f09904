package emitter

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/griffnb/core-routegen/internal/domain"
)

var methodNames = map[string]string{
	"GET":     "MethodGet",
	"POST":    "MethodPost",
	"PUT":     "MethodPut",
	"PATCH":   "MethodPatch",
	"DELETE":  "MethodDelete",
	"HEAD":    "MethodHead",
	"OPTIONS": "MethodOptions",
}

// MethodExpr renders an HTTP verb as a net/http constant.
func MethodExpr(httpPkg, verb string) string {
	if name, ok := methodNames[verb]; ok {
		return httpPkg + "." + name
	}
	return `"` + verb + `"`
}

// IsType reports whether t names rt, with pointer telling whether t must be *rt.
func IsType(t domain.TypeRef, rt reflect.Type, pointer bool) bool {
	return !t.Slice && t.Pointer == pointer && t.PkgPath == rt.PkgPath() && t.Name == rt.Name()
}

// TypeOf returns the reflect.Type of T, which may be an interface.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Quoted renders values as a comma-separated list of Go string literals.
func Quoted(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
