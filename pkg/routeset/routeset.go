// Package routeset is the runtime imported by generated route files.
//
// Every generated file declares a type implementing RouteSet for the router of
// its backend (*http.ServeMux, *gin.Engine or *echo.Echo). The helpers in this
// package read raw request values, map errors to status codes and write
// responses the same way for each backend.
package routeset

import (
	"context"
	"errors"
	"slices"
)

// RouteSet registers a controller's routes on a router of type R.
type RouteSet[R any] interface {
	RegisterRoutes(router R)
}

// ErrForbidden is returned by an Authorizer that rejects the caller.
var ErrForbidden = errors.New("forbidden")

// Authorizer checks that the caller holds one of roles.
type Authorizer interface {
	Authorize(ctx context.Context, roles []string) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, roles []string) error

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, roles []string) error {
	return f(ctx, roles)
}

// DenyAll rejects every caller of a role-guarded route with ErrForbidden.
// Generated route sets use it when no Authorizer is given.
func DenyAll() Authorizer {
	return AuthorizerFunc(func(context.Context, []string) error {
		return ErrForbidden
	})
}

// RoleAuthorizer authorizes when any role returned by rolesOf is required.
// An empty required list always passes.
func RoleAuthorizer(rolesOf func(ctx context.Context) []string) Authorizer {
	return AuthorizerFunc(func(ctx context.Context, roles []string) error {
		if len(roles) == 0 {
			return nil
		}
		for _, held := range rolesOf(ctx) {
			if slices.Contains(roles, held) {
				return nil
			}
		}
		return ErrForbidden
	})
}
