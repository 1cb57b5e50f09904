package openapi

import (
	"fmt"
	"net/http"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-routegen/internal/descriptor"
)

// RegisterControllers registers the endpoints of every controller in order.
func (s *Service) RegisterControllers(swagger *spec.Swagger, controllers []*descriptor.Controller) error {
	for _, c := range controllers {
		if err := s.RegisterController(swagger, c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterController registers the endpoints of one controller.
func (s *Service) RegisterController(swagger *spec.Swagger, c *descriptor.Controller) error {
	if swagger.Paths == nil {
		swagger.Paths = &spec.Paths{
			Paths: make(map[string]spec.PathItem),
		}
	}

	for _, m := range c.Methods {
		if err := s.registerMethod(swagger, c, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) registerMethod(swagger *spec.Swagger, c *descriptor.Controller, m *descriptor.Method) error {
	key := PathKey(m.Path)
	pathItem, exists := swagger.Paths.Paths[key]
	if !exists {
		pathItem = spec.PathItem{}
	}

	op := refRouteMethodOp(&pathItem, m.HTTPMethod)
	if op == nil {
		return fmt.Errorf("%s.%s: invalid HTTP method: %s", c.TypeName, m.Name, m.HTTPMethod)
	}

	if *op != nil {
		err := fmt.Errorf("route %s %s is declared multiple times", m.HTTPMethod, key)
		if s.strict {
			return err
		}
		s.debug.Printf("warning: %s", err)
	}

	*op = s.MethodToSpecOperation(swagger, c, m)
	swagger.Paths.Paths[key] = pathItem
	return nil
}

// refRouteMethodOp returns a pointer to the operation field for the given HTTP method
func refRouteMethodOp(item *spec.PathItem, method string) **spec.Operation {
	switch method {
	case http.MethodGet:
		return &item.Get
	case http.MethodPost:
		return &item.Post
	case http.MethodDelete:
		return &item.Delete
	case http.MethodPut:
		return &item.Put
	case http.MethodPatch:
		return &item.Patch
	case http.MethodHead:
		return &item.Head
	case http.MethodOptions:
		return &item.Options
	default:
		return nil
	}
}
