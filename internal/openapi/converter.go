package openapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/naming"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

const mimeJSON = "application/json"

// PathKey renders a template the way swagger paths are keyed: "/users/{id}".
// A matrix segment is one parameter named after its router placeholder.
func PathKey(t *pathtemplate.Template) string {
	return t.Render(func(placeholder string) string {
		return "{" + placeholder + "}"
	})
}

// OperationID is the lower camel controller name followed by the method name.
func OperationID(c *descriptor.Controller, m *descriptor.Method) string {
	return naming.ToLowerCamelCase(c.TypeName) + m.Name
}

// MethodToSpecOperation converts one endpoint to a spec.Operation.
func (s *Service) MethodToSpecOperation(swagger *spec.Swagger, c *descriptor.Controller, m *descriptor.Method) *spec.Operation {
	operation := &spec.Operation{
		OperationProps: spec.OperationProps{
			ID:          OperationID(c, m),
			Summary:     m.Doc.Summary,
			Description: m.Doc.Description,
			Tags:        []string{c.TypeName},
			Deprecated:  m.Doc.Deprecated,
		},
		VendorExtensible: spec.VendorExtensible{
			Extensions: make(spec.Extensions),
		},
	}

	if len(m.Roles) > 0 {
		operation.Extensions.Add("x-roles", m.Roles)
	}

	for _, seg := range m.MatrixSegments() {
		operation.Parameters = append(operation.Parameters, MatrixSegmentToSpec(seg))
	}

	for _, p := range m.Params {
		switch {
		case p.Source == descriptor.Body:
			body := spec.BodyParam(p.WireName, s.schemaOf(swagger, p.Type))
			body.Required = p.Required
			body.Description = m.Doc.Param(p.Name)
			operation.Parameters = append(operation.Parameters, *body)
			if len(m.Consumes) == 0 {
				operation.Consumes = []string{mimeJSON}
			}
		case p.Source == descriptor.Bean:
			for _, leaf := range p.Leaves() {
				if leaf.Matrix != nil {
					continue
				}
				operation.Parameters = append(operation.Parameters, ParameterToSpec(leaf, ""))
			}
		case p.Matrix != nil:
			// folded into the segment parameter
		default:
			operation.Parameters = append(operation.Parameters, ParameterToSpec(p, m.Doc.Param(p.Name)))
		}
	}

	if len(m.Consumes) > 0 {
		operation.Consumes = m.Consumes
	}

	switch {
	case m.Produces != "":
		operation.Produces = []string{m.Produces}
	case m.Result != nil:
		operation.Produces = []string{mimeJSON}
	}

	response := spec.Response{
		ResponseProps: spec.ResponseProps{
			Description: m.Doc.Return,
		},
	}
	if response.Description == "" {
		response.Description = http.StatusText(m.StatusCode)
	}
	if emitter.ResponseOf(m) != emitter.NoContent {
		response.Schema = s.schemaOf(swagger, *m.Result)
	}
	operation.Responses = &spec.Responses{
		ResponsesProps: spec.ResponsesProps{
			StatusCodeResponses: map[int]spec.Response{m.StatusCode: response},
		},
	}
	if m.ReturnsError || m.Validate || len(m.Params) > 0 {
		operation.Responses.StatusCodeResponses[http.StatusBadRequest] = spec.Response{
			ResponseProps: spec.ResponseProps{Description: http.StatusText(http.StatusBadRequest)},
		}
	}

	return operation
}

// MatrixSegmentToSpec describes a matrix segment as one string path parameter.
func MatrixSegmentToSpec(seg pathtemplate.Segment) spec.Parameter {
	param := spec.PathParam(seg.Placeholder()).Typed(domain.STRING, "")
	param.Description = "Matrix segment " + seg.Name + ";" + strings.Join(seg.MetricKeys, ";")
	param.Extensions = spec.Extensions{}
	param.Extensions.Add("x-matrix-keys", seg.MetricKeys)
	return *param
}

// ParameterToSpec converts a value binding to a spec.Parameter.
func ParameterToSpec(p descriptor.ParamBinding, description string) spec.Parameter {
	schema := domain.TransToValidPrimitiveSchema(p.Type.Key())

	specParam := spec.Parameter{
		ParamProps: spec.ParamProps{
			Name:        p.WireName,
			In:          in(p.Source),
			Required:    p.Required || p.Source == descriptor.Path,
			Description: description,
		},
	}
	specParam.Type = schema.Type[0]
	specParam.Format = schema.Format

	if p.Default != nil {
		specParam.Default = defaultValue(specParam.Type, *p.Default)
	}
	return specParam
}

func in(kind descriptor.SourceKind) string {
	if kind == descriptor.Form {
		return "formData"
	}
	return kind.String()
}

// defaultValue keeps numeric and boolean defaults typed in the document.
func defaultValue(schemaType, raw string) interface{} {
	switch schemaType {
	case domain.INTEGER:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case domain.NUMBER:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case domain.BOOLEAN:
		return strings.EqualFold(raw, "true")
	}
	return raw
}
