package routeset

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/griffnb/core-routegen/pkg/convert"
)

// ContentTypeProblem is the media type of error bodies.
const ContentTypeProblem = "application/problem+json; charset=utf-8"

// FieldError is one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned when a bound value fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed on %s", f.Field, f.Tag))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// BodyError is returned when the request body cannot be decoded.
type BodyError struct {
	Type string
	Err  error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("decoding %s body: %v", e.Type, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// StatusCoder is implemented by errors that carry their own HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusOf maps an error returned by generated code or a controller to an HTTP status.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, convert.ErrMissingRequiredParameter) || errors.Is(err, convert.ErrInvalidParameterValue) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}
	var body *BodyError
	if errors.As(err, &body) {
		return http.StatusBadRequest
	}
	var coded StatusCoder
	if errors.As(err, &coded) {
		return coded.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Problem is the error body written by every backend.
type Problem struct {
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// NewProblem builds the error body for err. Server errors do not expose their message.
func NewProblem(err error) Problem {
	status := StatusOf(err)
	p := Problem{
		Title:  http.StatusText(status),
		Status: status,
	}
	if status < http.StatusInternalServerError {
		p.Detail = err.Error()
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		p.Errors = validation.Fields
	}
	return p
}

// WriteError writes the problem body for err.
func WriteError(w http.ResponseWriter, err error) {
	p := NewProblem(err)
	writeEncoded(w, p.Status, ContentTypeProblem, p)
}
