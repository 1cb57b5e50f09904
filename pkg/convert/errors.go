package convert

import (
	"errors"
	"fmt"
)

// Static errors for parameter conversion. Generated code checks them with errors.Is.
var (
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	ErrInvalidParameterValue    = errors.New("invalid parameter value")
)

// MissingParameterError is returned by strict converters when the raw value is absent.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingRequiredParameter, e.Name)
}

// Is reports ErrMissingRequiredParameter as a match.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingRequiredParameter
}

// InvalidValueError is returned when a present raw value cannot be parsed.
type InvalidValueError struct {
	Name  string
	Value string
	Type  string
	Err   error
}

func (e *InvalidValueError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %q=%q is not a valid %s", ErrInvalidParameterValue, e.Name, e.Value, e.Type)
	}
	return fmt.Sprintf("%s: %q=%q is not a valid %s: %v", ErrInvalidParameterValue, e.Name, e.Value, e.Type, e.Err)
}

// Is reports ErrInvalidParameterValue as a match.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidParameterValue
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
