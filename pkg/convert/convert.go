// Package convert holds the string to typed-value converters used by generated
// route code.
//
// Every supported type has two converter families. Strict converters (AsT)
// serve required values: an absent raw value is a MissingParameterError and an
// unparsable one an InvalidValueError. Nullable converters (ToT) serve optional
// values: an absent raw value yields nil, only an unparsable one fails.
//
// Raw values are *string so that "absent" and "present" are distinct.
package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// timeLayouts are tried in order by AsTime and ToTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
}

// Opt turns a (value, present) pair into a raw value.
func Opt(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

// OptErr turns a (value, error) pair into a raw value; any error means absent.
func OptErr(v string, err error) *string {
	if err != nil {
		return nil
	}
	return &v
}

// NonEmpty treats the empty string as absent.
func NonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// WithDefault returns raw, or def when raw is absent.
func WithDefault(raw *string, def string) *string {
	if raw == nil {
		return &def
	}
	return raw
}

// Deref returns the raw value or "" when absent.
func Deref(raw *string) string {
	if raw == nil {
		return ""
	}
	return *raw
}

func strict[T any](name, typ string, raw *string, parse func(string) (T, error)) (T, error) {
	var zero T
	if raw == nil {
		return zero, &MissingParameterError{Name: name}
	}
	v, err := parse(*raw)
	if err != nil {
		return zero, &InvalidValueError{Name: name, Value: *raw, Type: typ, Err: err}
	}
	return v, nil
}

func nullable[T any](name, typ string, raw *string, parse func(string) (T, error)) (*T, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := parse(*raw)
	if err != nil {
		return nil, &InvalidValueError{Name: name, Value: *raw, Type: typ, Err: err}
	}
	return &v, nil
}

func parseString(s string) (string, error) { return s, nil }

func parseInt(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) }

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	return int32(v), err
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(strings.TrimSpace(s), 10, 64) }

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(v), err
}

func parseFloat64(s string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) }

// parseBool accepts "true" in any case; every other literal is false.
func parseBool(s string) (bool, error) { return strings.EqualFold(strings.TrimSpace(s), "true"), nil }

func parseDecimal(s string) (decimal.Decimal, error) { return decimal.NewFromString(strings.TrimSpace(s)) }

func parseUUID(s string) (uuid.UUID, error) { return uuid.Parse(strings.TrimSpace(s)) }

func parseDuration(s string) (time.Duration, error) { return time.ParseDuration(strings.TrimSpace(s)) }

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// AsString returns the raw value; it only fails when the value is absent.
func AsString(name string, raw *string) (string, error) {
	return strict(name, "string", raw, parseString)
}

// ToString returns the raw value unchanged, including the empty string.
func ToString(_ string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := *raw
	return &v, nil
}

func AsInt(name string, raw *string) (int, error) { return strict(name, "int", raw, parseInt) }

func ToInt(name string, raw *string) (*int, error) { return nullable(name, "int", raw, parseInt) }

func AsInt32(name string, raw *string) (int32, error) { return strict(name, "int32", raw, parseInt32) }

func ToInt32(name string, raw *string) (*int32, error) {
	return nullable(name, "int32", raw, parseInt32)
}

func AsInt64(name string, raw *string) (int64, error) { return strict(name, "int64", raw, parseInt64) }

func ToInt64(name string, raw *string) (*int64, error) {
	return nullable(name, "int64", raw, parseInt64)
}

func AsFloat32(name string, raw *string) (float32, error) {
	return strict(name, "float32", raw, parseFloat32)
}

func ToFloat32(name string, raw *string) (*float32, error) {
	return nullable(name, "float32", raw, parseFloat32)
}

func AsFloat64(name string, raw *string) (float64, error) {
	return strict(name, "float64", raw, parseFloat64)
}

func ToFloat64(name string, raw *string) (*float64, error) {
	return nullable(name, "float64", raw, parseFloat64)
}

// AsBool is true only for "true" (case-insensitive). Any other literal,
// including "1" or "yes", is false rather than an error.
func AsBool(name string, raw *string) (bool, error) { return strict(name, "bool", raw, parseBool) }

// ToBool never fails for a present value.
func ToBool(name string, raw *string) (*bool, error) { return nullable(name, "bool", raw, parseBool) }

func AsDecimal(name string, raw *string) (decimal.Decimal, error) {
	return strict(name, "decimal", raw, parseDecimal)
}

func ToDecimal(name string, raw *string) (*decimal.Decimal, error) {
	return nullable(name, "decimal", raw, parseDecimal)
}

func AsUUID(name string, raw *string) (uuid.UUID, error) { return strict(name, "uuid", raw, parseUUID) }

func ToUUID(name string, raw *string) (*uuid.UUID, error) {
	return nullable(name, "uuid", raw, parseUUID)
}

// AsTime accepts RFC3339 (with or without fractional seconds), "2006-01-02 15:04:05"
// and "2006-01-02".
func AsTime(name string, raw *string) (time.Time, error) { return strict(name, "time", raw, parseTime) }

func ToTime(name string, raw *string) (*time.Time, error) {
	return nullable(name, "time", raw, parseTime)
}

func AsDuration(name string, raw *string) (time.Duration, error) {
	return strict(name, "duration", raw, parseDuration)
}

func ToDuration(name string, raw *string) (*time.Duration, error) {
	return nullable(name, "duration", raw, parseDuration)
}
