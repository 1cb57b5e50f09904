package routeset

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
)

// ErrEmptyBody is wrapped in a BodyError when a body is required but none was sent.
var ErrEmptyBody = errors.New("request body is empty")

// Codecs memoizes one body reader per target type. It is safe for concurrent
// use; two goroutines racing on a new type may both build a reader, only one
// is kept.
type Codecs struct {
	readers         sync.Map // reflect.Type -> *reader
	disallowUnknown bool
}

// CodecOption configures Codecs.
type CodecOption func(*Codecs)

// DisallowUnknownFields rejects bodies carrying fields the target type does not declare.
func DisallowUnknownFields() CodecOption {
	return func(c *Codecs) {
		c.disallowUnknown = true
	}
}

// NewCodecs returns an empty codec cache.
func NewCodecs(opts ...CodecOption) *Codecs {
	c := &Codecs{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type reader struct {
	name            string
	disallowUnknown bool
}

func (r *reader) decode(body io.Reader, target any) error {
	if body == nil {
		return &BodyError{Type: r.name, Err: ErrEmptyBody}
	}
	dec := json.NewDecoder(body)
	if r.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyBody
		}
		return &BodyError{Type: r.name, Err: err}
	}
	return nil
}

// decodeOptional is decode where an absent or empty body leaves target untouched.
func (r *reader) decodeOptional(body io.Reader, target any) (bool, error) {
	if body == nil || body == http.NoBody {
		return false, nil
	}
	dec := json.NewDecoder(body)
	if r.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, &BodyError{Type: r.name, Err: err}
	}
	return true, nil
}

func (c *Codecs) reader(t reflect.Type) *reader {
	if r, ok := c.readers.Load(t); ok {
		return r.(*reader)
	}
	r, _ := c.readers.LoadOrStore(t, &reader{name: t.String(), disallowUnknown: c.disallowUnknown})
	return r.(*reader)
}

// Len returns the number of memoized readers.
func (c *Codecs) Len() int {
	n := 0
	c.readers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// DecodeJSON decodes body into a new T using the reader memoized for T.
func DecodeJSON[T any](c *Codecs, body io.Reader) (T, error) {
	var v T
	r := c.reader(reflect.TypeOf((*T)(nil)).Elem())
	err := r.decode(body, &v)
	return v, err
}

// DecodeOptionalJSON decodes body into a new *T, or returns nil when the body is empty.
func DecodeOptionalJSON[T any](c *Codecs, body io.Reader) (*T, error) {
	v := new(T)
	r := c.reader(reflect.TypeOf((*T)(nil)).Elem())
	ok, err := r.decodeOptional(body, v)
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}
