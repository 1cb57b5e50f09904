package routeset

import (
	"net/http"
	"net/url"
)

const maxFormMemory = 32 << 20

// QueryValue returns the first value of a query parameter and whether it was sent.
func QueryValue(values url.Values, name string) (string, bool) {
	vs, ok := values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// HeaderValue returns the first value of a header and whether it was sent.
func HeaderValue(h http.Header, name string) (string, bool) {
	vs := h.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// CookieValue returns the value of a cookie and whether it was sent.
func CookieValue(req *http.Request, name string) (string, bool) {
	c, err := req.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// FormValue returns the first value of a urlencoded or multipart form field.
func FormValue(req *http.Request, name string) (string, bool) {
	if req.PostForm == nil {
		// ErrNotMultipart still leaves the urlencoded form parsed.
		_ = req.ParseMultipartForm(maxFormMemory)
	}
	vs, ok := req.PostForm[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
