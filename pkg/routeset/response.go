package routeset

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Media types used by generated code.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeXML  = "application/xml; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// WriteJSON writes v as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeEncoded(w, status, ContentTypeJSON, v)
}

// WriteText writes a string result under a literal content type.
func WriteText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Negotiate writes v in the offered media type req accepts with the highest
// quality. An absent Accept header selects the first offer; no match is a 406.
func Negotiate(w http.ResponseWriter, req *http.Request, status int, v any, offers ...string) {
	offer, ok := pickOffer(req.Header.Get("Accept"), offers)
	if !ok {
		WriteError(w, statusError(http.StatusNotAcceptable))
		return
	}
	switch {
	case strings.HasSuffix(offer, "/xml") || strings.HasSuffix(offer, "+xml"):
		body, err := xml.Marshal(v)
		if err != nil {
			WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", withCharset(offer))
		w.WriteHeader(status)
		_, _ = w.Write(body)
	case strings.HasPrefix(offer, "text/"):
		WriteText(w, status, withCharset(offer), fmt.Sprint(v))
	default:
		writeEncoded(w, status, withCharset(offer), v)
	}
}

func writeEncoded(w http.ResponseWriter, status int, contentType string, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func withCharset(mediaType string) string {
	if strings.Contains(mediaType, "charset=") {
		return mediaType
	}
	return mediaType + "; charset=utf-8"
}

type statusError int

func (e statusError) Error() string { return http.StatusText(int(e)) }

func (e statusError) HTTPStatus() int { return int(e) }
