package pages

import (
	"encoding/json"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) int(v int) {
	h.raw(strconv.Itoa(v))
}

// vals encodes an hx-vals attribute value.
func (h *htmlWriter) vals(values map[string]any) {
	encoded, err := json.Marshal(values)
	if err != nil {
		h.err = err
		return
	}
	h.text(string(encoded))
}

func urlPathSegment(value string) string {
	return url.PathEscape(value)
}
