package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

var (
	errUnsupportedMedia = errors.New("unsupported content type")
	errInvalidJSON      = errors.New("invalid JSON body")
	errInvalidForm      = errors.New("invalid form body")
)

// requestBody is a decoded JSON object or form submission.
type requestBody struct {
	fields map[string]any
	form   bool
}

// decodeBody decodes a JSON object or an urlencoded form into generic
// JSON-shaped values. Form keys ending in "[]", or repeated keys, become
// arrays; single keys stay strings.
func decodeBody(w http.ResponseWriter, r *http.Request) (*requestBody, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUnsupportedMedia, err)
		}
		mediaType = mt
	}

	switch mediaType {
	case "", "application/json":
		fields := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
		}
		return &requestBody{fields: fields}, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidForm, err)
		}
		return &requestBody{fields: formFields(r.PostForm), form: true}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedMedia, mediaType)
	}
}

// formFields flattens a form into request fields. "name[]" keys and repeated
// keys become lists; a plain key sent alongside its "name[]" form is merged
// into the same list ahead of the bracketed values.
func formFields(form url.Values) map[string]any {
	fields := make(map[string]any, len(form))
	for _, key := range slices.Sorted(maps.Keys(form)) {
		values := form[key]
		name, isList := strings.CutSuffix(key, "[]")
		if !isList && len(values) == 1 {
			fields[name] = values[0]
			continue
		}
		var list []any
		switch prev := fields[name].(type) {
		case string:
			list = []any{prev}
		case []any:
			list = prev
		}
		for _, v := range values {
			list = append(list, v)
		}
		fields[name] = list
	}
	return fields
}

// wantsHTML reports whether a form post came from a browser that expects a page.
func wantsHTML(r *http.Request, body *requestBody) bool {
	return body.form && strings.Contains(r.Header.Get("Accept"), "text/html")
}
