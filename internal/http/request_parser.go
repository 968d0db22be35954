package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// maxJSONBodyBytes bounds request bodies so a client cannot exhaust memory.
const maxJSONBodyBytes = 1 << 20

var errBadJSON = errors.New("malformed request body")

// decodeJSON parses the request body into dst, enforcing a size limit and
// rejecting trailing garbage after the JSON value.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errBadJSON
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
