package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxJSONSize caps request bodies at 1 MB.
const DefaultMaxJSONSize int64 = 1 << 20

// JSON decodes the request body into v. Unknown fields, trailing data and
// bodies over maxBytes are rejected. A non-positive maxBytes uses DefaultMaxJSONSize.
func JSON(r *http.Request, v any, maxBytes int64) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxJSONSize
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrInvalidJSON, err)
	}
	if int64(len(body)) > maxBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
	}
	return nil
}

// Query returns the trimmed query parameter name, or ErrMissingQuery when empty.
func Query(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingQuery, name)
	}
	return v, nil
}
