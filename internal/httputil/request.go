package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"synapse/internal/config"
)

// ErrBodyTooLarge is returned by ParseJSON when the body exceeds config.MaxRequestBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// ParseJSON decodes JSON from the request body into the given destination.
// The body limit leaves room for base64 image data URIs.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
