package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTrailingData is returned by ReadJSON when the body holds more than one
// JSON value.
var ErrTrailingData = errors.New("request body must contain a single JSON value")

// WriteJSON encodes data and writes it with statusCode. Sync responses
// describe per-user state, so they are marked as not cacheable. If data
// cannot be encoded nothing but a 500 is written.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	return w.Write(body)
}

// ReadJSON decodes the request body into v. Bodies larger than maxBytes
// fail with *http.MaxBytesError; maxBytes <= 0 disables the limit.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return ErrTrailingData
	}

	return nil
}
