package http

import (
	"bytes"
	"crypto/hmac"
	"io"
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
)

// hashHeader carries the hex HMAC-SHA256 of the raw request body.
const hashHeader = "HashSHA256"

// withHashCheck verifies the HashSHA256 header against the request body.
// The check is skipped when no hash key is configured or the client did not
// send the header.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received := r.Header.Get(hashHeader)
		if h.hashKey == "" || received == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		want := utils.HashHex(body)
		if !hmac.Equal([]byte(want), []byte(received)) {
			log.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", received).
				Str("hashed body", want).
				Msg("hashes are not equal")
			http.Error(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		w.Header().Set(hashHeader, want)
		next.ServeHTTP(w, r)
	})
}
