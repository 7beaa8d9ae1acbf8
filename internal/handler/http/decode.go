package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
)

// maxRequestBodyBytes caps JSON request bodies. A full batch of
// operations fits comfortably.
const maxRequestBodyBytes = 8 << 20

// decodeBody reads the JSON body into v. On failure it answers 413 for an
// oversized body or 400 otherwise and returns false.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any, funcName string) bool {
	err := utils.ReadJSON(w, r, v, maxRequestBodyBytes)
	if err == nil {
		return true
	}

	log := logger.FromRequest(r)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		log.Warn().Err(err).Str("func", funcName).Int64("limit", maxErr.Limit).Msg("request body is too large")
		http.Error(w, app.MsgRequestBodyTooLarge, http.StatusRequestEntityTooLarge)
		return false
	}

	log.Err(err).Str("func", funcName).Msg("Invalid JSON was passed")
	http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
	return false
}
