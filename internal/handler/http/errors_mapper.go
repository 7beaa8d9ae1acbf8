package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/service"
	"github.com/MKhiriev/go-trip-sync/internal/store"
)

// errorResponse is the status and plain-text body written for an error.
// Bodies are the app.Msg* constants so that the client adapter can map
// them back to sentinels.
type errorResponse struct {
	status  int
	message string
}

// errorResponses is checked in order; the first match wins.
var errorResponses = []struct {
	target error
	errorResponse
}{
	{service.ErrMergedPayloadRequired, errorResponse{http.StatusBadRequest, app.MsgMergedPayloadRequired}},
	{service.ErrBatchTooLarge, errorResponse{http.StatusBadRequest, app.MsgBatchTooLarge}},
	{service.ErrValidationNoUserID, errorResponse{http.StatusBadRequest, app.MsgNoUserIDProvided}},
	{service.ErrValidation, errorResponse{http.StatusBadRequest, ""}},
	{service.ErrInvalidDataProvided, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrVersionIsNotSpecified, errorResponse{http.StatusBadRequest, app.MsgVersionIsNotSpecified}},

	{service.ErrWrongPassword, errorResponse{http.StatusUnauthorized, app.MsgInvalidLoginPassword}},
	{store.ErrNoUserWasFound, errorResponse{http.StatusUnauthorized, app.MsgInvalidLoginPassword}},
	{service.ErrTokenIsExpiredOrInvalid, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrInvalidSyncToken, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},

	{service.ErrShareUserNotFound, errorResponse{http.StatusNotFound, app.MsgUserNotFound}},
	{service.ErrEntityNotFound, errorResponse{http.StatusNotFound, app.MsgChecklistNotFound}},
	{store.ErrContainerNotFound, errorResponse{http.StatusNotFound, app.MsgChecklistNotFound}},

	{store.ErrLoginAlreadyExists, errorResponse{http.StatusConflict, app.MsgLoginAlreadyExists}},
	{store.ErrShareWithOwner, errorResponse{http.StatusConflict, app.MsgShareWithOwner}},
	{service.ErrConflictPersists, errorResponse{http.StatusConflict, app.MsgConflictPersists}},

	{service.ErrTokenCreationFailed, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},
}

// responseFromError maps err to a status code and body. Validation errors
// carry their own description. Anything unknown is a 500 without details.
func responseFromError(err error) errorResponse {
	for _, e := range errorResponses {
		if !errors.Is(err, e.target) {
			continue
		}
		if e.message == "" {
			return errorResponse{status: e.status, message: err.Error()}
		}
		return e.errorResponse
	}
	return errorResponse{status: http.StatusInternalServerError, message: app.MsgInternalServerError}
}

// writeError logs err and writes the mapped response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if resp.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", resp.status).Msg("request failed")

	http.Error(w, resp.message, resp.status)
}
