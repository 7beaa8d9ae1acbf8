package http

import (
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
)

func (h *Handler) issueSyncToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.issueSyncToken").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var req models.SyncTokenRequest
	if !h.decodeBody(w, r, &req, "*Handler.issueSyncToken") {
		return
	}

	token, err := h.services.SyncTokenService.Issue(ctx, userID, req.DeviceID)
	if err != nil {
		h.writeError(w, r, "*Handler.issueSyncToken", err)
		return
	}

	log.Info().Int64("user_id", userID).Str("device_id", req.DeviceID).Msg("sync token issued")

	utils.WriteJSON(w, token, http.StatusOK)
}
