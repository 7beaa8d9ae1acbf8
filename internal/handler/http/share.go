package http

import (
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) shareChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.shareChecklist").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var req models.ShareRequest
	if !h.decodeBody(w, r, &req, "*Handler.shareChecklist") {
		return
	}

	share, err := h.services.ShareService.ShareChecklist(ctx, userID, chi.URLParam(r, "checklistID"), req)
	if err != nil {
		h.writeError(w, r, "*Handler.shareChecklist", err)
		return
	}

	utils.WriteJSON(w, share, http.StatusCreated)
}
