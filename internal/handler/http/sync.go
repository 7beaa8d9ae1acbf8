package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
)

func (h *Handler) syncBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncBatch").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var batch models.BatchRequest
	if !h.decodeBody(w, r, &batch, "*Handler.syncBatch") {
		return
	}

	result, err := h.services.SyncService.SyncBatch(ctx, userID, batch.Operations)
	if err != nil {
		h.writeError(w, r, "*Handler.syncBatch", err)
		return
	}

	log.Debug().
		Int("synced", len(result.Synced)).
		Int("conflicts", len(result.Conflicts)).
		Int("errors", len(result.Errors)).
		Msg("batch applied")

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var req models.ResolveRequest
	if !h.decodeBody(w, r, &req, "*Handler.resolveConflict") {
		return
	}

	if err := h.services.SyncService.ResolveConflict(ctx, userID, req); err != nil {
		h.writeError(w, r, "*Handler.resolveConflict", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// changesSince serves GET /api/sync/changes?since=<RFC 3339>&scope=<id,id>.
// A missing since means a full pull.
func (h *Handler) changesSince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.changesSince").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	query := r.URL.Query()

	var since time.Time
	if raw := query.Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.changesSince").Str("since", raw).Msg("invalid since")
			http.Error(w, app.MsgInvalidSince, http.StatusBadRequest)
			return
		}
		since = parsed
	}

	delta, err := h.services.SyncService.ChangesSince(ctx, userID, since, parseScope(query.Get("scope")))
	if err != nil {
		h.writeError(w, r, "*Handler.changesSince", err)
		return
	}

	utils.WriteJSON(w, delta, http.StatusOK)
}

func parseScope(raw string) []string {
	if raw == "" {
		return nil
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
