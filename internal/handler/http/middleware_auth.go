package http

import (
	"net/http"

	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
)

// auth is an HTTP middleware that accepts either an access JWT or a device
// sync token in the "Authorization" header.
//
// The access token is tried first. If it does not parse, the value is
// validated as a sync token, and the device id it carries is stored under
// [utils.DeviceIDCtxKey] next to the user id in [utils.UserIDCtxKey].
//
// Requests without a usable bearer token are rejected with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, ok := bearerToken(w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		if token, err := h.services.AuthService.ParseToken(ctx, tokenString); err == nil {
			ctx = log.WithUser(token.UserID).WithContext(ctx)
			ctx = utils.WithIdentity(ctx, token.UserID, "")
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		session, err := h.services.SyncTokenService.Validate(ctx, tokenString)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("token is neither an access nor a sync token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx = log.WithUser(session.UserID).WithDevice(session.DeviceID).WithContext(ctx)
		ctx = utils.WithIdentity(ctx, session.UserID, session.DeviceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authAccess only accepts access JWTs issued on register or login.
func (h *Handler) authAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			logger.FromRequest(r).Err(err).Str("func", "*Handler.authAccess").Msg("error occurred during parsing token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx = logger.FromRequest(r).WithUser(token.UserID).WithContext(ctx)
		ctx = utils.WithIdentity(ctx, token.UserID, "")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the "Authorization" header and writes
// a 401 response when it is missing or malformed.
func bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	log := logger.FromRequest(r)

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		log.Err(ErrEmptyAuthorizationHeader).Send()
		http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return "", false
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		log.Err(err).Send()
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return "", false
	}

	return tokenString, true
}
