// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-trip-sync/internal/adapter"
	"github.com/MKhiriev/go-trip-sync/internal/app"
	"github.com/MKhiriev/go-trip-sync/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch {
		case msg == app.MsgMergedPayloadRequired:
			return ErrMergedPayloadRequired
		case strings.HasPrefix(msg, app.MsgBatchTooLarge):
			return errors.Join(ErrBatchTooLarge, err)
		case msg == app.MsgInvalidDataProvided:
			return ErrInvalidDataProvided
		case msg == app.MsgNoUserIDProvided:
			return ErrValidationNoUserID
		}
		return errors.Join(ErrValidation, err)

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		}
		return errors.Join(ErrTokenIsExpiredOrInvalid, err)

	case errors.Is(err, adapter.ErrNotFound):
		switch msg {
		case app.MsgUserNotFound:
			return store.ErrNoUserWasFound
		}
		return errors.Join(ErrEntityNotFound, err)

	case errors.Is(err, adapter.ErrConflict):
		switch msg {
		case app.MsgLoginAlreadyExists:
			return store.ErrLoginAlreadyExists
		case app.MsgConflictPersists:
			return ErrConflictPersists
		case app.MsgShareWithOwner:
			return store.ErrShareWithOwner
		}
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
