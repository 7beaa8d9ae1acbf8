// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// sync server handlers and the client agent.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies by the server and matched by the client when it maps
// a transport error back to a service error. Keeping them in one place keeps
// both sides in agreement.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is neither
	// a valid access JWT nor a valid sync token.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler requires a user ID but
	// none is present in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgLoginAlreadyExists is returned when a registration attempt is
	// rejected because the login is already taken.
	MsgLoginAlreadyExists = "login already exists"

	// MsgUserNotFound is returned when a share names an unknown login.
	MsgUserNotFound = "user not found"

	// MsgChecklistNotFound is returned when a checklist does not exist or is
	// not visible to the caller.
	MsgChecklistNotFound = "checklist not found"

	// MsgShareWithOwner is returned when an owner shares a checklist with
	// themselves.
	MsgShareWithOwner = "checklist is already owned by this user"

	// MsgBatchTooLarge is returned when a batch holds more operations than
	// the server accepts.
	MsgBatchTooLarge = "too many operations in batch"

	// MsgMergedPayloadRequired is returned for a merge resolution without a
	// merged payload.
	MsgMergedPayloadRequired = "merged payload is required for merge resolution"

	// MsgConflictPersists is returned when a resolution hits a record that
	// changed again in the meantime.
	MsgConflictPersists = "record changed again, pull and resolve again"

	// MsgInvalidSince is returned when the since query parameter is not an
	// RFC 3339 timestamp.
	MsgInvalidSince = "since must be an RFC 3339 timestamp"

	// MsgRequestBodyTooLarge is returned when a JSON body exceeds the size limit.
	MsgRequestBodyTooLarge = "request body is too large"

	// MsgVersionIsNotSpecified is returned by the version endpoint when the
	// server was started without a version.
	MsgVersionIsNotSpecified = "version is not specified"
)
