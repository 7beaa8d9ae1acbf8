package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrInvalidSyncToken        = errors.New("sync token is invalid or expired")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// Sync engine errors.
var (
	// ErrValidation marks a malformed request. It rejects the whole request
	// and never appears in a per-operation error list.
	ErrValidation = errors.New("validation failed")

	ErrValidationNoUserID = errors.New("no user ID was given")
	ErrBatchTooLarge      = errors.New("too many operations in batch")

	// ErrEntityNotFound is reported per operation when an update or an item
	// create references a record the user cannot see.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrMergedPayloadRequired is returned by ResolveConflict for a merge
	// resolution without a merged payload.
	ErrMergedPayloadRequired = errors.New("merged payload is required for merge resolution")

	// ErrConflictPersists is returned by ResolveConflict when the record
	// changed again while the conflict was being resolved.
	ErrConflictPersists = errors.New("record changed again during conflict resolution")

	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrShareUserNotFound is returned when a share names an unknown login.
	ErrShareUserNotFound = errors.New("user to share with was not found")
)
