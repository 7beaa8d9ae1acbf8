package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidOperationID     = errors.New("operation id is required")
	ErrInvalidKind            = errors.New("invalid operation kind")
	ErrInvalidEntityType      = errors.New("invalid entity type")
	ErrInvalidClientID        = errors.New("client id is required")
	ErrInvalidTimestamp       = errors.New("operation timestamp is required")
	ErrMissingEntityID        = errors.New("entity id is required for update and delete")
	ErrUnexpectedEntityID     = errors.New("entity id must be empty for create")
	ErrMissingPayload         = errors.New("payload is required for create and update")
	ErrPayloadMismatch        = errors.New("payload does not match entity type")
	ErrNoFieldsToUpdate       = errors.New("at least one field must be provided for update")
	ErrEmptyTitle             = errors.New("title is required")
	ErrMissingContainerID     = errors.New("container id is required for item create")
	ErrContainerChangeDenied  = errors.New("container id cannot be changed by update")
	ErrInvalidQuantity        = errors.New("quantity cannot be negative")
	ErrInvalidPosition        = errors.New("position cannot be negative")
	ErrInvalidResolution      = errors.New("invalid conflict resolution")
	ErrEmptyDeviceID          = errors.New("device id is required")
	ErrEmptyLogin             = errors.New("login is required")
	ErrEmptyPassword          = errors.New("password is required")
	ErrInvalidOperationInList = errors.New("invalid operation in batch")
)
