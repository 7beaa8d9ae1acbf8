package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldOperationID = "id"
	FieldKind        = "kind"
	FieldEntityType  = "entity_type"
	FieldEntityID    = "entity_id"
	FieldPayload     = "payload"
	FieldTimestamp   = "timestamp"
	FieldClientID    = "client_id"

	// FieldOperations validates every operation of a batch.
	FieldOperations = "operations"

	FieldConflict      = "conflict"
	FieldResolution    = "resolution"
	FieldMergedPayload = "merged_payload"

	FieldDeviceID = "device_id"
	FieldLogin    = "login"
	FieldPassword = "password"
)

var defaultOperationFields = []string{
	FieldOperationID, FieldKind, FieldEntityType, FieldClientID, FieldTimestamp, FieldEntityID, FieldPayload,
}

// OperationValidator implements [Validator] for the sync request models:
// Operation, BatchRequest, ResolveRequest, SyncTokenRequest, ShareRequest
// and User credentials.
type OperationValidator struct{}

// NewOperationValidator constructs an [OperationValidator].
func NewOperationValidator() Validator {
	return &OperationValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Returns ErrUnsupportedType for anything else.
func (v *OperationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Operation:
		return v.validateOperation(ctx, value, fields...)
	case *models.Operation:
		return v.validateOperation(ctx, *value, fields...)

	case models.BatchRequest:
		return v.validateBatch(ctx, value)
	case *models.BatchRequest:
		return v.validateBatch(ctx, *value)

	case models.ResolveRequest:
		return v.validateResolveRequest(ctx, value, fields...)
	case *models.ResolveRequest:
		return v.validateResolveRequest(ctx, *value, fields...)

	case models.SyncTokenRequest:
		return v.validateSyncTokenRequest(value)
	case *models.SyncTokenRequest:
		return v.validateSyncTokenRequest(*value)

	case models.ShareRequest:
		if value.Login == "" {
			return ErrEmptyLogin
		}
		return nil
	case *models.ShareRequest:
		if value.Login == "" {
			return ErrEmptyLogin
		}
		return nil

	case models.User:
		return v.validateCredentials(value, fields...)
	case *models.User:
		return v.validateCredentials(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateOperation checks the envelope of op and the payload variant
// required by its kind and entity type.
func (v *OperationValidator) validateOperation(_ context.Context, op models.Operation, fields ...string) error {
	if len(fields) == 0 {
		fields = defaultOperationFields
	}

	for _, f := range fields {
		switch f {
		case FieldOperationID:
			if op.ID == "" {
				return ErrInvalidOperationID
			}
		case FieldKind:
			if !op.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldEntityType:
			if !op.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldClientID:
			if op.ClientID == "" {
				return ErrInvalidClientID
			}
		case FieldTimestamp:
			if op.Timestamp.IsZero() {
				return ErrInvalidTimestamp
			}
		case FieldEntityID:
			if err := validateEntityID(op); err != nil {
				return err
			}
		case FieldPayload:
			if err := validatePayload(op.Kind, op.EntityType, op.Payload); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateEntityID(op models.Operation) error {
	switch op.Kind {
	case models.OperationCreate:
		if op.EntityID != "" {
			return ErrUnexpectedEntityID
		}
	case models.OperationUpdate, models.OperationDelete:
		if op.EntityID == "" {
			return ErrMissingEntityID
		}
	}
	return nil
}

// validatePayload checks a create or update payload. Delete payloads are ignored.
func validatePayload(kind models.OperationKind, entityType models.EntityType, payload models.Payload) error {
	if kind == models.OperationDelete {
		return nil
	}
	if payload == nil {
		return ErrMissingPayload
	}

	switch p := payload.(type) {
	case *models.ContainerFields:
		if entityType != models.EntityContainer || p == nil {
			return ErrPayloadMismatch
		}
		return validateContainerFields(kind, p)
	case *models.ItemFields:
		if entityType != models.EntityItem || p == nil {
			return ErrPayloadMismatch
		}
		return validateItemFields(kind, p)
	default:
		return ErrPayloadMismatch
	}
}

func validateContainerFields(kind models.OperationKind, p *models.ContainerFields) error {
	switch kind {
	case models.OperationCreate:
		if p.Title == nil || *p.Title == "" {
			return ErrEmptyTitle
		}
	case models.OperationUpdate:
		if p.Empty() {
			return ErrNoFieldsToUpdate
		}
		if p.Title != nil && *p.Title == "" {
			return ErrEmptyTitle
		}
	}
	return nil
}

func validateItemFields(kind models.OperationKind, p *models.ItemFields) error {
	switch kind {
	case models.OperationCreate:
		if p.ContainerID == nil || *p.ContainerID == "" {
			return ErrMissingContainerID
		}
		if p.Title == nil || *p.Title == "" {
			return ErrEmptyTitle
		}
	case models.OperationUpdate:
		if p.ContainerID != nil {
			return ErrContainerChangeDenied
		}
		if p.Empty() {
			return ErrNoFieldsToUpdate
		}
		if p.Title != nil && *p.Title == "" {
			return ErrEmptyTitle
		}
	}

	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if p.Position != nil && *p.Position < 0 {
		return ErrInvalidPosition
	}
	return nil
}

// validateBatch validates every operation and reports the first failure
// with its position in the batch.
func (v *OperationValidator) validateBatch(ctx context.Context, batch models.BatchRequest) error {
	for i, op := range batch.Operations {
		if err := v.validateOperation(ctx, op); err != nil {
			return fmt.Errorf("%w: #%d (id=%q): %w", ErrInvalidOperationInList, i, op.ID, err)
		}
	}
	return nil
}

func (v *OperationValidator) validateResolveRequest(ctx context.Context, req models.ResolveRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldConflict, FieldResolution, FieldMergedPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldConflict:
			if err := v.validateOperation(ctx, req.Conflict.Operation); err != nil {
				return err
			}
		case FieldResolution:
			if !req.Resolution.Valid() {
				return ErrInvalidResolution
			}
		case FieldMergedPayload:
			if req.MergedPayload == nil {
				continue
			}
			if err := validatePayload(models.OperationUpdate, req.Conflict.Operation.EntityType, req.MergedPayload); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *OperationValidator) validateSyncTokenRequest(req models.SyncTokenRequest) error {
	if req.DeviceID == "" {
		return ErrEmptyDeviceID
	}
	return nil
}

func (v *OperationValidator) validateCredentials(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
