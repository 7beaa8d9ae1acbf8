package validators

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var ts = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func containerCreate() models.Operation {
	return models.Operation{
		ID:         "op-1",
		Kind:       models.OperationCreate,
		EntityType: models.EntityContainer,
		Payload:    &models.ContainerFields{Title: ptr("Packing")},
		Timestamp:  ts,
		ClientID:   "dev-1",
	}
}

func itemCreate() models.Operation {
	return models.Operation{
		ID:         "op-2",
		Kind:       models.OperationCreate,
		EntityType: models.EntityItem,
		Payload:    &models.ItemFields{ContainerID: ptr("op-1"), Title: ptr("Socks")},
		Timestamp:  ts,
		ClientID:   "dev-1",
	}
}

func itemUpdate() models.Operation {
	return models.Operation{
		ID:         "op-3",
		Kind:       models.OperationUpdate,
		EntityType: models.EntityItem,
		EntityID:   "item-1",
		Payload:    &models.ItemFields{Completed: ptr(true)},
		Timestamp:  ts,
		ClientID:   "dev-1",
	}
}

func TestOperationValidator_Operation(t *testing.T) {
	tests := []struct {
		name    string
		op      func() models.Operation
		wantErr error
	}{
		{name: "valid container create", op: containerCreate},
		{name: "valid item create", op: itemCreate},
		{name: "valid item update", op: itemUpdate},
		{
			name: "valid delete without payload",
			op: func() models.Operation {
				op := itemUpdate()
				op.Kind = models.OperationDelete
				op.Payload = nil
				return op
			},
		},
		{
			name:    "missing id",
			op:      func() models.Operation { op := containerCreate(); op.ID = ""; return op },
			wantErr: ErrInvalidOperationID,
		},
		{
			name:    "unknown kind",
			op:      func() models.Operation { op := containerCreate(); op.Kind = "upsert"; return op },
			wantErr: ErrInvalidKind,
		},
		{
			name:    "unknown entity type",
			op:      func() models.Operation { op := containerCreate(); op.EntityType = "trip"; return op },
			wantErr: ErrInvalidEntityType,
		},
		{
			name:    "missing client id",
			op:      func() models.Operation { op := containerCreate(); op.ClientID = ""; return op },
			wantErr: ErrInvalidClientID,
		},
		{
			name:    "zero timestamp",
			op:      func() models.Operation { op := containerCreate(); op.Timestamp = time.Time{}; return op },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "create with entity id",
			op:      func() models.Operation { op := containerCreate(); op.EntityID = "c-1"; return op },
			wantErr: ErrUnexpectedEntityID,
		},
		{
			name:    "update without entity id",
			op:      func() models.Operation { op := itemUpdate(); op.EntityID = ""; return op },
			wantErr: ErrMissingEntityID,
		},
		{
			name:    "create without payload",
			op:      func() models.Operation { op := containerCreate(); op.Payload = nil; return op },
			wantErr: ErrMissingPayload,
		},
		{
			name: "payload variant mismatch",
			op: func() models.Operation {
				op := containerCreate()
				op.Payload = &models.ItemFields{Title: ptr("x")}
				return op
			},
			wantErr: ErrPayloadMismatch,
		},
		{
			name: "container create without title",
			op: func() models.Operation {
				op := containerCreate()
				op.Payload = &models.ContainerFields{Category: ptr("travel")}
				return op
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "item create without container",
			op: func() models.Operation {
				op := itemCreate()
				op.Payload = &models.ItemFields{Title: ptr("Socks")}
				return op
			},
			wantErr: ErrMissingContainerID,
		},
		{
			name: "item update moving container",
			op: func() models.Operation {
				op := itemUpdate()
				op.Payload = &models.ItemFields{ContainerID: ptr("c-2")}
				return op
			},
			wantErr: ErrContainerChangeDenied,
		},
		{
			name: "empty update",
			op: func() models.Operation {
				op := itemUpdate()
				op.Payload = &models.ItemFields{}
				return op
			},
			wantErr: ErrNoFieldsToUpdate,
		},
		{
			name: "negative quantity",
			op: func() models.Operation {
				op := itemUpdate()
				op.Payload = &models.ItemFields{Quantity: ptr(-1)}
				return op
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "negative position",
			op: func() models.Operation {
				op := itemCreate()
				op.Payload.(*models.ItemFields).Position = ptr(-3)
				return op
			},
			wantErr: ErrInvalidPosition,
		},
	}

	v := NewOperationValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op()
			err := v.Validate(context.Background(), op)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.NoError(t, v.Validate(context.Background(), &op), "pointer form")
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOperationValidator_FieldScoping(t *testing.T) {
	v := NewOperationValidator()
	op := containerCreate()
	op.Payload = nil

	assert.NoError(t, v.Validate(context.Background(), op, FieldOperationID, FieldKind))
	assert.ErrorIs(t, v.Validate(context.Background(), op, FieldPayload), ErrMissingPayload)
	assert.ErrorIs(t, v.Validate(context.Background(), op, "nonsense"), ErrUnknownField)
}

func TestOperationValidator_Batch(t *testing.T) {
	v := NewOperationValidator()

	t.Run("empty batch is valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(context.Background(), models.BatchRequest{}))
	})

	t.Run("duplicate operations are valid", func(t *testing.T) {
		batch := models.BatchRequest{Operations: []models.Operation{itemCreate(), itemCreate()}}
		assert.NoError(t, v.Validate(context.Background(), &batch))
	})

	t.Run("one invalid operation rejects the batch", func(t *testing.T) {
		bad := itemUpdate()
		bad.EntityID = ""
		batch := models.BatchRequest{Operations: []models.Operation{containerCreate(), bad}}

		err := v.Validate(context.Background(), batch)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidOperationInList)
		assert.ErrorIs(t, err, ErrMissingEntityID)
		assert.Contains(t, err.Error(), "#1")
	})
}

func TestOperationValidator_ResolveRequest(t *testing.T) {
	v := NewOperationValidator()
	conflict := models.Conflict{Operation: itemUpdate()}

	assert.NoError(t, v.Validate(context.Background(), models.ResolveRequest{Conflict: conflict, Resolution: models.ResolutionServer}))
	assert.NoError(t, v.Validate(context.Background(), models.ResolveRequest{Conflict: conflict, Resolution: models.ResolutionMerge}),
		"missing merged payload is reported by the service")

	assert.ErrorIs(t,
		v.Validate(context.Background(), models.ResolveRequest{Conflict: conflict, Resolution: "mine"}),
		ErrInvalidResolution)
	assert.ErrorIs(t,
		v.Validate(context.Background(), &models.ResolveRequest{
			Conflict:      conflict,
			Resolution:    models.ResolutionMerge,
			MergedPayload: &models.ContainerFields{Title: ptr("x")},
		}),
		ErrPayloadMismatch)
	assert.ErrorIs(t,
		v.Validate(context.Background(), models.ResolveRequest{Resolution: models.ResolutionClient}),
		ErrInvalidOperationID)
}

func TestOperationValidator_OtherRequests(t *testing.T) {
	v := NewOperationValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.SyncTokenRequest{DeviceID: "phone"}))
	assert.ErrorIs(t, v.Validate(ctx, &models.SyncTokenRequest{}), ErrEmptyDeviceID)

	assert.NoError(t, v.Validate(ctx, models.ShareRequest{Login: "bob"}))
	assert.ErrorIs(t, v.Validate(ctx, &models.ShareRequest{}), ErrEmptyLogin)

	assert.NoError(t, v.Validate(ctx, models.User{Login: "bob", Password: "pw"}))
	assert.ErrorIs(t, v.Validate(ctx, models.User{Login: "bob"}), ErrEmptyPassword)
	assert.ErrorIs(t, v.Validate(ctx, &models.User{Password: "pw"}), ErrEmptyLogin)

	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
}
