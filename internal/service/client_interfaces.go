package service

import (
	"context"

	"github.com/MKhiriev/go-trip-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientAuthService authenticates the device against the server.
type ClientAuthService interface {
	// Register creates an account and leaves the adapter holding a sync
	// token for deviceID.
	Register(ctx context.Context, user models.User, deviceID string) (models.SyncToken, error)

	// Login authenticates user and leaves the adapter holding a sync token
	// for deviceID.
	Login(ctx context.Context, user models.User, deviceID string) (models.SyncToken, error)
}

// ClientSyncService is the device side of the sync engine: a local outbox of
// pending operations, a mirror of the server state and the conflicts
// awaiting a decision.
type ClientSyncService interface {
	// Enqueue records op in the outbox. Missing id, client id and timestamp
	// are filled in. The stored operation is returned.
	Enqueue(ctx context.Context, op models.Operation) (models.Operation, error)

	// Push sends pending operations as one batch. Synced operations leave
	// the outbox, conflicting ones move to the local conflict list and
	// failed ones stay for the next push.
	Push(ctx context.Context) (models.SyncResult, error)

	// Pull fetches changes since the stored cursor, applies them to the
	// local mirror and advances the cursor.
	Pull(ctx context.Context) (models.DeltaResult, error)

	// Resolve submits the decision for the local conflict conflictID and
	// drops it from the conflict list.
	Resolve(ctx context.Context, conflictID int64, resolution models.Resolution, merged models.Payload) error

	// SyncOnce pushes then pulls.
	SyncOnce(ctx context.Context) error

	Conflicts(ctx context.Context) ([]models.LocalConflict, error)
	Checklists(ctx context.Context) ([]models.ContainerWithItems, error)
}
