package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalSyncRepository is the device-side store of the sync agent: the outbox
// of pending operations, the pull cursor, the local mirror of checklists and
// the conflicts awaiting a decision.
type LocalSyncRepository interface {
	// Enqueue appends op to the outbox. Enqueueing an operation id twice is a no-op.
	Enqueue(ctx context.Context, op models.Operation, enqueuedAt time.Time) error

	// PendingOperations returns up to limit outbox entries, fewest failed
	// attempts first and in enqueue order within the same attempt count.
	PendingOperations(ctx context.Context, limit int) ([]models.OutboxEntry, error)

	// ApplyPushResult drops synced operations, moves conflicting ones into
	// the conflict list and records the failure message of errored ones,
	// all in one transaction.
	ApplyPushResult(ctx context.Context, result models.SyncResult, receivedAt time.Time) error

	// Conflicts returns the unresolved conflicts, oldest first.
	Conflicts(ctx context.Context) ([]models.LocalConflict, error)

	// RemoveConflict forgets a conflict once it is resolved.
	RemoveConflict(ctx context.Context, id int64) error

	// Cursor returns the server time of the last applied pull, or the zero
	// time before the first pull.
	Cursor(ctx context.Context) (time.Time, error)

	// ApplyDelta upserts the pulled checklists, removes tombstoned ones and
	// advances the cursor to delta.ServerTime in one transaction.
	ApplyDelta(ctx context.Context, delta models.DeltaResult) error

	// Checklists returns the local mirror.
	Checklists(ctx context.Context) ([]models.ContainerWithItems, error)
}
