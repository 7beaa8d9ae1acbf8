package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/adapter"
	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/internal/validators"
	"github.com/MKhiriev/go-trip-sync/models"
)

// ErrLocalConflictNotFound is returned by Resolve for an unknown local conflict id.
var ErrLocalConflictNotFound = errors.New("local conflict not found")

type clientSyncService struct {
	local     store.LocalSyncRepository
	adapter   adapter.ServerAdapter
	validator validators.Validator

	deviceID  string
	batchSize int
	ids       IDGenerator
	now       func() time.Time

	// mu serialises push and pull so that a background round and a manual
	// one never interleave on the outbox or the cursor.
	mu sync.Mutex

	logger *logger.Logger
}

// NewClientSyncService constructs the device side [ClientSyncService].
//
// Local edits are queued in the outbox by Enqueue and leave the device on
// the next Push; Pull mirrors server changes into the local store. Push and
// Pull never run concurrently.
//
// Parameters:
//   - local: SQLite outbox, cursor and mirror of the device.
//   - serverAdapter: transport to the sync server.
//   - deviceID: client id stamped on operations that carry none.
//   - batchSize: maximum operations per push; zero or less falls back to
//     [config.DefaultMaxBatchSize].
//   - logger: structured logger used for diagnostic output.
func NewClientSyncService(local store.LocalSyncRepository, serverAdapter adapter.ServerAdapter, deviceID string, batchSize int, logger *logger.Logger) ClientSyncService {
	svc := newClientSyncService(local, serverAdapter, deviceID, utils.NewUUIDGenerator(), time.Now, logger)
	if batchSize > 0 {
		svc.batchSize = batchSize
	}
	return svc
}

func newClientSyncService(
	local store.LocalSyncRepository,
	serverAdapter adapter.ServerAdapter,
	deviceID string,
	ids IDGenerator,
	now func() time.Time,
	logger *logger.Logger,
) *clientSyncService {
	return &clientSyncService{
		local:     local,
		adapter:   serverAdapter,
		validator: validators.NewOperationValidator(),
		deviceID:  deviceID,
		batchSize: config.DefaultMaxBatchSize,
		ids:       ids,
		now:       now,
		logger:    logger,
	}
}

func (s *clientSyncService) Enqueue(ctx context.Context, op models.Operation) (models.Operation, error) {
	if op.ID == "" {
		op.ID = s.ids.Generate()
	}
	if op.ClientID == "" {
		op.ClientID = s.deviceID
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = s.now()
	}

	if err := s.validator.Validate(ctx, op); err != nil {
		return models.Operation{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.local.Enqueue(ctx, op, s.now()); err != nil {
		return models.Operation{}, fmt.Errorf("enqueue operation: %w", err)
	}

	return op, nil
}

func (s *clientSyncService) Push(ctx context.Context) (models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.push(ctx)
}

// push sends at most batchSize pending operations. Operations that were
// never rejected go first in enqueue order, so entries failing on every
// round cannot hold back newer ones. The rest go out on the next round.
func (s *clientSyncService) push(ctx context.Context) (models.SyncResult, error) {
	log := logger.FromContext(ctx)

	entries, err := s.local.PendingOperations(ctx, s.batchSize)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load outbox: %w", err)
	}
	if len(entries) == 0 {
		return models.NewSyncResult(), nil
	}

	ops := make([]models.Operation, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}

	result, err := s.adapter.SyncBatch(ctx, ops)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.push").Int("operations", len(ops)).Msg("batch push failed")
		return models.SyncResult{}, fmt.Errorf("push batch: %w", mapAdapterError(err))
	}

	if err = s.local.ApplyPushResult(ctx, result, s.now()); err != nil {
		return models.SyncResult{}, fmt.Errorf("record push result: %w", err)
	}

	log.Info().
		Int("synced", len(result.Synced)).
		Int("conflicts", len(result.Conflicts)).
		Int("errors", len(result.Errors)).
		Msg("outbox pushed")

	return result, nil
}

func (s *clientSyncService) Pull(ctx context.Context) (models.DeltaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pull(ctx)
}

func (s *clientSyncService) pull(ctx context.Context) (models.DeltaResult, error) {
	cursor, err := s.local.Cursor(ctx)
	if err != nil {
		return models.DeltaResult{}, fmt.Errorf("load cursor: %w", err)
	}

	delta, err := s.adapter.ChangesSince(ctx, cursor, nil)
	if err != nil {
		return models.DeltaResult{}, fmt.Errorf("pull changes: %w", mapAdapterError(err))
	}

	if err = s.local.ApplyDelta(ctx, delta); err != nil {
		return models.DeltaResult{}, fmt.Errorf("apply changes: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Time("since", cursor).
		Time("server_time", delta.ServerTime).
		Int("containers", len(delta.Containers)).
		Int("deleted_containers", len(delta.DeletedContainerIDs)).
		Int("deleted_items", len(delta.DeletedItemIDs)).
		Msg("changes pulled")

	return delta, nil
}

func (s *clientSyncService) Resolve(ctx context.Context, conflictID int64, resolution models.Resolution, merged models.Payload) error {
	conflicts, err := s.local.Conflicts(ctx)
	if err != nil {
		return fmt.Errorf("load conflicts: %w", err)
	}

	var found *models.LocalConflict
	for i := range conflicts {
		if conflicts[i].ID == conflictID {
			found = &conflicts[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %d", ErrLocalConflictNotFound, conflictID)
	}

	req := models.ResolveRequest{
		Conflict:      found.Conflict,
		Resolution:    resolution,
		MergedPayload: merged,
	}
	if err = s.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if resolution == models.ResolutionMerge && merged == nil {
		return ErrMergedPayloadRequired
	}

	if err = s.adapter.ResolveConflict(ctx, req); err != nil {
		return fmt.Errorf("resolve conflict: %w", mapAdapterError(err))
	}

	if err = s.local.RemoveConflict(ctx, conflictID); err != nil {
		return fmt.Errorf("drop resolved conflict: %w", err)
	}

	return nil
}

// SyncOnce pushes the outbox and pulls changes. A failed push does not
// prevent the pull; both errors are reported.
func (s *clientSyncService) SyncOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, pushErr := s.push(ctx)
	if errors.Is(pushErr, ErrTokenIsExpiredOrInvalid) {
		return pushErr
	}

	_, pullErr := s.pull(ctx)

	return errors.Join(pushErr, pullErr)
}

func (s *clientSyncService) Conflicts(ctx context.Context) ([]models.LocalConflict, error) {
	return s.local.Conflicts(ctx)
}

func (s *clientSyncService) Checklists(ctx context.Context) ([]models.ContainerWithItems, error) {
	return s.local.Checklists(ctx)
}
