package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
)

// syncService is the concrete implementation of SyncService.
// Operations of a batch are applied one by one, each in its own
// repository transaction; an applied operation is never rolled back
// because of a later one.
type syncService struct {
	checklists store.ChecklistRepository
	dispatcher *dispatcher
	ids        IDGenerator
	now        func() time.Time

	// deltaOverlap is subtracted from the ServerTime of every delta.
	deltaOverlap time.Duration

	logger *logger.Logger
}

// NewSyncService constructs the server side [SyncService].
//
// Primary ids are UUIDv7 and record timestamps come from the wall clock.
// Every operation of a batch runs in its own repository transaction, so
// the service holds no state between calls and is safe for concurrent use.
//
// Parameters:
//   - checklists: repository holding containers, items, shares and tombstones.
//   - cfg: sync settings; DeltaOverlap sets how far back the ServerTime of a
//     delta is moved to cover writes still in flight during the read.
//   - logger: structured logger used for diagnostic output.
func NewSyncService(checklists store.ChecklistRepository, cfg config.Sync, logger *logger.Logger) SyncService {
	svc := newSyncService(checklists, utils.NewUUIDGenerator(), time.Now, logger)
	svc.deltaOverlap = cfg.DeltaOverlap
	return svc
}

func newSyncService(checklists store.ChecklistRepository, ids IDGenerator, now func() time.Time, logger *logger.Logger) *syncService {
	return &syncService{
		checklists: checklists,
		dispatcher: &dispatcher{checklists: checklists, ids: ids, now: now},
		ids:        ids,
		now:        now,
		logger:     logger,
	}
}

// SyncBatch implements SyncService.
//
// Operations are sorted by client timestamp with ties kept in submission
// order. Every operation lands in exactly one of Synced, Conflicts or
// Errors. A cancelled context stops the batch and returns what was
// applied so far together with the context error.
func (s *syncService) SyncBatch(ctx context.Context, userID int64, ops []models.Operation) (models.SyncResult, error) {
	log := logger.FromContext(ctx)
	result := models.NewSyncResult()

	if len(ops) == 0 {
		return result, nil
	}

	ordered := slices.Clone(ops)
	slices.SortStableFunc(ordered, func(a, b models.Operation) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	for _, op := range ordered {
		if err := ctx.Err(); err != nil {
			log.Err(err).Str("func", "syncService.SyncBatch").
				Int("applied", len(result.Synced)).
				Int("total", len(ordered)).
				Msg("batch interrupted")
			return result, err
		}

		out := s.dispatcher.dispatch(ctx, userID, op)
		switch out.status {
		case statusApplied, statusAlreadyApplied:
			result.Synced = append(result.Synced, op.ID)
		case statusConflict:
			result.Conflicts = append(result.Conflicts, models.Conflict{
				Operation:     op,
				ServerVersion: out.serverVersion,
			})
		case statusFailed:
			log.Warn().Err(out.err).
				Str("func", "syncService.SyncBatch").
				Str("operation_id", op.ID).
				Str("kind", string(op.Kind)).
				Str("entity_type", string(op.EntityType)).
				Msg("operation was not applied")
			result.Errors = append(result.Errors, models.OperationError{
				Operation: op,
				Error:     out.err.Error(),
			})
		}
	}

	log.Info().
		Int64("user_id", userID).
		Int("synced", len(result.Synced)).
		Int("conflicts", len(result.Conflicts)).
		Int("errors", len(result.Errors)).
		Msg("batch processed")

	return result, nil
}

// ResolveConflict implements SyncService.
func (s *syncService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error {
	log := logger.FromContext(ctx)

	op := req.Conflict.Operation
	switch req.Resolution {
	case models.ResolutionServer:
		return nil
	case models.ResolutionClient:
		op.Timestamp = s.now()
	case models.ResolutionMerge:
		if req.MergedPayload == nil {
			return ErrMergedPayloadRequired
		}
		op = models.Operation{
			ID:         s.ids.Generate(),
			Kind:       models.OperationUpdate,
			EntityType: op.EntityType,
			EntityID:   op.EntityID,
			Payload:    req.MergedPayload,
			Timestamp:  s.now(),
			ClientID:   op.ClientID,
		}
	default:
		return fmt.Errorf("%w: unknown resolution %q", ErrValidation, req.Resolution)
	}

	out := s.dispatcher.dispatch(ctx, userID, op)
	switch out.status {
	case statusConflict:
		log.Warn().Str("func", "syncService.ResolveConflict").
			Str("operation_id", op.ID).
			Msg("record changed again while resolving conflict")
		return ErrConflictPersists
	case statusFailed:
		log.Err(out.err).Str("func", "syncService.ResolveConflict").
			Str("operation_id", op.ID).
			Str("resolution", string(req.Resolution)).
			Msg("resolution was not applied")
		return out.err
	}

	return nil
}

// ChangesSince implements SyncService.
//
// Record timestamps are taken before their transaction commits, so a write
// stamped before the read may still be invisible to it. The returned
// ServerTime is therefore the read instant truncated to the storage
// precision (microseconds) and moved back by the overlap window, but never
// before since. Changes inside the window are delivered again on the next
// pull; clients apply deltas as upserts.
func (s *syncService) ChangesSince(ctx context.Context, userID int64, since time.Time, scopeIDs []string) (models.DeltaResult, error) {
	serverTime := s.deltaCursor(since)

	containers, tombstones, err := s.checklists.ChangesSince(ctx, userID, since, scopeIDs)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncService.ChangesSince").
			Int64("user_id", userID).
			Time("since", since).
			Msg("failed to read changes")
		return models.DeltaResult{}, fmt.Errorf("error reading changes: %w", err)
	}

	if containers == nil {
		containers = []models.ContainerWithItems{}
	}

	delta := models.DeltaResult{
		Containers:          containers,
		DeletedContainerIDs: []string{},
		DeletedItemIDs:      []string{},
		ServerTime:          serverTime,
	}

	seen := make(map[string]struct{}, len(tombstones))
	for _, t := range tombstones {
		if _, ok := seen[t.EntityID]; ok {
			continue
		}
		seen[t.EntityID] = struct{}{}

		switch t.EntityType {
		case models.EntityContainer:
			delta.DeletedContainerIDs = append(delta.DeletedContainerIDs, t.EntityID)
		case models.EntityItem:
			delta.DeletedItemIDs = append(delta.DeletedItemIDs, t.EntityID)
		}
	}

	return delta, nil
}

// deltaCursor returns the ServerTime of a delta read starting now.
func (s *syncService) deltaCursor(since time.Time) time.Time {
	cursor := s.now().Truncate(time.Microsecond).Add(-s.deltaOverlap)
	if cursor.Before(since) {
		return since
	}
	return cursor
}
