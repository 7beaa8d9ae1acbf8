package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/validators"
	"github.com/MKhiriev/go-trip-sync/models"
)

// SyncValidationService rejects malformed requests as a whole before they
// reach the wrapped SyncService. Nothing is applied when validation fails.
type SyncValidationService struct {
	inner        SyncService
	validator    validators.Validator
	maxBatchSize int
}

// NewSyncValidationService constructs the validation wrapper of a
// [SyncService]. Batches over cfg.MaxBatchSize are rejected; a zero value
// falls back to [config.DefaultMaxBatchSize].
func NewSyncValidationService(cfg config.Sync) SyncServiceWrapper {
	maxBatchSize := cfg.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = config.DefaultMaxBatchSize
	}

	return &SyncValidationService{
		validator:    validators.NewOperationValidator(),
		maxBatchSize: maxBatchSize,
	}
}

func (v *SyncValidationService) SyncBatch(ctx context.Context, userID int64, ops []models.Operation) (models.SyncResult, error) {
	if userID <= 0 {
		return models.SyncResult{}, ErrValidationNoUserID
	}
	if len(ops) > v.maxBatchSize {
		return models.SyncResult{}, fmt.Errorf("%w: got %d, limit is %d", ErrBatchTooLarge, len(ops), v.maxBatchSize)
	}
	if err := v.validator.Validate(ctx, models.BatchRequest{Operations: ops}); err != nil {
		return models.SyncResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.SyncBatch(ctx, userID, ops)
}

func (v *SyncValidationService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error {
	if userID <= 0 {
		return ErrValidationNoUserID
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if req.Resolution == models.ResolutionMerge && req.MergedPayload == nil {
		return ErrMergedPayloadRequired
	}

	return v.inner.ResolveConflict(ctx, userID, req)
}

func (v *SyncValidationService) ChangesSince(ctx context.Context, userID int64, since time.Time, scopeIDs []string) (models.DeltaResult, error) {
	if userID <= 0 {
		return models.DeltaResult{}, ErrValidationNoUserID
	}
	for _, id := range scopeIDs {
		if id == "" {
			return models.DeltaResult{}, fmt.Errorf("%w: empty checklist id in scope", ErrValidation)
		}
	}

	return v.inner.ChangesSince(ctx, userID, since, scopeIDs)
}

func (v *SyncValidationService) Wrap(wrapped SyncService) SyncService {
	v.inner = wrapped
	return v
}
