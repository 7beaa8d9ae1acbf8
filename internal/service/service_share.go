package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/models"
)

type shareService struct {
	checklists store.ChecklistRepository
	now        func() time.Time

	logger *logger.Logger
}

// NewShareService constructs a [ShareService]. Only the owner of a
// checklist may share it; sharees see it in deltas and may edit it.
//
// Parameters:
//   - checklists: repository resolving checklists and logins.
//   - logger: structured logger used for diagnostic output.
func NewShareService(checklists store.ChecklistRepository, logger *logger.Logger) ShareService {
	return &shareService{
		checklists: checklists,
		now:        time.Now,
		logger:     logger,
	}
}

// ShareChecklist grants the user named in req access to a checklist owned
// by ownerID. Sharing twice with the same user is not an error.
func (s *shareService) ShareChecklist(ctx context.Context, ownerID int64, checklistID string, req models.ShareRequest) (models.Share, error) {
	log := logger.FromContext(ctx)

	if ownerID <= 0 || checklistID == "" || req.Login == "" {
		return models.Share{}, ErrInvalidDataProvided
	}

	share, err := s.checklists.ShareContainer(ctx, ownerID, checklistID, req.Login, s.now())
	if errors.Is(err, store.ErrContainerNotFound) {
		return models.Share{}, fmt.Errorf("%w: %w", ErrEntityNotFound, err)
	}
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.Share{}, fmt.Errorf("%w: %w", ErrShareUserNotFound, err)
	}
	if err != nil {
		log.Err(err).
			Str("func", "shareService.ShareChecklist").
			Str("checklist_id", checklistID).
			Str("login", req.Login).
			Msg("failed to share checklist")
		return models.Share{}, err
	}

	log.Info().Str("checklist_id", checklistID).Int64("user_id", share.UserID).Msg("checklist shared")
	return share, nil
}
