package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
)

// syncTokenService issues device-scoped sync tokens. A token is valid for
// ttl after its issue instant, measured with the service clock.
type syncTokenService struct {
	signKey string
	ttl     time.Duration

	now func() time.Time

	logger *logger.Logger
}

// NewSyncTokenService constructs a [SyncTokenService] from cfg.
//
// Tokens are HS256 JWTs signed with cfg.TokenSignKey. A token stays valid
// while less than the TTL has passed since its issue instant, as measured
// by the service clock; the "exp" claim is informational only.
//
// Parameters:
//   - cfg: sync settings; a zero TokenTTL falls back to
//     [config.DefaultSyncTokenTTL].
//   - logger: structured logger used for diagnostic output.
func NewSyncTokenService(cfg config.Sync, logger *logger.Logger) SyncTokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultSyncTokenTTL
	}

	return &syncTokenService{
		signKey: cfg.TokenSignKey,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *syncTokenService) Issue(ctx context.Context, userID int64, deviceID string) (models.SyncToken, error) {
	log := logger.FromContext(ctx)

	if userID <= 0 || deviceID == "" {
		return models.SyncToken{}, ErrInvalidDataProvided
	}

	issuedAt := s.now().Truncate(time.Millisecond)
	token, err := utils.GenerateSyncToken(userID, deviceID, issuedAt, s.ttl, s.signKey)
	if err != nil {
		log.Err(err).Str("func", "syncTokenService.Issue").Int64("user_id", userID).Msg("failed to sign sync token")
		return models.SyncToken{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.SyncToken{Token: token, ExpiresAt: issuedAt.Add(s.ttl)}, nil
}

// Validate rejects tokens that are malformed, signed with another key or
// older than the configured TTL.
func (s *syncTokenService) Validate(ctx context.Context, token string) (models.SyncSession, error) {
	claims, err := utils.ParseSyncToken(token, s.signKey)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "syncTokenService.Validate").Msg("sync token rejected")
		return models.SyncSession{}, ErrInvalidSyncToken
	}

	issuedAt := claims.IssuedAtTime()
	if s.now().Sub(issuedAt) >= s.ttl {
		return models.SyncSession{}, ErrInvalidSyncToken
	}

	return models.SyncSession{
		UserID:   claims.UserID,
		DeviceID: claims.DeviceID,
		IssuedAt: issuedAt,
	}, nil
}
