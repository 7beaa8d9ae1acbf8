package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=SyncServiceWrapper

// SyncService is the server side of the sync engine.
type SyncService interface {
	// SyncBatch applies ops in client-timestamp order and reports the outcome
	// of each one. A failing operation never aborts the batch.
	SyncBatch(ctx context.Context, userID int64, ops []models.Operation) (models.SyncResult, error)

	// ResolveConflict applies the user's decision for a previously reported conflict.
	ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error

	// ChangesSince returns every visible change after since, optionally
	// restricted to the containers in scopeIDs.
	ChangesSince(ctx context.Context, userID int64, since time.Time, scopeIDs []string) (models.DeltaResult, error)
}

// SyncTokenService issues and validates device sync tokens.
type SyncTokenService interface {
	Issue(ctx context.Context, userID int64, deviceID string) (models.SyncToken, error)
	Validate(ctx context.Context, token string) (models.SyncSession, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ShareService grants other users access to a checklist.
type ShareService interface {
	ShareChecklist(ctx context.Context, ownerID int64, checklistID string, req models.ShareRequest) (models.Share, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// logging or validating.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService
}

// IDGenerator produces server-assigned primary ids.
type IDGenerator interface {
	Generate() string
}
