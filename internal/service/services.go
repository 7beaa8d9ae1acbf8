package service

import (
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/models"
)

type Services struct {
	AuthService      AuthService
	SyncService      SyncService
	SyncTokenService SyncTokenService
	ShareService     ShareService
	AppInfoService   AppInfoService
}

// NewServices wires the server services. SyncService is wrapped by
// request validation.
//
// Parameters:
//   - storages: opened PostgreSQL repositories.
//   - cfg: merged server configuration; the App and Sync sections are used.
//   - buildInfo: version data injected at build time.
//   - logger: structured logger used for diagnostic output.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	syncService := NewSyncValidationService(cfg.Sync).
		Wrap(NewSyncService(storages.ChecklistRepository, cfg.Sync, logger))

	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncService:      syncService,
		SyncTokenService: NewSyncTokenService(cfg.Sync, logger),
		ShareService:     NewShareService(storages.ChecklistRepository, logger),
		AppInfoService:   appInfoService,
	}, nil
}
