package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/service"
	"github.com/MKhiriev/go-trip-sync/internal/workers"
	"github.com/MKhiriev/go-trip-sync/models"
)

// App is the headless sync agent of one device: it signs in, then keeps the
// local outbox and mirror in sync with the server until stopped.
type App struct {
	services *service.ClientServices
	device   config.ClientDevice
	workers  *workers.Workers

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	if services == nil || services.AuthService == nil || services.SyncService == nil {
		return nil, ErrServicesNotConfigured
	}

	log := logger.WithDevice(cfg.Device.DeviceID)
	app := &App{
		services: services,
		device:   cfg.Device,
		logger:   log,
	}
	app.workers = workers.NewWorkers(
		workers.NewSyncWorker(services.SyncService, cfg.Workers, app.authenticate, log),
	)

	return app, nil
}

// Run signs the device in and runs the background workers until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	pending, err := a.services.SyncService.Conflicts(ctx)
	if err != nil {
		return fmt.Errorf("read local conflicts: %w", err)
	}
	if len(pending) > 0 {
		a.logger.Warn().Int("conflicts", len(pending)).Msg("unresolved conflicts are waiting for a decision")
	}

	return a.workers.Run(ctx)
}

// authenticate logs in with the configured credentials. The adapter keeps
// the sync token it receives.
func (a *App) authenticate(ctx context.Context) error {
	user := models.User{Login: a.device.Login, Password: a.device.Password}

	token, err := a.services.AuthService.Login(ctx, user, a.device.DeviceID)
	if err != nil {
		return fmt.Errorf("login as %q: %w", a.device.Login, err)
	}

	a.logger.Info().
		Str("device_id", a.device.DeviceID).
		Time("expires_at", token.ExpiresAt).
		Msg("device authenticated")
	return nil
}
