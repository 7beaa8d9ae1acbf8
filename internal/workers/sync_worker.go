package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/service"
)

// SyncWorker pushes the outbox and pulls changes on a fixed interval.
type SyncWorker struct {
	sync     service.ClientSyncService
	interval time.Duration
	reauth   ReauthFunc

	logger *logger.Logger
}

// NewSyncWorker creates a worker syncing every cfg.SyncInterval. reauth is
// called when the server rejects the sync token; it may be nil.
func NewSyncWorker(sync service.ClientSyncService, cfg config.ClientWorkers, reauth ReauthFunc, logger *logger.Logger) *SyncWorker {
	interval := cfg.SyncInterval
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	return &SyncWorker{
		sync:     sync,
		interval: interval,
		reauth:   reauth,
		logger:   logger,
	}
}

// Run syncs once right away and then on every tick until ctx is done.
// Failed rounds are logged and retried on the next tick.
func (w *SyncWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("sync worker started")

	for {
		w.syncOnce(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sync worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *SyncWorker) syncOnce(ctx context.Context) {
	err := w.sync.SyncOnce(ctx)
	if errors.Is(err, service.ErrTokenIsExpiredOrInvalid) && w.reauth != nil {
		w.logger.Info().Msg("sync token rejected, re-authenticating")
		if err = w.reauth(ctx); err != nil {
			w.logger.Err(err).Str("func", "*SyncWorker.syncOnce").Msg("re-authentication failed")
			return
		}
		err = w.sync.SyncOnce(ctx)
	}

	if err != nil && ctx.Err() == nil {
		w.logger.Err(err).Str("func", "*SyncWorker.syncOnce").Msg("sync round failed")
	}
}
