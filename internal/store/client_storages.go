package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
)

// ClientStorages groups the client-side repositories handed to the client
// service layer.
type ClientStorages struct {
	// SyncRepository is the SQLite-backed outbox, cursor and local mirror.
	SyncRepository LocalSyncRepository

	db *DB
}

// NewClientStorages opens the device database at cfg.DB.DSN, applies the
// client schema and wires the repositories to it.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		SyncRepository: NewLocalSyncRepository(db, logger),
		db:             db,
	}, nil
}

// Close releases the device database.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
