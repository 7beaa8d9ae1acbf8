package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
)

// Storages groups the server repositories handed to the service layer.
type Storages struct {
	UserRepository      UserRepository
	ChecklistRepository ChecklistRepository

	// Health pings the database for the gRPC health service.
	Health HealthChecker

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and wires the
// repositories to the shared connection.
//
// The function initializes:
//   - the connection pool described by cfg.DB,
//   - the goose migrations embedded in the binary,
//   - the user and checklist repositories and the health checker.
//
// Parameters:
//   - ctx: bounds the connection ping.
//   - cfg: storage configuration; only the DB section is used.
//   - logger: structured logger used for diagnostic output.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, logger), nil
}

func newStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:      NewUserRepository(db, logger),
		ChecklistRepository: NewChecklistRepository(db, logger),
		Health:              db,
		db:                  db,
	}
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
