package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/models"
)

type localSyncRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalSyncRepository constructs a SQLite-backed [LocalSyncRepository].
//
// The repository owns four tables of the device database: the outbox of
// pending operations, the sync_state row holding the pull cursor, the
// local mirror of checklists and items, and unresolved conflicts. Applying
// a push result and applying a delta are each one transaction; a failed
// delta leaves the cursor where it was.
//
// Parameters:
//   - db: the SQLite connection wrapper with its error classifier.
//   - logger: structured logger used for diagnostic output.
func NewLocalSyncRepository(db *DB, logger *logger.Logger) LocalSyncRepository {
	return &localSyncRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localSyncRepository) Enqueue(ctx context.Context, op models.Operation, enqueuedAt time.Time) error {
	log := logger.FromContext(ctx)

	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode operation %s: %w", op.ID, err)
	}

	if _, err = l.DB.ExecContext(ctx, enqueueOperation, op.ID, string(data), enqueuedAt.UTC()); err != nil {
		log.Err(err).
			Str("func", "localSyncRepository.Enqueue").
			Str("operation_id", op.ID).
			Msg("failed to enqueue operation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (l *localSyncRepository) PendingOperations(ctx context.Context, limit int) ([]models.OutboxEntry, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		return []models.OutboxEntry{}, nil
	}

	rows, err := l.DB.QueryContext(ctx, selectPendingOperations, limit)
	if err != nil {
		log.Err(err).Str("func", "localSyncRepository.PendingOperations").Msg("failed to query outbox")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.OutboxEntry, 0)
	for rows.Next() {
		var (
			entry models.OutboxEntry
			raw   string
		)
		if err = rows.Scan(&raw, &entry.Attempts, &entry.LastError, &entry.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err = json.Unmarshal([]byte(raw), &entry.Operation); err != nil {
			log.Err(err).Str("func", "localSyncRepository.PendingOperations").Msg("failed to decode outbox operation")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (l *localSyncRepository) ApplyPushResult(ctx context.Context, result models.SyncResult, receivedAt time.Time) error {
	log := logger.FromContext(ctx)

	done := make([]string, 0, len(result.Synced)+len(result.Conflicts))
	done = append(done, result.Synced...)
	for _, c := range result.Conflicts {
		done = append(done, c.Operation.ID)
	}

	err := l.DB.inTx(ctx, nil, func(tx *sql.Tx) error {
		for _, c := range result.Conflicts {
			data, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("failed to encode conflict for %s: %w", c.Operation.ID, err)
			}
			if _, err = tx.ExecContext(ctx, insertLocalConflict, c.Operation.ID, string(data), receivedAt.UTC()); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		for _, e := range result.Errors {
			if _, err := tx.ExecContext(ctx, recordOperationFailure, e.Error, e.Operation.ID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if len(done) == 0 {
			return nil
		}
		query, args, err := buildDeleteOutboxQuery(done)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "localSyncRepository.ApplyPushResult").
			Int("synced", len(result.Synced)).
			Int("conflicts", len(result.Conflicts)).
			Int("errors", len(result.Errors)).
			Msg("failed to apply push result")
		return err
	}

	return nil
}

func (l *localSyncRepository) Conflicts(ctx context.Context) ([]models.LocalConflict, error) {
	rows, err := l.DB.QueryContext(ctx, selectLocalConflicts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	conflicts := make([]models.LocalConflict, 0)
	for rows.Next() {
		var (
			c   models.LocalConflict
			raw string
		)
		if err = rows.Scan(&c.ID, &raw, &c.ReceivedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err = json.Unmarshal([]byte(raw), &c.Conflict); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		conflicts = append(conflicts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return conflicts, nil
}

func (l *localSyncRepository) RemoveConflict(ctx context.Context, id int64) error {
	if _, err := l.DB.ExecContext(ctx, deleteLocalConflict, id); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (l *localSyncRepository) Cursor(ctx context.Context) (time.Time, error) {
	var raw string
	err := l.DB.QueryRowContext(ctx, selectSyncState, cursorKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	cursor, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed sync cursor %q: %w", raw, err)
	}

	return cursor, nil
}

func (l *localSyncRepository) ApplyDelta(ctx context.Context, delta models.DeltaResult) error {
	log := logger.FromContext(ctx)

	err := l.DB.inTx(ctx, nil, func(tx *sql.Tx) error {
		for _, c := range delta.Containers {
			if err := upsertLocalContainer(ctx, tx, c); err != nil {
				return err
			}
		}

		if len(delta.DeletedItemIDs) > 0 {
			query, args, err := buildDeleteLocalItemsQuery(delta.DeletedItemIDs)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if len(delta.DeletedContainerIDs) > 0 {
			query, args, err := buildDeleteLocalChecklistsQuery(delta.DeletedContainerIDs)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if _, err := tx.ExecContext(ctx, upsertSyncState, cursorKey, delta.ServerTime.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "localSyncRepository.ApplyDelta").
			Int("containers", len(delta.Containers)).
			Msg("failed to apply delta")
		return err
	}

	return nil
}

// upsertLocalContainer replaces the mirrored container and its full item set.
func upsertLocalContainer(ctx context.Context, tx *sql.Tx, c models.ContainerWithItems) error {
	data, err := json.Marshal(c.Container)
	if err != nil {
		return fmt.Errorf("failed to encode checklist %s: %w", c.ID, err)
	}
	if _, err = tx.ExecContext(ctx, upsertLocalChecklist, c.ID, string(data), c.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, deleteLocalChecklistItems, c.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	for _, item := range c.Items {
		itemData, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode checklist item %s: %w", item.ID, err)
		}
		if _, err = tx.ExecContext(ctx, insertLocalChecklistItem, item.ID, c.ID, string(itemData), item.UpdatedAt.UTC()); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return nil
}

func (l *localSyncRepository) Checklists(ctx context.Context) ([]models.ContainerWithItems, error) {
	rows, err := l.DB.QueryContext(ctx, selectLocalChecklists)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	checklists := make([]models.ContainerWithItems, 0)
	index := make(map[string]int)
	for rows.Next() {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		var c models.Container
		if err = json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		index[c.ID] = len(checklists)
		checklists = append(checklists, models.ContainerWithItems{Container: c, Items: []models.Item{}})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	itemRows, err := l.DB.QueryContext(ctx, selectLocalChecklistItems)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var checklistID, raw string
		if err = itemRows.Scan(&checklistID, &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		i, ok := index[checklistID]
		if !ok {
			continue
		}
		var item models.Item
		if err = json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		checklists[i].Items = append(checklists[i].Items, item)
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return checklists, nil
}
