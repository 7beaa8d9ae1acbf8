package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/jackc/pgerrcode"
)

// checklistRepository is the PostgreSQL-backed implementation of
// [ChecklistRepository]. Every mutation runs inside [DB.inTx] so the
// lookup, the check and the write share one transaction.
type checklistRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewChecklistRepository constructs a PostgreSQL backed [ChecklistRepository].
//
// Creates are idempotent through the (user_id, client_identifier) and
// (checklist_id, client_identifier) unique indexes. Updates lock the row
// with FOR UPDATE before the mutation closure runs, and deletes write
// tombstones for the owner and every sharee in the same transaction.
// Delta reads run in a REPEATABLE READ transaction so that containers,
// items and tombstones come from one snapshot.
//
// Parameters:
//   - db: the PostgreSQL connection wrapper with its error classifier.
//   - logger: structured logger used for diagnostic output.
func NewChecklistRepository(db *DB, logger *logger.Logger) ChecklistRepository {
	logger.Debug().Msg("creating checklist repository")
	return &checklistRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContainer(s rowScanner) (models.Container, error) {
	var c models.Container
	err := s.Scan(
		&c.ID,
		&c.UserID,
		&c.ClientIdentifier,
		&c.Title,
		&c.Description,
		&c.TripID,
		&c.Category,
		&c.ClientTimestamp,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanItem(s rowScanner) (models.Item, error) {
	var i models.Item
	err := s.Scan(
		&i.ID,
		&i.ContainerID,
		&i.UserID,
		&i.ClientIdentifier,
		&i.Title,
		&i.Notes,
		&i.Category,
		&i.Quantity,
		&i.Position,
		&i.Completed,
		&i.ClientTimestamp,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// CreateContainer inserts container or returns the record previously
// created for the same owner and client identifier.
func (r *checklistRepository) CreateContainer(ctx context.Context, container models.Container) (models.Container, bool, error) {
	log := logger.FromContext(ctx)

	var (
		stored  models.Container
		created bool
	)
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		var err error
		stored, err = scanContainer(tx.QueryRowContext(ctx, insertContainer,
			container.ID,
			container.UserID,
			container.ClientIdentifier,
			container.Title,
			container.Description,
			container.TripID,
			container.Category,
			container.ClientTimestamp,
			container.CreatedAt,
			container.UpdatedAt,
		))
		if err == nil {
			created = true
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		// the unique index already holds this create
		created = false
		stored, err = scanContainer(tx.QueryRowContext(ctx, selectContainerByClientIdentifier, container.UserID, container.ClientIdentifier))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "checklistRepository.CreateContainer").
			Int64("user_id", container.UserID).
			Str("client_identifier", container.ClientIdentifier).
			Msg("failed to create checklist")
		return models.Container{}, false, err
	}

	return stored, created, nil
}

// CreateItem inserts item into the container referenced by containerRef or
// returns the item previously created there with the same client identifier.
func (r *checklistRepository) CreateItem(ctx context.Context, userID int64, containerRef models.EntityRef, item models.Item) (models.Item, bool, error) {
	log := logger.FromContext(ctx)

	var (
		stored  models.Item
		created bool
	)
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		var containerID string
		err := tx.QueryRowContext(ctx, lockContainerForItemInsert, containerRef.ID, userID, containerRef.ClientIdentifier).Scan(&containerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContainerNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		item.ContainerID = containerID
		stored, err = scanItem(tx.QueryRowContext(ctx, insertItem,
			item.ID,
			item.ContainerID,
			item.UserID,
			item.ClientIdentifier,
			item.Title,
			item.Notes,
			item.Category,
			item.Quantity,
			item.Position,
			item.Completed,
			item.ClientTimestamp,
			item.CreatedAt,
			item.UpdatedAt,
		))
		switch {
		case err == nil:
			created = true
			return nil
		case postgresError(err) == pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrContainerNotFound, err)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		created = false
		stored, err = scanItem(tx.QueryRowContext(ctx, selectItemByClientIdentifier, containerID, item.ClientIdentifier))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "checklistRepository.CreateItem").
			Int64("user_id", userID).
			Str("container_ref", containerRef.ID).
			Msg("failed to create checklist item")
		return models.Item{}, false, err
	}

	return stored, created, nil
}

// UpdateContainer locks the referenced container and persists what mutate returns.
func (r *checklistRepository) UpdateContainer(ctx context.Context, userID int64, ref models.EntityRef, mutate ContainerMutation) (models.Container, error) {
	var result models.Container
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		current, err := scanContainer(tx.QueryRowContext(ctx, lockContainerForUpdate, ref.ID, userID, ref.ClientIdentifier))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContainerNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		next, write, err := mutate(current)
		if err != nil {
			result = current
			return err
		}
		if !write {
			result = current
			return nil
		}

		query, args, err := buildUpdateContainerQuery(next)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		result = next
		return nil
	})

	return result, err
}

// UpdateItem locks the referenced item and persists what mutate returns.
func (r *checklistRepository) UpdateItem(ctx context.Context, userID int64, ref models.EntityRef, mutate ItemMutation) (models.Item, error) {
	var result models.Item
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		current, err := scanItem(tx.QueryRowContext(ctx, lockItemForUpdate, ref.ID, userID, ref.ClientIdentifier))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		next, write, err := mutate(current)
		if err != nil {
			result = current
			return err
		}
		if !write {
			result = current
			return nil
		}

		query, args, err := buildUpdateItemQuery(next)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		result = next
		return nil
	})

	return result, err
}

// DeleteContainer removes the referenced container and its items, and
// tombstones all of them for every user with access.
func (r *checklistRepository) DeleteContainer(ctx context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	var deleted bool
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		deleted = false
		container, err := scanContainer(tx.QueryRowContext(ctx, lockContainerForUpdate, ref.ID, userID, ref.ClientIdentifier))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		audience, err := queryUserIDs(ctx, tx, selectContainerAudience, container.ID)
		if err != nil {
			return err
		}
		itemIDs, err := queryStrings(ctx, tx, selectContainerItemIDs, container.ID)
		if err != nil {
			return err
		}

		tombstones := make([]models.Tombstone, 0, len(audience)*(len(itemIDs)+1))
		for _, uid := range audience {
			tombstones = append(tombstones, models.Tombstone{
				UserID:      uid,
				EntityType:  models.EntityContainer,
				EntityID:    container.ID,
				ContainerID: container.ID,
				DeletedAt:   deletedAt,
			})
			for _, itemID := range itemIDs {
				tombstones = append(tombstones, models.Tombstone{
					UserID:      uid,
					EntityType:  models.EntityItem,
					EntityID:    itemID,
					ContainerID: container.ID,
					DeletedAt:   deletedAt,
				})
			}
		}
		if err = insertTombstones(ctx, tx, tombstones); err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, deleteContainer, container.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		deleted = true
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "checklistRepository.DeleteContainer").
			Int64("user_id", userID).
			Str("ref", ref.ID).
			Msg("failed to delete checklist")
		return false, err
	}

	return deleted, nil
}

// DeleteItem removes the referenced item and tombstones it for every user
// with access to its container.
func (r *checklistRepository) DeleteItem(ctx context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	var deleted bool
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		deleted = false
		item, err := scanItem(tx.QueryRowContext(ctx, lockItemForUpdate, ref.ID, userID, ref.ClientIdentifier))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		audience, err := queryUserIDs(ctx, tx, selectContainerAudience, item.ContainerID)
		if err != nil {
			return err
		}

		tombstones := make([]models.Tombstone, 0, len(audience))
		for _, uid := range audience {
			tombstones = append(tombstones, models.Tombstone{
				UserID:      uid,
				EntityType:  models.EntityItem,
				EntityID:    item.ID,
				ContainerID: item.ContainerID,
				DeletedAt:   deletedAt,
			})
		}
		if err = insertTombstones(ctx, tx, tombstones); err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, deleteItem, item.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		deleted = true
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "checklistRepository.DeleteItem").
			Int64("user_id", userID).
			Str("ref", ref.ID).
			Msg("failed to delete checklist item")
		return false, err
	}

	return deleted, nil
}

// ChangesSince reads the delta for userID from one repeatable-read snapshot.
func (r *checklistRepository) ChangesSince(ctx context.Context, userID int64, since time.Time, scopeIDs []string) ([]models.ContainerWithItems, []models.Tombstone, error) {
	log := logger.FromContext(ctx)

	var (
		containers []models.ContainerWithItems
		tombstones []models.Tombstone
	)
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := r.db.inTx(ctx, opts, func(tx *sql.Tx) error {
		var err error
		containers, err = changedContainers(ctx, tx, userID, since, scopeIDs)
		if err != nil {
			return err
		}
		if err = attachItems(ctx, tx, containers); err != nil {
			return err
		}
		tombstones, err = tombstonesSince(ctx, tx, userID, since, scopeIDs)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "checklistRepository.ChangesSince").
			Int64("user_id", userID).
			Time("since", since).
			Int("scope ids count", len(scopeIDs)).
			Msg("failed to read changes")
		return nil, nil, err
	}

	return containers, tombstones, nil
}

// ShareContainer grants the user with login access to a container owned by ownerID.
func (r *checklistRepository) ShareContainer(ctx context.Context, ownerID int64, containerID, login string, sharedAt time.Time) (models.Share, error) {
	var share models.Share
	err := r.db.inTx(ctx, nil, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, selectOwnedContainerID, containerID, ownerID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContainerNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		user, err := findUserByLoginWith(ctx, tx, login)
		if err != nil {
			return err
		}
		if user.UserID == ownerID {
			return ErrShareWithOwner
		}

		if _, err = tx.ExecContext(ctx, insertShare, id, user.UserID, sharedAt); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		share = models.Share{ContainerID: id, UserID: user.UserID, Login: user.Login, CreatedAt: sharedAt}
		return nil
	})

	return share, err
}

func changedContainers(ctx context.Context, tx *sql.Tx, userID int64, since time.Time, scopeIDs []string) ([]models.ContainerWithItems, error) {
	query, args, err := buildChangedContainersQuery(userID, since, scopeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	containers := make([]models.ContainerWithItems, 0)
	for rows.Next() {
		c, scanErr := scanContainer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		containers = append(containers, models.ContainerWithItems{Container: c, Items: []models.Item{}})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return containers, nil
}

func attachItems(ctx context.Context, tx *sql.Tx, containers []models.ContainerWithItems) error {
	if len(containers) == 0 {
		return nil
	}

	ids := make([]string, len(containers))
	index := make(map[string]int, len(containers))
	for i, c := range containers {
		ids[i] = c.ID
		index[c.ID] = i
	}

	query, args, err := buildItemsOfContainersQuery(ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		if i, ok := index[item.ContainerID]; ok {
			containers[i].Items = append(containers[i].Items, item)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return nil
}

func tombstonesSince(ctx context.Context, tx *sql.Tx, userID int64, since time.Time, scopeIDs []string) ([]models.Tombstone, error) {
	query, args, err := buildTombstonesQuery(userID, since, scopeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tombstones := make([]models.Tombstone, 0)
	for rows.Next() {
		var t models.Tombstone
		if scanErr := rows.Scan(&t.UserID, &t.EntityType, &t.EntityID, &t.ContainerID, &t.DeletedAt); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tombstones = append(tombstones, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tombstones, nil
}

func insertTombstones(ctx context.Context, tx *sql.Tx, tombstones []models.Tombstone) error {
	if len(tombstones) == 0 {
		return nil
	}

	query, args, err := buildInsertTombstonesQuery(tombstones)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func queryUserIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}

func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		values = append(values, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return values, nil
}
