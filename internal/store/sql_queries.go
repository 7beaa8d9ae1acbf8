package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-trip-sync/models"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	containerColumns = `c.id, c.user_id, c.client_identifier, c.title, c.description, c.trip_id, c.category, c.client_timestamp, c.created_at, c.updated_at`
	itemColumns      = `i.id, i.checklist_id, i.user_id, i.client_identifier, i.title, i.notes, i.category, i.quantity, i.position, i.completed, i.client_timestamp, i.created_at, i.updated_at`

	// $2 is the requesting user.
	containerAccessible = `(c.user_id = $2 OR EXISTS (SELECT 1 FROM checklist_shares s WHERE s.checklist_id = c.id AND s.user_id = $2))`
	// $1 is the server id, $2 the requesting user, $3 the client identifier.
	containerRefMatches = `(c.id = $1 OR (c.user_id = $2 AND c.client_identifier = $3))`
	itemRefMatches      = `(i.id = $1 OR (i.user_id = $2 AND i.client_identifier = $3))`
)

const (
	createUser = `INSERT INTO users (login, password_hash)
    VALUES ($1, $2)
    RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, created_at
    FROM users
    WHERE login = $1;`

	insertContainer = `INSERT INTO checklists AS c (id, user_id, client_identifier, title, description, trip_id, category, client_timestamp, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    ON CONFLICT (user_id, client_identifier) DO NOTHING
    RETURNING ` + containerColumns + `;`

	selectContainerByClientIdentifier = `SELECT ` + containerColumns + `
    FROM checklists c
    WHERE c.user_id = $1 AND c.client_identifier = $2;`

	lockContainerForUpdate = `SELECT ` + containerColumns + `
    FROM checklists c
    WHERE ` + containerRefMatches + ` AND ` + containerAccessible + `
    ORDER BY (c.id = $1) DESC
    LIMIT 1
    FOR UPDATE;`

	lockContainerForItemInsert = `SELECT c.id
    FROM checklists c
    WHERE ` + containerRefMatches + ` AND ` + containerAccessible + `
    ORDER BY (c.id = $1) DESC
    LIMIT 1
    FOR KEY SHARE;`

	insertItem = `INSERT INTO checklist_items AS i (id, checklist_id, user_id, client_identifier, title, notes, category, quantity, position, completed, client_timestamp, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    ON CONFLICT (checklist_id, client_identifier) DO NOTHING
    RETURNING ` + itemColumns + `;`

	selectItemByClientIdentifier = `SELECT ` + itemColumns + `
    FROM checklist_items i
    WHERE i.checklist_id = $1 AND i.client_identifier = $2;`

	lockItemForUpdate = `SELECT ` + itemColumns + `
    FROM checklist_items i
    JOIN checklists c ON c.id = i.checklist_id
    WHERE ` + itemRefMatches + ` AND ` + containerAccessible + `
    ORDER BY (i.id = $1) DESC
    LIMIT 1
    FOR UPDATE OF i;`

	selectContainerAudience = `SELECT c.user_id FROM checklists c WHERE c.id = $1
    UNION
    SELECT s.user_id FROM checklist_shares s WHERE s.checklist_id = $1;`

	selectContainerItemIDs = `SELECT id FROM checklist_items WHERE checklist_id = $1;`

	deleteContainer = `DELETE FROM checklists WHERE id = $1;`

	deleteItem = `DELETE FROM checklist_items WHERE id = $1;`

	selectOwnedContainerID = `SELECT c.id FROM checklists c WHERE c.id = $1 AND c.user_id = $2 FOR KEY SHARE;`

	insertShare = `INSERT INTO checklist_shares (checklist_id, user_id, created_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (checklist_id, user_id) DO NOTHING;`
)

// buildUpdateContainerQuery writes every mutable container column.
func buildUpdateContainerQuery(c models.Container) (string, []any, error) {
	return psql.Update("checklists").
		SetMap(map[string]any{
			"title":       c.Title,
			"description": c.Description,
			"trip_id":     c.TripID,
			"category":    c.Category,
			"updated_at":  c.UpdatedAt,
		}).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
}

// buildUpdateItemQuery writes every mutable item column.
func buildUpdateItemQuery(i models.Item) (string, []any, error) {
	return psql.Update("checklist_items").
		SetMap(map[string]any{
			"title":      i.Title,
			"notes":      i.Notes,
			"category":   i.Category,
			"quantity":   i.Quantity,
			"position":   i.Position,
			"completed":  i.Completed,
			"updated_at": i.UpdatedAt,
		}).
		Where(sq.Eq{"id": i.ID}).
		ToSql()
}

// buildInsertTombstonesQuery inserts one row per tombstone.
func buildInsertTombstonesQuery(tombstones []models.Tombstone) (string, []any, error) {
	q := psql.Insert("sync_tombstones").
		Columns("user_id", "entity_type", "entity_id", "container_id", "deleted_at")
	for _, t := range tombstones {
		q = q.Values(t.UserID, string(t.EntityType), t.EntityID, t.ContainerID, t.DeletedAt)
	}

	return q.ToSql()
}

// buildChangedContainersQuery selects the containers visible to userID that
// changed after since: the container itself, one of its items, or its
// share with userID.
func buildChangedContainersQuery(userID int64, since time.Time, scopeIDs []string) (string, []any, error) {
	q := psql.Select(containerColumns).
		From("checklists c").
		Where(sq.Or{
			sq.Eq{"c.user_id": userID},
			sq.Expr("EXISTS (SELECT 1 FROM checklist_shares s WHERE s.checklist_id = c.id AND s.user_id = ?)", userID),
		}).
		Where(sq.Or{
			sq.Gt{"c.updated_at": since},
			sq.Expr("EXISTS (SELECT 1 FROM checklist_items i WHERE i.checklist_id = c.id AND i.updated_at > ?)", since),
			sq.Expr("EXISTS (SELECT 1 FROM checklist_shares s WHERE s.checklist_id = c.id AND s.user_id = ? AND s.created_at > ?)", userID, since),
		})

	if len(scopeIDs) > 0 {
		q = q.Where(sq.Eq{"c.id": scopeIDs})
	}

	return q.OrderBy("c.updated_at", "c.id").ToSql()
}

// buildItemsOfContainersQuery selects every item of the given containers.
func buildItemsOfContainersQuery(containerIDs []string) (string, []any, error) {
	return psql.Select(itemColumns).
		From("checklist_items i").
		Where(sq.Eq{"i.checklist_id": containerIDs}).
		OrderBy("i.checklist_id", "i.position", "i.created_at").
		ToSql()
}

// buildTombstonesQuery selects the tombstones of userID recorded after since.
func buildTombstonesQuery(userID int64, since time.Time, scopeIDs []string) (string, []any, error) {
	q := psql.Select("t.user_id, t.entity_type, t.entity_id, t.container_id, t.deleted_at").
		From("sync_tombstones t").
		Where(sq.Eq{"t.user_id": userID}).
		Where(sq.Gt{"t.deleted_at": since})

	if len(scopeIDs) > 0 {
		q = q.Where(sq.Eq{"t.container_id": scopeIDs})
	}

	return q.OrderBy("t.deleted_at", "t.id").ToSql()
}
