// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import sq "github.com/Masterminds/squirrel"

// lite builds SQLite statements with ? placeholders.
var lite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const cursorKey = "changes_cursor"

const (
	enqueueOperation = `
		INSERT INTO outbox (operation_id, operation, enqueued_at)
		VALUES (?, ?, ?)
		ON CONFLICT (operation_id) DO NOTHING;`

	selectPendingOperations = `
		SELECT operation, attempts, last_error, enqueued_at
		FROM outbox
		ORDER BY attempts, seq
		LIMIT ?;`

	recordOperationFailure = `
		UPDATE outbox SET
			attempts   = attempts + 1,
			last_error = ?
		WHERE operation_id = ?;`

	insertLocalConflict = `
		INSERT INTO local_conflicts (operation_id, conflict, received_at)
		VALUES (?, ?, ?)
		ON CONFLICT (operation_id) DO UPDATE SET
			conflict    = excluded.conflict,
			received_at = excluded.received_at;`

	selectLocalConflicts = `
		SELECT id, conflict, received_at
		FROM local_conflicts
		ORDER BY id;`

	deleteLocalConflict = `DELETE FROM local_conflicts WHERE id = ?;`

	selectSyncState = `SELECT value FROM sync_state WHERE key = ?;`

	upsertSyncState = `
		INSERT INTO sync_state (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	upsertLocalChecklist = `
		INSERT INTO local_checklists (id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at;`

	deleteLocalChecklistItems = `DELETE FROM local_checklist_items WHERE checklist_id = ?;`

	insertLocalChecklistItem = `
		INSERT INTO local_checklist_items (id, checklist_id, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			checklist_id = excluded.checklist_id,
			data         = excluded.data,
			updated_at   = excluded.updated_at;`

	selectLocalChecklists = `SELECT data FROM local_checklists ORDER BY updated_at, id;`

	selectLocalChecklistItems = `SELECT checklist_id, data FROM local_checklist_items ORDER BY checklist_id, id;`
)

func buildDeleteOutboxQuery(operationIDs []string) (string, []any, error) {
	return lite.Delete("outbox").Where(sq.Eq{"operation_id": operationIDs}).ToSql()
}

func buildDeleteLocalChecklistsQuery(ids []string) (string, []any, error) {
	return lite.Delete("local_checklists").Where(sq.Eq{"id": ids}).ToSql()
}

func buildDeleteLocalItemsQuery(ids []string) (string, []any, error) {
	return lite.Delete("local_checklist_items").Where(sq.Eq{"id": ids}).ToSql()
}
