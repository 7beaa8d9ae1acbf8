package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL создаёт DB из существующего *sql.DB (для тестов).
func newDBFromSQL(db *sql.DB) *DB {
	return newDB(db, NewPostgresErrorClassifier(), logger.Nop())
}

func newTestChecklistRepo(t *testing.T) (ChecklistRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewChecklistRepository(newDBFromSQL(db), logger.Nop()), mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var (
	containerCols = []string{
		"id", "user_id", "client_identifier", "title", "description",
		"trip_id", "category", "client_timestamp", "created_at", "updated_at",
	}
	itemCols = []string{
		"id", "checklist_id", "user_id", "client_identifier", "title", "notes", "category",
		"quantity", "position", "completed", "client_timestamp", "created_at", "updated_at",
	}
	testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
)

func containerValues(c models.Container) []driver.Value {
	return []driver.Value{
		c.ID, c.UserID, c.ClientIdentifier, c.Title, c.Description,
		nil, c.Category, nil, c.CreatedAt, c.UpdatedAt,
	}
}

func itemValues(i models.Item) []driver.Value {
	return []driver.Value{
		i.ID, i.ContainerID, i.UserID, i.ClientIdentifier, i.Title, i.Notes, i.Category,
		int64(i.Quantity), int64(i.Position), i.Completed, nil, i.CreatedAt, i.UpdatedAt,
	}
}

func containerRows(cs ...models.Container) *sqlmock.Rows {
	rows := sqlmock.NewRows(containerCols)
	for _, c := range cs {
		rows.AddRow(containerValues(c)...)
	}
	return rows
}

func itemRows(is ...models.Item) *sqlmock.Rows {
	rows := sqlmock.NewRows(itemCols)
	for _, i := range is {
		rows.AddRow(itemValues(i)...)
	}
	return rows
}

func sampleContainer() models.Container {
	return models.Container{
		ID:               "c-1",
		UserID:           1,
		ClientIdentifier: "dev-1:op-1",
		Title:            "Packing",
		Category:         "travel",
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
}

func sampleItem() models.Item {
	return models.Item{
		ID:               "i-1",
		ContainerID:      "c-1",
		UserID:           1,
		ClientIdentifier: "dev-1:op-2",
		Title:            "Socks",
		Quantity:         2,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
}

// ── CreateContainer ───────────────────────────────────────────────────────────

func TestCreateContainer(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		c := sampleContainer()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklists AS c")).
			WithArgs(c.ID, c.UserID, c.ClientIdentifier, c.Title, c.Description, c.TripID, c.Category, c.ClientTimestamp, c.CreatedAt, c.UpdatedAt).
			WillReturnRows(containerRows(c))
		mock.ExpectCommit()

		stored, created, err := repo.CreateContainer(testContext(), c)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, c.ID, stored.ID)
		assert.Equal(t, c.ClientIdentifier, stored.ClientIdentifier)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already applied returns existing record", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		c := sampleContainer()
		existing := c
		existing.ID = "c-original"

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklists AS c")).
			WillReturnRows(sqlmock.NewRows(containerCols))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE c.user_id = $1 AND c.client_identifier = $2")).
			WithArgs(c.UserID, c.ClientIdentifier).
			WillReturnRows(containerRows(existing))
		mock.ExpectCommit()

		stored, created, err := repo.CreateContainer(testContext(), c)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "c-original", stored.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklists AS c")).
			WillReturnError(pgError(pgerrcode.NotNullViolation))
		mock.ExpectRollback()

		_, _, err := repo.CreateContainer(testContext(), sampleContainer())
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("cannot begin"))

		_, _, err := repo.CreateContainer(testContext(), sampleContainer())
		assert.ErrorIs(t, err, ErrBeginningTransaction)
	})
}

// ── CreateItem ────────────────────────────────────────────────────────────────

func TestCreateItem(t *testing.T) {
	ref := models.NewEntityRef("dev-1", "op-1")

	t.Run("inserted into resolved container", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		item := sampleItem()
		item.ContainerID = ""

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR KEY SHARE")).
			WithArgs("op-1", int64(1), "dev-1:op-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklist_items AS i")).
			WithArgs(item.ID, "c-1", item.UserID, item.ClientIdentifier, item.Title, item.Notes, item.Category,
				item.Quantity, item.Position, item.Completed, item.ClientTimestamp, item.CreatedAt, item.UpdatedAt).
			WillReturnRows(itemRows(sampleItem()))
		mock.ExpectCommit()

		stored, created, err := repo.CreateItem(testContext(), 1, ref, item)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "c-1", stored.ContainerID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already applied", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		item := sampleItem()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR KEY SHARE")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklist_items AS i")).
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE i.checklist_id = $1 AND i.client_identifier = $2")).
			WithArgs("c-1", item.ClientIdentifier).
			WillReturnRows(itemRows(item))
		mock.ExpectCommit()

		_, created, err := repo.CreateItem(testContext(), 1, ref, item)
		require.NoError(t, err)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("container not accessible", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR KEY SHARE")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, _, err := repo.CreateItem(testContext(), 1, ref, sampleItem())
		assert.ErrorIs(t, err, ErrContainerNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("container deleted concurrently", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR KEY SHARE")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checklist_items AS i")).
			WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
		mock.ExpectRollback()

		_, _, err := repo.CreateItem(testContext(), 1, ref, sampleItem())
		assert.ErrorIs(t, err, ErrContainerNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// ── UpdateContainer / UpdateItem ──────────────────────────────────────────────

func TestUpdateContainer(t *testing.T) {
	ref := models.EntityRef{ID: "c-1", ClientIdentifier: "dev-1:c-1"}

	t.Run("writes mutated record", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		current := sampleContainer()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs("c-1", int64(1), "dev-1:c-1").
			WillReturnRows(containerRows(current))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE checklists SET")).
			WithArgs("travel", "", "Renamed", nil, testNow.Add(time.Hour), "c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := repo.UpdateContainer(testContext(), 1, ref, func(c models.Container) (models.Container, bool, error) {
			c.Title = "Renamed"
			c.UpdatedAt = testNow.Add(time.Hour)
			return c, true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mutation error aborts and returns current", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		sentinel := errors.New("stale")

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(containerRows(sampleContainer()))
		mock.ExpectRollback()

		current, err := repo.UpdateContainer(testContext(), 1, ref, func(c models.Container) (models.Container, bool, error) {
			return c, false, sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, "Packing", current.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(sqlmock.NewRows(containerCols))
		mock.ExpectRollback()

		_, err := repo.UpdateContainer(testContext(), 1, ref, func(c models.Container) (models.Container, bool, error) {
			t.Fatal("mutation must not run")
			return c, false, nil
		})
		assert.ErrorIs(t, err, ErrContainerNotFound)
	})

	t.Run("serialization failure is retried", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnError(pgError(pgerrcode.SerializationFailure))
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(containerRows(sampleContainer()))
		mock.ExpectCommit()

		_, err := repo.UpdateContainer(testContext(), 1, ref, func(c models.Container) (models.Container, bool, error) {
			return c, false, nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateItem(t *testing.T) {
	ref := models.EntityRef{ID: "i-1", ClientIdentifier: "dev-1:i-1"}

	t.Run("no write keeps row untouched", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		current := sampleItem()
		current.Completed = true

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF i")).
			WithArgs("i-1", int64(1), "dev-1:i-1").
			WillReturnRows(itemRows(current))
		mock.ExpectCommit()

		got, err := repo.UpdateItem(testContext(), 1, ref, func(i models.Item) (models.Item, bool, error) {
			return i, false, nil
		})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("writes mutated record", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF i")).
			WillReturnRows(itemRows(sampleItem()))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE checklist_items SET")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := repo.UpdateItem(testContext(), 1, ref, func(i models.Item) (models.Item, bool, error) {
			i.Notes = "wool"
			return i, true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "wool", got.Notes)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF i")).
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectRollback()

		_, err := repo.UpdateItem(testContext(), 1, ref, func(i models.Item) (models.Item, bool, error) {
			return i, true, nil
		})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

// ── DeleteContainer / DeleteItem ──────────────────────────────────────────────

func TestDeleteContainer(t *testing.T) {
	ref := models.EntityRef{ID: "c-1", ClientIdentifier: "dev-1:c-1"}

	t.Run("tombstones container and items for every user", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(containerRows(sampleContainer()))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.user_id FROM checklists c WHERE c.id = $1")).
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)).AddRow(int64(2)))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM checklist_items WHERE checklist_id = $1")).
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i-1"))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_tombstones")).
			WithArgs(
				int64(1), "container", "c-1", "c-1", testNow,
				int64(1), "item", "i-1", "c-1", testNow,
				int64(2), "container", "c-1", "c-1", testNow,
				int64(2), "item", "i-1", "c-1", testNow,
			).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checklists WHERE id = $1")).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.DeleteContainer(testContext(), 1, ref, testNow)
		require.NoError(t, err)
		assert.True(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing container is a no-op", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(sqlmock.NewRows(containerCols))
		mock.ExpectCommit()

		deleted, err := repo.DeleteContainer(testContext(), 1, ref, testNow)
		require.NoError(t, err)
		assert.False(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteItem(t *testing.T) {
	ref := models.EntityRef{ID: "i-1", ClientIdentifier: "dev-1:i-1"}

	t.Run("tombstones item", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF i")).
			WillReturnRows(itemRows(sampleItem()))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.user_id FROM checklists c WHERE c.id = $1")).
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_tombstones")).
			WithArgs(int64(1), "item", "i-1", "c-1", testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checklist_items WHERE id = $1")).
			WithArgs("i-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.DeleteItem(testContext(), 1, ref, testNow)
		require.NoError(t, err)
		assert.True(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete error rolls back", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF i")).
			WillReturnRows(itemRows(sampleItem()))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.user_id")).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_tombstones")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checklist_items")).
			WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		deleted, err := repo.DeleteItem(testContext(), 1, ref, testNow)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.False(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// ── ChangesSince ──────────────────────────────────────────────────────────────

func TestChangesSince(t *testing.T) {
	since := testNow.Add(-time.Hour)

	t.Run("groups items under their containers", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)
		c1 := sampleContainer()
		c2 := sampleContainer()
		c2.ID = "c-2"
		i1 := sampleItem()
		i2 := sampleItem()
		i2.ID = "i-2"

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM checklists c")).
			WillReturnRows(containerRows(c1, c2))
		mock.ExpectQuery(regexp.QuoteMeta("FROM checklist_items i WHERE i.checklist_id IN ($1,$2)")).
			WithArgs("c-1", "c-2").
			WillReturnRows(itemRows(i1, i2))
		mock.ExpectQuery(regexp.QuoteMeta("FROM sync_tombstones t")).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "entity_type", "entity_id", "container_id", "deleted_at"}).
				AddRow(int64(1), "item", "i-9", "c-1", testNow))
		mock.ExpectCommit()

		containers, tombstones, err := repo.ChangesSince(testContext(), 1, since, nil)
		require.NoError(t, err)
		require.Len(t, containers, 2)
		assert.Len(t, containers[0].Items, 2)
		assert.Empty(t, containers[1].Items)
		assert.NotNil(t, containers[1].Items)
		require.Len(t, tombstones, 1)
		assert.Equal(t, models.EntityItem, tombstones[0].EntityType)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no containers skips item query", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM checklists c")).
			WillReturnRows(sqlmock.NewRows(containerCols))
		mock.ExpectQuery(regexp.QuoteMeta("FROM sync_tombstones t")).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "entity_type", "entity_id", "container_id", "deleted_at"}))
		mock.ExpectCommit()

		containers, tombstones, err := repo.ChangesSince(testContext(), 1, since, nil)
		require.NoError(t, err)
		assert.Empty(t, containers)
		assert.Empty(t, tombstones)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM checklists c")).
			WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		_, _, err := repo.ChangesSince(testContext(), 1, since, nil)
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

// ── ShareContainer ────────────────────────────────────────────────────────────

func TestShareContainer(t *testing.T) {
	userCols := []string{"user_id", "login", "password_hash", "created_at"}

	t.Run("shares with another user", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id FROM checklists c WHERE c.id = $1 AND c.user_id = $2")).
			WithArgs("c-1", int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(2), "bob", "hash", testNow))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checklist_shares")).
			WithArgs("c-1", int64(2), testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		share, err := repo.ShareContainer(testContext(), 1, "c-1", "bob", testNow)
		require.NoError(t, err)
		assert.Equal(t, models.Share{ContainerID: "c-1", UserID: 2, Login: "bob", CreatedAt: testNow}, share)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not owner", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id FROM checklists c")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := repo.ShareContainer(testContext(), 1, "c-1", "bob", testNow)
		assert.ErrorIs(t, err, ErrContainerNotFound)
	})

	t.Run("unknown login", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id FROM checklists c")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WillReturnRows(sqlmock.NewRows(userCols))
		mock.ExpectRollback()

		_, err := repo.ShareContainer(testContext(), 1, "c-1", "bob", testNow)
		assert.ErrorIs(t, err, ErrNoUserWasFound)
	})

	t.Run("owner cannot share with self", func(t *testing.T) {
		repo, mock := newTestChecklistRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id FROM checklists c")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "hash", testNow))
		mock.ExpectRollback()

		_, err := repo.ShareContainer(testContext(), 1, "c-1", "alice", testNow)
		assert.ErrorIs(t, err, ErrShareWithOwner)
	})
}
