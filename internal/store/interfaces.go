package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// ContainerMutation decides under the row lock what an update writes.
// It receives the locked record and returns the record to persist; write
// false leaves the row untouched. A non-nil error aborts the transaction and
// is returned unchanged by the repository.
type ContainerMutation func(current models.Container) (next models.Container, write bool, err error)

// ItemMutation is the item counterpart of [ContainerMutation].
type ItemMutation func(current models.Item) (next models.Item, write bool, err error)

// ChecklistRepository is the persistence boundary of the sync engine.
//
// Every lookup is scoped to entities the user owns or that are shared with
// them. An [models.EntityRef] matches either the server id or the client
// identifier of the create that produced the entity.
type ChecklistRepository interface {
	// CreateContainer inserts container unless one with the same owner and
	// client identifier exists. It returns the stored record and whether it
	// was created by this call.
	CreateContainer(ctx context.Context, container models.Container) (models.Container, bool, error)

	// CreateItem inserts item into the container referenced by containerRef
	// unless that container already holds an item with the same client
	// identifier. Returns ErrContainerNotFound when the container is not
	// accessible to userID.
	CreateItem(ctx context.Context, userID int64, containerRef models.EntityRef, item models.Item) (models.Item, bool, error)

	// UpdateContainer locks the referenced container and applies mutate.
	// Returns ErrContainerNotFound when nothing matches.
	UpdateContainer(ctx context.Context, userID int64, ref models.EntityRef, mutate ContainerMutation) (models.Container, error)

	// UpdateItem locks the referenced item and applies mutate.
	// Returns ErrItemNotFound when nothing matches.
	UpdateItem(ctx context.Context, userID int64, ref models.EntityRef, mutate ItemMutation) (models.Item, error)

	// DeleteContainer removes the referenced container with its items and
	// records tombstones for every user with access. Reports false when
	// nothing matched.
	DeleteContainer(ctx context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error)

	// DeleteItem removes the referenced item and records tombstones for
	// every user with access to its container. Reports false when nothing matched.
	DeleteItem(ctx context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error)

	// ChangesSince returns the accessible containers changed after since,
	// each with all of its items, and the tombstones recorded after since.
	// A non-empty scopeIDs restricts both to those container ids.
	ChangesSince(ctx context.Context, userID int64, since time.Time, scopeIDs []string) ([]models.ContainerWithItems, []models.Tombstone, error)

	// ShareContainer grants the user with login access to a container owned
	// by ownerID.
	ShareContainer(ctx context.Context, ownerID int64, containerID, login string, sharedAt time.Time) (models.Share, error)
}

// HealthChecker reports database liveness.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
