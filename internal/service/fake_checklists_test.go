package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/models"
)

// memChecklists is an in-memory ChecklistRepository. It keeps the contract
// of the PostgreSQL repository: idempotent creates keyed by the client
// identifier, mutation closures run under a lock, tombstones on delete.
type memChecklists struct {
	mu         sync.Mutex
	containers map[string]models.Container
	items      map[string]models.Item
	shares     map[string]map[int64]struct{}
	users      map[string]int64
	tombstones []models.Tombstone
}

func newMemChecklists() *memChecklists {
	return &memChecklists{
		containers: map[string]models.Container{},
		items:      map[string]models.Item{},
		shares:     map[string]map[int64]struct{}{},
		users:      map[string]int64{},
	}
}

func (m *memChecklists) canAccess(userID int64, c models.Container) bool {
	if c.UserID == userID {
		return true
	}
	_, ok := m.shares[c.ID][userID]
	return ok
}

// findContainer resolves ref like the repository does: a server id matches
// any accessible container, a client identifier only the caller's own.
// A server id match wins.
func (m *memChecklists) findContainer(userID int64, ref models.EntityRef) (models.Container, bool) {
	if c, ok := m.containers[ref.ID]; ok && m.canAccess(userID, c) {
		return c, true
	}
	for _, c := range m.containers {
		if c.UserID == userID && ref.ClientIdentifier != "" && c.ClientIdentifier == ref.ClientIdentifier {
			return c, true
		}
	}
	return models.Container{}, false
}

func (m *memChecklists) findItem(userID int64, ref models.EntityRef) (models.Item, bool) {
	accessible := func(i models.Item) bool {
		c, ok := m.containers[i.ContainerID]
		return ok && m.canAccess(userID, c)
	}

	if i, ok := m.items[ref.ID]; ok && accessible(i) {
		return i, true
	}
	for _, i := range m.items {
		if i.UserID == userID && ref.ClientIdentifier != "" && i.ClientIdentifier == ref.ClientIdentifier && accessible(i) {
			return i, true
		}
	}
	return models.Item{}, false
}

func (m *memChecklists) CreateContainer(_ context.Context, container models.Container) (models.Container, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.containers {
		if c.UserID == container.UserID && c.ClientIdentifier == container.ClientIdentifier {
			return c, false, nil
		}
	}
	m.containers[container.ID] = container
	return container, true, nil
}

func (m *memChecklists) CreateItem(_ context.Context, userID int64, containerRef models.EntityRef, item models.Item) (models.Item, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.findContainer(userID, containerRef)
	if !ok {
		return models.Item{}, false, store.ErrContainerNotFound
	}
	for _, i := range m.items {
		if i.ContainerID == c.ID && i.ClientIdentifier == item.ClientIdentifier {
			return i, false, nil
		}
	}
	item.ContainerID = c.ID
	m.items[item.ID] = item
	return item, true, nil
}

func (m *memChecklists) UpdateContainer(_ context.Context, userID int64, ref models.EntityRef, mutate store.ContainerMutation) (models.Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.findContainer(userID, ref)
	if !ok {
		return models.Container{}, store.ErrContainerNotFound
	}
	next, write, err := mutate(current)
	if err != nil {
		return current, err
	}
	if write {
		m.containers[next.ID] = next
	}
	return next, nil
}

func (m *memChecklists) UpdateItem(_ context.Context, userID int64, ref models.EntityRef, mutate store.ItemMutation) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.findItem(userID, ref)
	if !ok {
		return models.Item{}, store.ErrItemNotFound
	}
	next, write, err := mutate(current)
	if err != nil {
		return current, err
	}
	if write {
		m.items[next.ID] = next
		c := m.containers[next.ContainerID]
		c.UpdatedAt = next.UpdatedAt
		m.containers[c.ID] = c
	}
	return next, nil
}

func (m *memChecklists) DeleteContainer(_ context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.findContainer(userID, ref)
	if !ok {
		return false, nil
	}
	for id, i := range m.items {
		if i.ContainerID == c.ID {
			delete(m.items, id)
		}
	}
	delete(m.containers, c.ID)
	m.tombstones = append(m.tombstones, models.Tombstone{
		UserID: c.UserID, EntityType: models.EntityContainer, EntityID: c.ID, ContainerID: c.ID, DeletedAt: deletedAt,
	})
	return true, nil
}

func (m *memChecklists) DeleteItem(_ context.Context, userID int64, ref models.EntityRef, deletedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.findItem(userID, ref)
	if !ok {
		return false, nil
	}
	delete(m.items, i.ID)
	m.tombstones = append(m.tombstones, models.Tombstone{
		UserID: userID, EntityType: models.EntityItem, EntityID: i.ID, ContainerID: i.ContainerID, DeletedAt: deletedAt,
	})
	return true, nil
}

func (m *memChecklists) ChangesSince(_ context.Context, userID int64, since time.Time, scopeIDs []string) ([]models.ContainerWithItems, []models.Tombstone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inScope := func(id string) bool {
		if len(scopeIDs) == 0 {
			return true
		}
		for _, s := range scopeIDs {
			if s == id {
				return true
			}
		}
		return false
	}

	var out []models.ContainerWithItems
	for _, c := range m.containers {
		if !m.canAccess(userID, c) || !c.UpdatedAt.After(since) || !inScope(c.ID) {
			continue
		}
		cw := models.ContainerWithItems{Container: c, Items: []models.Item{}}
		for _, i := range m.items {
			if i.ContainerID == c.ID {
				cw.Items = append(cw.Items, i)
			}
		}
		out = append(out, cw)
	}

	var tombstones []models.Tombstone
	for _, t := range m.tombstones {
		if t.DeletedAt.After(since) && inScope(t.ContainerID) {
			tombstones = append(tombstones, t)
		}
	}
	return out, tombstones, nil
}

func (m *memChecklists) ShareContainer(_ context.Context, ownerID int64, containerID, login string, sharedAt time.Time) (models.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.containers[containerID]
	if !ok || c.UserID != ownerID {
		return models.Share{}, store.ErrContainerNotFound
	}
	userID, ok := m.users[login]
	if !ok {
		return models.Share{}, store.ErrNoUserWasFound
	}
	if userID == ownerID {
		return models.Share{}, store.ErrShareWithOwner
	}
	if m.shares[containerID] == nil {
		m.shares[containerID] = map[int64]struct{}{}
	}
	m.shares[containerID][userID] = struct{}{}
	return models.Share{ContainerID: containerID, UserID: userID, Login: login, CreatedAt: sharedAt}, nil
}

// containerCount returns the number of stored containers.
func (m *memChecklists) containerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}

func (m *memChecklists) container(id string) models.Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containers[id]
}

func (m *memChecklists) item(id string) models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

func (m *memChecklists) put(c models.Container, items ...models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers[c.ID] = c
	for _, i := range items {
		m.items[i.ID] = i
	}
}

// seqIDs hands out predictable ids: id-1, id-2, ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

// fixedClock is a settable clock for tests.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
