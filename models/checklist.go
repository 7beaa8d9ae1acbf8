package models

import "time"

// Container is a checklist: a packing or to-do list, optionally bound to a trip.
type Container struct {
	// ID is the server-assigned primary identifier (UUIDv7).
	ID string `json:"id"`

	// UserID is the owner of the checklist.
	UserID int64 `json:"user_id"`

	// ClientIdentifier is clientId + ":" + operationId of the create that
	// produced the record. Used only for idempotent-create matching.
	ClientIdentifier string `json:"client_identifier,omitempty"`

	Title       string  `json:"title"`
	Description string  `json:"description"`
	TripID      *string `json:"trip_id,omitempty"`
	Category    string  `json:"category"`

	// ClientTimestamp preserves the offline timestamp of the create for audit.
	ClientTimestamp *time.Time `json:"client_timestamp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table associated with Container.
func (c Container) TableName() string {
	return "checklists"
}

// Apply copies every field set in f onto c.
func (c *Container) Apply(f ContainerFields) {
	if f.Title != nil {
		c.Title = *f.Title
	}
	if f.Description != nil {
		c.Description = *f.Description
	}
	if f.TripID != nil {
		tripID := *f.TripID
		c.TripID = &tripID
	}
	if f.Category != nil {
		c.Category = *f.Category
	}
}

// Item is a single checklist entry. It references its container by id and
// holds no back-pointer.
type Item struct {
	ID          string `json:"id"`
	ContainerID string `json:"container_id"`

	// UserID is the user who created the item. Access is governed by the
	// container, not by this field.
	UserID int64 `json:"user_id"`

	ClientIdentifier string `json:"client_identifier,omitempty"`

	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`

	ClientTimestamp *time.Time `json:"client_timestamp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table associated with Item.
func (i Item) TableName() string {
	return "checklist_items"
}

// Apply copies every field set in f onto i. ContainerID is never changed.
func (i *Item) Apply(f ItemFields) {
	if f.Title != nil {
		i.Title = *f.Title
	}
	if f.Notes != nil {
		i.Notes = *f.Notes
	}
	if f.Category != nil {
		i.Category = *f.Category
	}
	if f.Quantity != nil {
		i.Quantity = *f.Quantity
	}
	if f.Position != nil {
		i.Position = *f.Position
	}
	if f.Completed != nil {
		i.Completed = *f.Completed
	}
}

// ContainerWithItems is a checklist with all of its current items, the unit
// returned by delta pulls.
type ContainerWithItems struct {
	Container
	Items []Item `json:"items"`
}

// Tombstone records the deletion of a container or an item as seen by one user.
type Tombstone struct {
	UserID      int64      `json:"user_id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	ContainerID string     `json:"container_id"`
	DeletedAt   time.Time  `json:"deleted_at"`
}
