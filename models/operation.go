// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OperationKind names the mutation an [Operation] performs.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is one of the known operation kinds.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// EntityType names the kind of record an [Operation] targets.
type EntityType string

const (
	// EntityContainer is a checklist.
	EntityContainer EntityType = "container"
	// EntityItem is a single entry of a checklist.
	EntityItem EntityType = "item"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	return t == EntityContainer || t == EntityItem
}

var (
	// ErrUnknownEntityType is returned when a payload is decoded for an
	// entity type that has no payload variant.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrMalformedPayload is returned when the payload object does not match
	// the variant selected by the entity type.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Operation is a single client-side mutation recorded while the device
// was possibly offline. Operations are immutable once submitted.
type Operation struct {
	// ID is generated by the client and is unique per originating mutation.
	ID string `json:"id"`

	Kind       OperationKind `json:"kind"`
	EntityType EntityType    `json:"entity_type"`

	// EntityID is either a server id or the id of the create operation that
	// produced the entity on the same device. Empty for creates.
	EntityID string `json:"entity_id,omitempty"`

	// Payload is nil for deletes. Its concrete type always matches EntityType:
	// *ContainerFields for containers and *ItemFields for items.
	Payload Payload `json:"payload,omitempty"`

	// Timestamp is the client wall clock at the moment of the mutation.
	Timestamp time.Time `json:"timestamp"`

	// ClientID identifies the device or session that produced the operation.
	ClientID string `json:"client_id"`
}

// ClientIdentifier returns the idempotency key stored on entities created
// by this operation.
func (o Operation) ClientIdentifier() string {
	return ClientIdentifier(o.ClientID, o.ID)
}

// ClientIdentifier joins a client id and an operation id into the key
// stored on entities for idempotent-create matching.
func ClientIdentifier(clientID, operationID string) string {
	return clientID + ":" + operationID
}

// EntityRef identifies the entity an update or delete targets.
func (o Operation) EntityRef() EntityRef {
	return NewEntityRef(o.ClientID, o.EntityID)
}

// EntityRef points at an entity by server id or, for entities created
// offline, by the client identifier of the create operation.
type EntityRef struct {
	ID               string `json:"id"`
	ClientIdentifier string `json:"client_identifier"`
}

// NewEntityRef builds a reference from a value that is either a server id
// or the id of a create operation issued by clientID.
func NewEntityRef(clientID, ref string) EntityRef {
	return EntityRef{ID: ref, ClientIdentifier: ClientIdentifier(clientID, ref)}
}

// ContainerPayload returns the container variant of the payload, if any.
func (o Operation) ContainerPayload() (*ContainerFields, bool) {
	p, ok := o.Payload.(*ContainerFields)
	return p, ok && p != nil
}

// ItemPayload returns the item variant of the payload, if any.
func (o Operation) ItemPayload() (*ItemFields, bool) {
	p, ok := o.Payload.(*ItemFields)
	return p, ok && p != nil
}

// UnmarshalJSON decodes an operation and selects the payload variant from
// entity_type. Unknown payload fields are rejected.
func (o *Operation) UnmarshalJSON(data []byte) error {
	type operationAlias Operation
	aux := struct {
		*operationAlias
		Payload json.RawMessage `json:"payload,omitempty"`
	}{operationAlias: (*operationAlias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	payload, err := DecodePayload(o.EntityType, aux.Payload)
	if err != nil {
		return err
	}
	o.Payload = payload

	return nil
}

// Payload is the tagged union of mutation field sets. It is implemented by
// *ContainerFields and *ItemFields only.
type Payload interface {
	PayloadEntityType() EntityType
}

// DecodePayload decodes raw into the payload variant for entityType.
// An empty or null raw message yields a nil payload.
func DecodePayload(entityType EntityType, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var target Payload
	switch entityType {
	case EntityContainer:
		target = &ContainerFields{}
	case EntityItem:
		target = &ItemFields{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return target, nil
}

// ContainerFields is the payload of container operations. Nil fields are
// left untouched on update.
type ContainerFields struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	TripID      *string `json:"trip_id,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// PayloadEntityType implements [Payload].
func (*ContainerFields) PayloadEntityType() EntityType { return EntityContainer }

// Empty reports whether no field is set.
func (f *ContainerFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.TripID == nil && f.Category == nil
}

// ItemFields is the payload of item operations. ContainerID is required on
// create and must be absent on update. Nil fields are left untouched on update.
type ItemFields struct {
	ContainerID *string `json:"container_id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Category    *string `json:"category,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// PayloadEntityType implements [Payload].
func (*ItemFields) PayloadEntityType() EntityType { return EntityItem }

// Empty reports whether no field is set.
func (f *ItemFields) Empty() bool {
	return f.ContainerID == nil && f.Title == nil && f.Notes == nil && f.Category == nil &&
		f.Quantity == nil && f.Position == nil && f.Completed == nil
}

// ConvergesOnCompletion reports whether f only marks item as completed
// while item is already completed and every other field f sets already
// holds the same value on item.
func (f *ItemFields) ConvergesOnCompletion(item Item) bool {
	if f.Completed == nil || !*f.Completed || !item.Completed {
		return false
	}

	return equalIfSet(f.ContainerID, item.ContainerID) &&
		equalIfSet(f.Title, item.Title) &&
		equalIfSet(f.Notes, item.Notes) &&
		equalIfSet(f.Category, item.Category) &&
		equalIfSet(f.Quantity, item.Quantity) &&
		equalIfSet(f.Position, item.Position)
}

func equalIfSet[T comparable](v *T, current T) bool {
	return v == nil || *v == current
}
