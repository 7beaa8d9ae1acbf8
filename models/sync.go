package models

import (
	"encoding/json"
	"time"
)

// Resolution is the strategy chosen by the user for a [Conflict].
type Resolution string

const (
	// ResolutionClient keeps the client version and re-applies the operation.
	ResolutionClient Resolution = "client"
	// ResolutionServer keeps the server version; nothing is applied.
	ResolutionServer Resolution = "server"
	// ResolutionMerge applies a merged payload supplied by the user.
	ResolutionMerge Resolution = "merge"
)

// Valid reports whether r is a known resolution strategy.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionClient, ResolutionServer, ResolutionMerge:
		return true
	}
	return false
}

// EntityVersion is a persisted snapshot of exactly one entity.
type EntityVersion struct {
	Container *Container `json:"container,omitempty"`
	Item      *Item      `json:"item,omitempty"`
}

// Conflict is produced when an update carries a timestamp older than the
// last modification of the record on the server.
type Conflict struct {
	Operation     Operation     `json:"operation"`
	ServerVersion EntityVersion `json:"server_version"`
	Resolution    Resolution    `json:"resolution,omitempty"`
}

// OperationError pairs an operation with the reason it was not applied.
type OperationError struct {
	Operation Operation `json:"operation"`
	Error     string    `json:"error"`
}

// SyncResult aggregates the per-operation outcomes of one batch.
type SyncResult struct {
	// Synced lists ids of operations that were applied or already applied.
	Synced    []string         `json:"synced"`
	Conflicts []Conflict       `json:"conflicts"`
	Errors    []OperationError `json:"errors"`
}

// NewSyncResult returns a result with non-nil empty lists.
func NewSyncResult() SyncResult {
	return SyncResult{
		Synced:    []string{},
		Conflicts: []Conflict{},
		Errors:    []OperationError{},
	}
}

// DeltaResult is the answer to a changes-since pull.
type DeltaResult struct {
	Containers          []ContainerWithItems `json:"containers"`
	DeletedContainerIDs []string             `json:"deleted_container_ids"`
	DeletedItemIDs      []string             `json:"deleted_item_ids"`

	// ServerTime is the server clock when the delta was read. Clients pass
	// it back as since on the next pull.
	ServerTime time.Time `json:"server_time"`
}

// BatchRequest is the body of POST /api/sync/batch.
type BatchRequest struct {
	Operations []Operation `json:"operations"`
}

// ResolveRequest is the body of POST /api/sync/conflicts/resolve.
type ResolveRequest struct {
	Conflict   Conflict   `json:"conflict"`
	Resolution Resolution `json:"resolution"`

	// MergedPayload is required for [ResolutionMerge]. Its variant follows
	// the entity type of the conflicting operation.
	MergedPayload Payload `json:"merged_payload,omitempty"`
}

// UnmarshalJSON decodes the merged payload using the entity type of the
// conflicting operation.
func (r *ResolveRequest) UnmarshalJSON(data []byte) error {
	type resolveAlias ResolveRequest
	aux := struct {
		*resolveAlias
		MergedPayload json.RawMessage `json:"merged_payload,omitempty"`
	}{resolveAlias: (*resolveAlias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	payload, err := DecodePayload(r.Conflict.Operation.EntityType, aux.MergedPayload)
	if err != nil {
		return err
	}
	r.MergedPayload = payload

	return nil
}
