package models

import "time"

// OutboxEntry is an operation recorded on the device and not yet
// acknowledged by the server.
type OutboxEntry struct {
	Operation Operation `json:"operation"`

	// Attempts counts pushes that reported the operation as failed.
	Attempts int `json:"attempts"`

	// LastError is the message returned by the server for the last failed push.
	LastError string `json:"last_error,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// LocalConflict is a conflict received by the device and awaiting a decision.
type LocalConflict struct {
	ID         int64     `json:"id"`
	Conflict   Conflict  `json:"conflict"`
	ReceivedAt time.Time `json:"received_at"`
}
