// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Either an access JWT or a sync token.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account. On success the returned access token is
	// stored via SetToken.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates with login and password. On success the returned
	// access token is stored via SetToken.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// IssueSyncToken requests a sync token for deviceID. The current bearer
	// token must be an access token. The adapter token is left unchanged.
	IssueSyncToken(ctx context.Context, deviceID string) (models.SyncToken, error)

	// SyncBatch submits ops as one batch and returns the per-operation outcome.
	SyncBatch(ctx context.Context, ops []models.Operation) (models.SyncResult, error)

	// ResolveConflict submits the decision for a conflict.
	ResolveConflict(ctx context.Context, req models.ResolveRequest) error

	// ChangesSince pulls the delta after since. An empty scopeIDs asks for
	// every visible checklist.
	ChangesSince(ctx context.Context, since time.Time, scopeIDs []string) (models.DeltaResult, error)

	// ShareChecklist grants the user with login access to checklistID.
	ShareChecklist(ctx context.Context, checklistID, login string) (models.Share, error)
}
