// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "testhashkey"

// newTestAdapter создаёт httpServerAdapter, направленный на тестовый сервер
func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL}
	appCfg := config.ClientApp{HashKey: testHashKey}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func accessToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("trip-sync", userID, time.Hour, "sign-key")
	require.NoError(t, err)
	return token.SignedString
}

func testOperation() models.Operation {
	title := "Packing"
	return models.Operation{
		ID:         "op-1",
		Kind:       models.OperationCreate,
		EntityType: models.EntityContainer,
		Payload:    &models.ContainerFields{Title: &title},
		Timestamp:  time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		ClientID:   "phone",
	}
}

// ── NewHTTPServerAdapter ─────────────────────────────────────────────────────

func TestNewHTTPServerAdapter_Address(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "full url", address: "http://localhost:8080"},
		{name: "host without scheme", address: "localhost:8080"},
		{name: "trailing slash", address: "http://localhost:8080/"},
		{name: "empty", address: "", wantErr: true},
		{name: "spaces only", address: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: tt.address}, config.ClientApp{}, logger.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ── Register / Login ─────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	token := accessToken(t, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/register", r.URL.Path)

		var body models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.Login)
		assert.Equal(t, "secret", body.Password)

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Register(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, token, a.Token())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("login already exists"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, a.Token())
}

func TestLogin_Success(t *testing.T) {
	token := accessToken(t, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, token, got.SignedString)
	assert.Equal(t, token, a.Token())
}

func TestLogin_MissingAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	assert.Error(t, err)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid login/password"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Sync token ───────────────────────────────────────────────────────────────

func TestIssueSyncToken_Success(t *testing.T) {
	expires := time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/token", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		var body models.SyncTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "phone", body.DeviceID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.SyncToken{Token: "sync", ExpiresAt: expires})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("access")

	got, err := a.IssueSyncToken(context.Background(), "phone")
	require.NoError(t, err)
	assert.Equal(t, "sync", got.Token)
	assert.True(t, got.ExpiresAt.Equal(expires))
	assert.Equal(t, "access", a.Token(), "adapter token is not replaced")
}

// ── SyncBatch ────────────────────────────────────────────────────────────────

func TestSyncBatch_SendsHashAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync/batch", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		utils.InitHasherPool(testHashKey)
		assert.Equal(t, hex.EncodeToString(utils.Hash(body)), r.Header.Get(hashHeader))

		var batch models.BatchRequest
		require.NoError(t, json.Unmarshal(body, &batch))
		require.Len(t, batch.Operations, 1)
		fields, ok := batch.Operations[0].ContainerPayload()
		require.True(t, ok)
		assert.Equal(t, "Packing", *fields.Title)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"synced":["op-1"],"conflicts":[],"errors":[]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("sync")

	result, err := a.SyncBatch(context.Background(), []models.Operation{testOperation()})
	require.NoError(t, err)
	assert.Equal(t, []string{"op-1"}, result.Synced)
	assert.Empty(t, result.Conflicts)
}

func TestSyncBatch_NoHashWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(hashHeader))
		_, _ = w.Write([]byte(`{"synced":[],"conflicts":[],"errors":[]}`))
	}))
	defer srv.Close()

	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: srv.URL}, config.ClientApp{}, logger.Nop())
	require.NoError(t, err)

	_, err = a.SyncBatch(context.Background(), nil)
	require.NoError(t, err)
}

func TestSyncBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "validation", status: http.StatusBadRequest, body: "validation failed", wantErr: ErrBadRequest},
		{name: "expired token", status: http.StatusUnauthorized, body: "sync token is invalid or expired", wantErr: ErrUnauthorized},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, wantErr: ErrUnavailable},
		{name: "internal", status: http.StatusInternalServerError, body: "internal server error", wantErr: ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := newTestAdapter(t, srv.URL)
			_, err := a.SyncBatch(context.Background(), []models.Operation{testOperation()})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSyncBatch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"synced":`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.SyncBatch(context.Background(), []models.Operation{testOperation()})
	assert.Error(t, err)
}

// ── ResolveConflict ──────────────────────────────────────────────────────────

func TestResolveConflict_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/conflicts/resolve", r.URL.Path)

		var req models.ResolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.ResolutionMerge, req.Resolution)
		fields, ok := req.MergedPayload.(*models.ContainerFields)
		require.True(t, ok)
		assert.Equal(t, "Merged", *fields.Title)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	op := testOperation()
	op.Kind = models.OperationUpdate
	op.EntityID = "c-1"
	merged := "Merged"

	a := newTestAdapter(t, srv.URL)
	err := a.ResolveConflict(context.Background(), models.ResolveRequest{
		Conflict:      models.Conflict{Operation: op},
		Resolution:    models.ResolutionMerge,
		MergedPayload: &models.ContainerFields{Title: &merged},
	})
	require.NoError(t, err)
}

func TestResolveConflict_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("merged payload is required for merge resolution"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.ResolveConflict(context.Background(), models.ResolveRequest{Resolution: models.ResolutionMerge})
	assert.ErrorIs(t, err, ErrBadRequest)
}

// ── ChangesSince ─────────────────────────────────────────────────────────────

func TestChangesSince_QueryAndDecode(t *testing.T) {
	since := time.Date(2026, 6, 1, 12, 0, 0, 500, time.UTC)
	serverTime := since.Add(time.Minute)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sync/changes", r.URL.Path)
		assert.Equal(t, since.Format(time.RFC3339Nano), r.URL.Query().Get("since"))
		assert.Equal(t, "c-1,c-2", r.URL.Query().Get("scope"))

		_ = json.NewEncoder(w).Encode(models.DeltaResult{
			Containers:          []models.ContainerWithItems{{Container: models.Container{ID: "c-1", Title: "Packing"}}},
			DeletedContainerIDs: []string{},
			DeletedItemIDs:      []string{"i-9"},
			ServerTime:          serverTime,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	delta, err := a.ChangesSince(context.Background(), since, []string{"c-1", "c-2"})
	require.NoError(t, err)
	require.Len(t, delta.Containers, 1)
	assert.Equal(t, "Packing", delta.Containers[0].Title)
	assert.Equal(t, []string{"i-9"}, delta.DeletedItemIDs)
	assert.True(t, delta.ServerTime.Equal(serverTime))
}

func TestChangesSince_NoScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["scope"]
		assert.False(t, ok)
		_, _ = w.Write([]byte(`{"containers":[],"deleted_container_ids":[],"deleted_item_ids":[],"server_time":"2026-06-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ChangesSince(context.Background(), time.Time{}, nil)
	require.NoError(t, err)
}

// ── ShareChecklist ───────────────────────────────────────────────────────────

func TestShareChecklist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checklists/c-1/shares", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"checklist_id":"c-1","login":"bob","created_at":"2026-06-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	share, err := a.ShareChecklist(context.Background(), "c-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "c-1", share.ContainerID)
	assert.Equal(t, "bob", share.Login)
}

func TestShareChecklist_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("checklist was not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ShareChecklist(context.Background(), "c-1", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}
