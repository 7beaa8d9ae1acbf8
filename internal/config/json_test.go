package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRawJSON(t *testing.T, content string) string {
	t.Helper()
	path := t.TempDir() + "/config.json"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_Success(t *testing.T) {
	path := writeRawJSON(t, `{
		"app": {"token_sign_key": "k", "token_issuer": "iss", "token_duration": "1h", "version": "2.0.0"},
		"sync": {"token_sign_key": "sk", "token_ttl": "24h", "max_batch_size": 50, "delta_overlap": "45s"},
		"storage": {"db": {"dsn": "postgres://json"}, "local": {"dsn": "file:local.db"}},
		"server": {"http_address": "localhost:8080", "grpc_address": "localhost:9090", "request_timeout": 30000000000},
		"adapter": {"http_address": "http://localhost:8080", "request_timeout": "5s"},
		"client": {"device_id": "phone", "login": "bob", "password": "pw"},
		"workers": {"sync_interval": "1m", "push_batch_size": 200}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.App.TokenSignKey)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "sk", cfg.Sync.TokenSignKey)
	assert.Equal(t, 24*time.Hour, cfg.Sync.TokenTTL)
	assert.Equal(t, 50, cfg.Sync.MaxBatchSize)
	assert.Equal(t, 45*time.Second, cfg.Sync.DeltaOverlap)
	assert.Equal(t, "postgres://json", cfg.Storage.DB.DSN)
	assert.Equal(t, "file:local.db", cfg.Storage.Local.DSN)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "phone", cfg.Client.DeviceID)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 200, cfg.Workers.PushBatchSize)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "file not found", path: func(t *testing.T) string { return "/nonexistent/config.json" }},
		{name: "invalid json", path: func(t *testing.T) string { return writeRawJSON(t, "{") }},
		{name: "invalid duration", path: func(t *testing.T) string {
			return writeRawJSON(t, `{"sync": {"token_ttl": "a day"}}`)
		}},
		{name: "duration of wrong type", path: func(t *testing.T) string {
			return writeRawJSON(t, `{"sync": {"token_ttl": true}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseJSON(tt.path(t))
			assert.Error(t, err)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(data))
}
