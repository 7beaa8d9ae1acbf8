package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validServerConfig() *StructuredConfig {
	return &StructuredConfig{
		App:     App{TokenSignKey: "k", TokenIssuer: "iss", TokenDuration: time.Hour},
		Sync:    Sync{TokenSignKey: "sk", TokenTTL: 24 * time.Hour, MaxBatchSize: 500},
		Storage: Storage{DB: DB{DSN: "postgres://db"}},
		Server:  Server{HTTPAddress: "localhost:8080", RequestTimeout: time.Second},
	}
}

func TestStructuredConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(cfg *StructuredConfig) {}},
		{name: "no token key", mutate: func(cfg *StructuredConfig) { cfg.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "no sync key", mutate: func(cfg *StructuredConfig) { cfg.Sync.TokenSignKey = "" }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero batch", mutate: func(cfg *StructuredConfig) { cfg.Sync.MaxBatchSize = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "negative overlap", mutate: func(cfg *StructuredConfig) { cfg.Sync.DeltaOverlap = -time.Second }, wantErr: ErrInvalidSyncConfigs},
		{name: "no dsn", mutate: func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no address", mutate: func(cfg *StructuredConfig) { cfg.Server.HTTPAddress = "" }, wantErr: ErrInvalidServerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServerConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		cfg := &StructuredConfig{
			Adapter: Adapter{HTTPAddress: "http://localhost:8080", RequestTimeout: time.Second},
			Storage: Storage{Local: Local{DSN: "file:device.db"}},
			Workers: Workers{SyncInterval: time.Minute, PushBatchSize: 100},
			Client:  Client{DeviceID: "phone", Login: "alice", Password: "pw"},
		}
		return newClientConfig(cfg)
	}

	tests := []struct {
		name    string
		mutate  func(cfg *ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(cfg *ClientConfig) {}},
		{name: "memory dsn", mutate: func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "file::memory:" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no server", mutate: func(cfg *ClientConfig) { cfg.Adapter.HTTPAddress = "" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "no interval", mutate: func(cfg *ClientConfig) { cfg.Workers.SyncInterval = 0 }, wantErr: ErrInvalidWorkerConfigs},
		{name: "no push batch size", mutate: func(cfg *ClientConfig) { cfg.Workers.PushBatchSize = 0 }, wantErr: ErrInvalidWorkerConfigs},
		{name: "no device", mutate: func(cfg *ClientConfig) { cfg.Device.DeviceID = "" }, wantErr: ErrInvalidClientConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
