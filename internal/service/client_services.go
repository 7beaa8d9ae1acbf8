package service

import (
	"github.com/MKhiriev/go-trip-sync/internal/adapter"
	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
)

type ClientServices struct {
	AuthService ClientAuthService
	SyncService ClientSyncService
}

// NewClientServices wires the device side services.
//
// Parameters:
//   - storages: opened local SQLite storages of the device.
//   - serverAdapter: transport to the sync server; it keeps the sync token.
//   - cfg: client configuration; the device id and push batch size are used.
//   - logger: structured logger used for diagnostic output.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	return &ClientServices{
		AuthService: NewClientAuthService(serverAdapter, logger),
		SyncService: NewClientSyncService(storages.SyncRepository, serverAdapter, cfg.Device.DeviceID, cfg.Workers.PushBatchSize, logger),
	}
}
