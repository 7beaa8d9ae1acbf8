package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/service"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SyncServiceName is the service name reported by the health service next
// to the overall ("") status.
const SyncServiceName = "tripsync.v1.Sync"

// DefaultHealthCheckInterval is how often the database is pinged.
const DefaultHealthCheckInterval = 10 * time.Second

// Handler is the root gRPC transport handler.
//
// It exposes grpc.health.v1.Health and keeps its status in line with the
// database: SERVING while the ping succeeds, NOT_SERVING otherwise.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	database      store.HealthChecker
	healthServer  *health.Server
	checkInterval time.Duration

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. The health status starts as
// NOT_SERVING until the first successful ping.
func NewHandler(services *service.Services, database store.HealthChecker, logger *logger.Logger) *Handler {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(SyncServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services:      services,
		database:      database,
		healthServer:  healthServer,
		checkInterval: DefaultHealthCheckInterval,
		logger:        logger,
	}
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.healthServer)
}

// WatchHealth pings the database every check interval and updates the
// health status until ctx is done. It always returns nil.
func (h *Handler) WatchHealth(ctx context.Context) error {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		h.CheckHealth(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// CheckHealth pings the database once and publishes the result.
func (h *Handler) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if h.database == nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	} else if err := h.database.PingContext(ctx); err != nil {
		h.logger.Warn().Err(err).Str("func", "*Handler.CheckHealth").Msg("database ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.healthServer.SetServingStatus("", status)
	h.healthServer.SetServingStatus(SyncServiceName, status)
	return status
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.healthServer.Shutdown()
}
