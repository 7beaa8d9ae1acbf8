package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/handler"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/server"
	"github.com/MKhiriev/go-trip-sync/internal/service"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	log := logger.NewLogger("trip-sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, storages.Health, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
