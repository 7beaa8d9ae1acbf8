package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

// parseFlags parses configuration flags from args.
//
// Server flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key access token signing key
//	-token-issuer access token issuer name
//	-token-duration access token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-hash-key request integrity hash key
//	-version application version
//	-sync-token-sign-key sync token signing key
//	-sync-token-ttl sync token lifetime (e.g., "24h")
//	-max-batch-size maximum operations per sync batch
//
// Client flags:
//
//	-server sync server base URL
//	-adapter-timeout outbound request timeout
//	-device-id device identifier
//	-login account login
//	-password account password
//	-local-dsn local SQLite DSN
//	-sync-interval background sync interval
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("trip-sync", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "Request integrity hash key")
	fs.StringVar(&cfg.App.Version, "version", "", "Application version")
	fs.StringVar(&cfg.Sync.TokenSignKey, "sync-token-sign-key", "", "Sync token signing key")
	fs.DurationVar(&cfg.Sync.TokenTTL, "sync-token-ttl", 0, "Sync token lifetime (e.g., 24h)")
	fs.IntVar(&cfg.Sync.MaxBatchSize, "max-batch-size", 0, "Maximum operations per sync batch")
	fs.DurationVar(&cfg.Sync.DeltaOverlap, "delta-overlap", 0, "Delta pull overlap window (e.g., 30s)")

	fs.StringVar(&cfg.Adapter.HTTPAddress, "server", "", "Sync server base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "adapter-timeout", 0, "Outbound request timeout")
	fs.StringVar(&cfg.Client.DeviceID, "device-id", "", "Device identifier")
	fs.StringVar(&cfg.Client.Login, "login", "", "Account login")
	fs.StringVar(&cfg.Client.Password, "password", "", "Account password")
	fs.StringVar(&cfg.Storage.Local.DSN, "local-dsn", "", "Local SQLite DSN")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval")
	fs.IntVar(&cfg.Workers.PushBatchSize, "push-batch-size", 0, "Maximum outbox operations per push")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if cfg.Sync.MaxBatchSize < 0 {
		return nil, fmt.Errorf("%w: negative max batch size", ErrInvalidSyncConfigs)
	}
	if cfg.Workers.PushBatchSize < 0 {
		return nil, fmt.Errorf("%w: negative push batch size", ErrInvalidWorkerConfigs)
	}
	if cfg.Sync.DeltaOverlap < 0 {
		return nil, fmt.Errorf("%w: negative delta overlap", ErrInvalidSyncConfigs)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// An unset address yields an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
