// Package server runs the sync engine's listeners. The HTTP API and the gRPC
// health endpoint share one lifecycle: both start together, and a failure
// of either or a termination signal shuts both down.
package server
