// Package workers provides the background workers of the client agent and
// an aggregate that runs several of them together.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is done or the worker can no longer continue.
type Worker interface {
	Run(ctx context.Context) error
}

// ReauthFunc obtains fresh credentials after the server rejected the
// current ones.
type ReauthFunc func(ctx context.Context) error
