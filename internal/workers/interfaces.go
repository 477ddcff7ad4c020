// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
// Run executes the worker's loop and returns when ctx is cancelled; shutdown
// is always explicit through context cancellation.
type Worker interface {
	Run(ctx context.Context)
}

// Pinger probes reachability of the remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Syncer is the slice of the sync orchestrator the background workers drive.
type Syncer interface {
	SyncAll(ctx context.Context) models.SyncResult
	SetOnline(ctx context.Context, online bool)
}
