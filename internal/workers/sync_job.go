package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// SyncJob runs a full sync on a fixed interval so the local store keeps
// converging with the server even without caller activity. Overlap with an
// already running sync is harmless: the orchestrator's in-progress guard
// turns the extra run into a no-op.
type SyncJob struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger
}

func NewSyncJob(syncer Syncer, interval time.Duration, log *logger.Logger) *SyncJob {
	return &SyncJob{
		syncer:   syncer,
		interval: interval,
		logger:   log,
	}
}

// Run triggers a sync on every interval tick until ctx is cancelled.
func (j *SyncJob) Run(ctx context.Context) {
	ctx = j.logger.WithContext(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Debug().Str("func", "SyncJob.Run").Msg("periodic sync job stopped")
			return
		case <-ticker.C:
			result := j.syncer.SyncAll(ctx)
			if !result.Success && !result.Skipped {
				j.logger.Warn().
					Str("func", "SyncJob.Run").
					Int("errors", len(result.Errors)).
					Msg("periodic sync finished with errors")
			}
		}
	}
}
