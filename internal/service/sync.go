// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/retry"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// Keys under which sync bookkeeping survives process restarts.
const (
	kvLastFullSync  = "last_full_sync"
	kvLastSyncError = "last_sync_error"
)

const offlineMessage = "device is offline"

// StoreWiper wipes the whole local store in one transaction.
type StoreWiper interface {
	ClearAll(ctx context.Context) error
}

// SyncService is the sync orchestrator. It owns the push/pull cycle, conflict
// detection and resolution, the optimistic CRUD surface, and the sync state
// snapshot. The local store is the single source of truth; every state
// transition flows through its repositories.
type SyncService struct {
	records   store.RecordRepository
	kv        store.KVRepository
	wiper     StoreWiper
	remote    adapter.RemoteAPI
	retryCfg  retry.Config
	pullLimit int
	logger    *logger.Logger

	// syncing is the at-most-one-concurrent-sync guard shared by SyncAll and
	// SyncEntityType.
	syncing atomic.Bool
	online  atomic.Bool

	listenersMu  sync.Mutex
	listeners    map[int]func(models.SyncState)
	nextListener int

	// inflight enforces at-most-one background sync per entity type for the
	// fire-and-forget triggers scheduled by optimistic mutations.
	inflightMu sync.Mutex
	inflight   map[models.EntityType]bool
	background sync.WaitGroup
}

func NewSyncService(storages *store.ClientStorages, remote adapter.RemoteAPI, retryCfg retry.Config, pullLimit int, log *logger.Logger) *SyncService {
	s := &SyncService{
		records:   storages.Records,
		kv:        storages.KV,
		wiper:     storages,
		remote:    remote,
		retryCfg:  retryCfg,
		pullLimit: pullLimit,
		logger:    log,
		listeners: make(map[int]func(models.SyncState)),
		inflight:  make(map[models.EntityType]bool),
	}
	// assume reachable until the first probe says otherwise
	s.online.Store(true)
	return s
}

// SyncAll runs the full push+pull cycle across every entity type. Concurrent
// calls while a cycle is running return a skipped no-op result.
func (s *SyncService) SyncAll(ctx context.Context) models.SyncResult {
	return s.runSync(ctx, models.EntityTypes, true)
}

// SyncEntityType runs the push+pull cycle scoped to one entity type. It
// shares the in-progress guard with SyncAll.
func (s *SyncService) SyncEntityType(ctx context.Context, entityType models.EntityType) models.SyncResult {
	if !entityType.Valid() {
		return models.SyncResult{
			StartedAt: time.Now().UTC(),
			Errors: []models.SyncError{{
				EntityType: entityType,
				Action:     models.ActionPull,
				Message:    fmt.Sprintf("%v: %q", ErrInvalidEntityType, entityType),
			}},
		}
	}
	return s.runSync(ctx, []models.EntityType{entityType}, false)
}

func (s *SyncService) runSync(ctx context.Context, entityTypes []models.EntityType, full bool) models.SyncResult {
	log := logger.FromContext(ctx)
	result := models.SyncResult{StartedAt: time.Now().UTC()}

	if !s.syncing.CompareAndSwap(false, true) {
		log.Debug().Str("func", "SyncService.runSync").Msg("sync already in progress, skipping")
		result.Success = true
		result.Skipped = true
		return result
	}
	defer s.notify(ctx)
	defer s.syncing.Store(false)

	s.notify(ctx)

	if err := s.remote.Ping(ctx); err != nil {
		log.Warn().Str("func", "SyncService.runSync").Err(err).Msg("remote unreachable, aborting sync")
		s.online.Store(false)
		s.recordOutcome(ctx, &result, full, offlineMessage)
		result.Duration = time.Since(result.StartedAt)
		return result
	}
	s.online.Store(true)

	for _, entityType := range entityTypes {
		s.pushEntityType(ctx, entityType, &result)
	}
	for _, entityType := range entityTypes {
		s.pullEntityType(ctx, entityType, &result)
	}

	result.Success = len(result.Errors) == 0
	result.Duration = time.Since(result.StartedAt)
	s.recordOutcome(ctx, &result, full, joinSyncErrors(result.Errors))

	log.Info().
		Str("func", "SyncService.runSync").
		Bool("success", result.Success).
		Int("pushed", result.Pushed).
		Int("pulled", result.Pulled).
		Int("conflicts", result.Conflicts).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("sync cycle finished")

	return result
}

// pushEntityType propagates every pending record of the entity type to the
// server. Outcomes are independent per record: a failure is collected into
// the result and the record keeps its pending state for the next cycle.
func (s *SyncService) pushEntityType(ctx context.Context, entityType models.EntityType, result *models.SyncResult) {
	log := logger.FromContext(ctx)

	pending, err := s.records.ListPending(ctx, entityType)
	if err != nil {
		log.Err(err).
			Str("func", "SyncService.pushEntityType").
			Str("entity_type", string(entityType)).
			Msg("failed to list pending records")
		result.Errors = append(result.Errors, models.SyncError{
			EntityType: entityType,
			Action:     models.ActionCreate,
			Message:    err.Error(),
		})
		return
	}

	for _, rec := range pending {
		action, applied, err := s.pushRecord(ctx, rec)
		if err != nil {
			log.Warn().
				Str("func", "SyncService.pushEntityType").
				Str("entity_type", string(entityType)).
				Str("local_id", rec.LocalID).
				Str("action", string(action)).
				Err(err).
				Msg("failed to push record")
			result.Errors = append(result.Errors, models.SyncError{
				EntityType: entityType,
				EntityID:   rec.LocalID,
				Action:     action,
				Message:    err.Error(),
			})
			continue
		}
		if !applied {
			// the record picked up a local edit while the push was on the
			// wire; it stays pending for the next cycle
			log.Debug().
				Str("func", "SyncService.pushEntityType").
				Str("entity_type", string(entityType)).
				Str("local_id", rec.LocalID).
				Msg("record edited during push, staying pending")
			continue
		}
		result.Pushed++
	}
}

// pushRecord propagates one pending record and records the outcome against
// the local version it read. Every state transition is guarded on that
// version, so an optimistic edit landing while the HTTP call is on the wire
// leaves the record pending instead of being silently marked synced and then
// clobbered by the pull. A rejected guard is reported as applied = false.
func (s *SyncService) pushRecord(ctx context.Context, rec models.Record) (models.SyncAction, bool, error) {
	now := time.Now().UTC()

	switch {
	case !rec.HasServerID() && rec.IsDeleted:
		// deleted before it ever reached the server, nothing to propagate
		applied, err := s.records.DestroyIfUnchanged(ctx, rec.LocalID, rec.LocalVersion)
		return models.ActionDelete, applied, err

	case !rec.HasServerID():
		created, err := retry.Do(ctx, s.retryCfg, s.logger, "create "+string(rec.EntityType),
			func(ctx context.Context) (models.ServerRecord, error) {
				return s.remote.Create(ctx, rec.EntityType, rec.Payload)
			})
		if err != nil {
			return models.ActionCreate, false, err
		}
		applied, err := s.records.MarkSynced(ctx, rec.LocalID, created.ID, created.Version, rec.LocalVersion, now)
		if err != nil {
			return models.ActionCreate, false, err
		}
		if !applied {
			// the record now exists on the server; keep its identity so the
			// next push updates it instead of creating a duplicate
			if err = s.records.AttachServerIdentity(ctx, rec.LocalID, created.ID, created.Version); err != nil {
				return models.ActionCreate, false, err
			}
		}
		return models.ActionCreate, applied, nil

	case rec.IsDeleted:
		err := retry.DoErr(ctx, s.retryCfg, s.logger, "delete "+string(rec.EntityType),
			func(ctx context.Context) error {
				return s.remote.Delete(ctx, rec.EntityType, *rec.ServerID)
			})
		if err != nil {
			return models.ActionDelete, false, err
		}
		applied, err := s.records.DestroyIfUnchanged(ctx, rec.LocalID, rec.LocalVersion)
		return models.ActionDelete, applied, err

	default:
		updated, err := retry.Do(ctx, s.retryCfg, s.logger, "update "+string(rec.EntityType),
			func(ctx context.Context) (models.ServerRecord, error) {
				return s.remote.Update(ctx, rec.EntityType, *rec.ServerID, rec.Payload)
			})
		if err != nil {
			return models.ActionUpdate, false, err
		}
		applied, err := s.records.MarkSynced(ctx, rec.LocalID, *rec.ServerID, updated.Version, rec.LocalVersion, now)
		return models.ActionUpdate, applied, err
	}
}

// pullEntityType merges the server's current view of the entity type into the
// local store. A server record matching a local pending record flips it to
// conflict without touching its payload; conflicted records are skipped until
// resolved.
func (s *SyncService) pullEntityType(ctx context.Context, entityType models.EntityType, result *models.SyncResult) {
	log := logger.FromContext(ctx)

	serverRecords, err := retry.Do(ctx, s.retryCfg, s.logger, "list "+string(entityType),
		func(ctx context.Context) ([]models.ServerRecord, error) {
			return s.remote.List(ctx, entityType, adapter.ListFilters{Limit: s.pullLimit, Page: 1})
		})
	if err != nil {
		log.Warn().
			Str("func", "SyncService.pullEntityType").
			Str("entity_type", string(entityType)).
			Err(err).
			Msg("failed to fetch server records")
		result.Errors = append(result.Errors, models.SyncError{
			EntityType: entityType,
			Action:     models.ActionPull,
			Message:    err.Error(),
		})
		return
	}

	now := time.Now().UTC()
	for _, server := range serverRecords {
		if err := s.mergeServerRecord(ctx, entityType, server, now, result); err != nil {
			result.Errors = append(result.Errors, models.SyncError{
				EntityType: entityType,
				EntityID:   server.ID,
				Action:     models.ActionPull,
				Message:    err.Error(),
			})
		}
	}
}

func (s *SyncService) mergeServerRecord(ctx context.Context, entityType models.EntityType, server models.ServerRecord, now time.Time, result *models.SyncResult) error {
	log := logger.FromContext(ctx)

	local, err := s.records.GetByServerID(ctx, entityType, server.ID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrRecordNotFound):
		if _, err = s.records.InsertFromServer(ctx, entityType, server, now); err != nil {
			return err
		}
		result.Pulled++
		return nil
	default:
		return err
	}

	switch local.SyncStatus {
	case models.StatusPending:
		if err = s.records.SetStatus(ctx, local.LocalID, models.StatusConflict); err != nil {
			return err
		}
		result.Conflicts++

	case models.StatusSynced:
		applied, err := s.records.OverwriteFromServer(ctx, local.LocalID, server, now)
		if err != nil {
			return err
		}
		if !applied {
			// the record picked up a local edit mid-pull; the next cycle will
			// surface it as a conflict
			log.Debug().
				Str("func", "SyncService.mergeServerRecord").
				Str("local_id", local.LocalID).
				Msg("overwrite skipped, record changed during pull")
			return nil
		}
		result.Pulled++

	case models.StatusConflict:
		// conflicts stay untouched until explicitly resolved
	}

	return nil
}

// recordOutcome persists the sync bookkeeping consumed by GetSyncState across
// restarts: the last successful full sync instant and the last error message.
func (s *SyncService) recordOutcome(ctx context.Context, result *models.SyncResult, full bool, errMessage string) {
	log := logger.FromContext(ctx)

	if result.Success && full {
		if err := s.kv.Set(ctx, kvLastFullSync, result.StartedAt.Format(time.RFC3339)); err != nil {
			log.Err(err).Str("func", "SyncService.recordOutcome").Msg("failed to persist last sync time")
		}
	}

	if result.Success {
		if err := s.kv.Delete(ctx, kvLastSyncError); err != nil {
			log.Err(err).Str("func", "SyncService.recordOutcome").Msg("failed to clear last sync error")
		}
		return
	}

	if err := s.kv.Set(ctx, kvLastSyncError, errMessage); err != nil {
		log.Err(err).Str("func", "SyncService.recordOutcome").Msg("failed to persist last sync error")
	}
}

func joinSyncErrors(errs []models.SyncError) string {
	if len(errs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s/%s %s: %s", e.EntityType, e.EntityID, e.Action, e.Message))
	}
	return strings.Join(parts, "; ")
}

// GetConflicts enumerates every record currently in conflict state across all
// entity types.
func (s *SyncService) GetConflicts(ctx context.Context) ([]models.Conflict, error) {
	records, err := s.records.ListConflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	conflicts := make([]models.Conflict, 0, len(records))
	for _, rec := range records {
		conflicts = append(conflicts, models.Conflict{
			EntityType: rec.EntityType,
			Record:     rec,
		})
	}
	return conflicts, nil
}

// ResolveConflict settles a conflicted record:
//   - keep_local re-marks it pending and re-runs the cycle so the next push
//     overwrites the server with the local version;
//   - keep_server drops the local divergence and re-runs the cycle so the
//     pull overwrite path replaces the local payload;
//   - merge re-marks it pending and defers the actual field merge to a
//     higher-level workflow.
func (s *SyncService) ResolveConflict(ctx context.Context, req models.ResolveConflictRequest) error {
	log := logger.FromContext(ctx)

	if !req.Resolution.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResolution, req.Resolution)
	}

	rec, err := s.records.Get(ctx, req.LocalID)
	if err != nil {
		return fmt.Errorf("failed to load conflicted record: %w", err)
	}
	if rec.SyncStatus != models.StatusConflict {
		return fmt.Errorf("%w (local_id=%s, status=%s)", ErrRecordNotConflicted, rec.LocalID, rec.SyncStatus)
	}

	log.Info().
		Str("func", "SyncService.ResolveConflict").
		Str("local_id", rec.LocalID).
		Str("entity_type", string(rec.EntityType)).
		Str("resolution", string(req.Resolution)).
		Msg("resolving conflict")

	switch req.Resolution {
	case models.ResolutionKeepLocal:
		if err = s.records.MarkPending(ctx, rec.LocalID); err != nil {
			return fmt.Errorf("failed to re-mark record pending: %w", err)
		}
		s.SyncEntityType(ctx, rec.EntityType)

	case models.ResolutionKeepServer:
		if err = s.records.SetStatus(ctx, rec.LocalID, models.StatusSynced); err != nil {
			return fmt.Errorf("failed to drop local divergence: %w", err)
		}
		s.SyncEntityType(ctx, rec.EntityType)

	case models.ResolutionMerge:
		if err = s.records.MarkPending(ctx, rec.LocalID); err != nil {
			return fmt.Errorf("failed to re-mark record pending: %w", err)
		}
	}

	s.notify(ctx)
	return nil
}

// SetOnline records the connectivity monitor's probe verdict and broadcasts
// the updated state.
func (s *SyncService) SetOnline(ctx context.Context, online bool) {
	if s.online.Swap(online) != online {
		s.notify(ctx)
	}
}

// Wait blocks until every scheduled background sync has finished. Used during
// shutdown.
func (s *SyncService) Wait() {
	s.background.Wait()
}
