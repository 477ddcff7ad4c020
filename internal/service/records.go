package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// CreateOptimistic commits a new pending record locally and schedules a
// background sync for its entity type. The caller observes the local effect
// immediately and never blocks on network I/O.
func (s *SyncService) CreateOptimistic(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (string, error) {
	if !entityType.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	now := time.Now().UTC()
	rec := models.Record{
		LocalID:      uuid.NewString(),
		EntityType:   entityType,
		Payload:      payload,
		SyncStatus:   models.StatusPending,
		LocalVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.records.Save(ctx, &rec); err != nil {
		return "", fmt.Errorf("failed to create record: %w", err)
	}

	s.notify(ctx)
	s.scheduleBackgroundSync(entityType)
	return rec.LocalID, nil
}

// UpdateOptimistic replaces the record's payload, bumps its version, flips it
// to pending, and schedules a background sync.
func (s *SyncService) UpdateOptimistic(ctx context.Context, localID string, payload json.RawMessage) error {
	rec, err := s.records.Get(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to load record for update: %w", err)
	}

	if err = s.records.UpdatePayload(ctx, localID, payload); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	s.notify(ctx)
	s.scheduleBackgroundSync(rec.EntityType)
	return nil
}

// DeleteOptimistic soft-deletes the record and schedules a background sync
// that propagates the delete.
func (s *SyncService) DeleteOptimistic(ctx context.Context, localID string) error {
	rec, err := s.records.Get(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to load record for delete: %w", err)
	}

	if err = s.records.SoftDelete(ctx, localID); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.notify(ctx)
	s.scheduleBackgroundSync(rec.EntityType)
	return nil
}

// ListRecords returns the local view of an entity collection, excluding
// soft-deleted records, optionally narrowed by a free-text search.
func (s *SyncService) ListRecords(ctx context.Context, entityType models.EntityType, search string) ([]models.Record, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	records, err := s.records.List(ctx, store.Filter{
		EntityType: entityType,
		NotDeleted: true,
		Search:     search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// GetRecord returns one record by local id.
func (s *SyncService) GetRecord(ctx context.Context, localID string) (models.Record, error) {
	return s.records.Get(ctx, localID)
}

// ClearAllData wipes every record and all sync bookkeeping, stored credential
// included. Used for logout/reset.
func (s *SyncService) ClearAllData(ctx context.Context) error {
	if err := s.wiper.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	s.notify(ctx)
	return nil
}

// scheduleBackgroundSync hands the entity type to a fire-and-forget sync
// task with at-most-one-in-flight-per-entity-type discipline. Failures are
// swallowed into the sync state error channel, never returned to the caller.
func (s *SyncService) scheduleBackgroundSync(entityType models.EntityType) {
	s.inflightMu.Lock()
	if s.inflight[entityType] {
		s.inflightMu.Unlock()
		return
	}
	s.inflight[entityType] = true
	s.inflightMu.Unlock()

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer func() {
			s.inflightMu.Lock()
			delete(s.inflight, entityType)
			s.inflightMu.Unlock()
		}()

		ctx := s.logger.WithContext(context.Background())
		result := s.SyncEntityType(ctx, entityType)
		if !result.Success {
			s.logger.Warn().
				Str("func", "SyncService.scheduleBackgroundSync").
				Str("entity_type", string(entityType)).
				Int("errors", len(result.Errors)).
				Msg("background sync finished with errors")
		}
	}()
}
