// Package store implements the durable local store backing the sync engine:
// a SQLite database holding every syncable record with its sync metadata,
// plus a small key-value table for sync bookkeeping and the stored
// credential.
//
// All writes go through database/sql with the mattn/go-sqlite3 driver; the
// driver serializes concurrent writers, which is the single-writer discipline
// the sync engine relies on. Dynamic predicate queries are composed with
// squirrel; fixed statements live in sql_queries.go.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// RecordRepository is the low-level repository for syncable records. Every
// mutation that represents a logical local change (update, soft-delete,
// re-mark pending) bumps local_version exactly once.
type RecordRepository interface {
	// Save inserts a new record exactly as given.
	Save(ctx context.Context, rec *models.Record) error

	// Get returns the record identified by localID or ErrRecordNotFound.
	Get(ctx context.Context, localID string) (models.Record, error)

	// GetByServerID returns the record of the given entity type carrying
	// serverID, or ErrRecordNotFound.
	GetByServerID(ctx context.Context, entityType models.EntityType, serverID string) (models.Record, error)

	// List returns records matching the composed filter predicates.
	List(ctx context.Context, filter Filter) ([]models.Record, error)

	// ListPending returns every record of the given entity type with
	// sync_status = pending, including soft-deleted ones awaiting delete
	// propagation.
	ListPending(ctx context.Context, entityType models.EntityType) ([]models.Record, error)

	// ListConflicts returns every record in conflict state across all entity
	// types.
	ListConflicts(ctx context.Context) ([]models.Record, error)

	// UpdatePayload replaces the payload, bumps local_version, and flips the
	// record to pending.
	UpdatePayload(ctx context.Context, localID string, payload json.RawMessage) error

	// SoftDelete marks the record deleted, bumps local_version, and flips it
	// to pending so the delete propagates on the next push.
	SoftDelete(ctx context.Context, localID string) error

	// DestroyPermanently physically removes the record.
	DestroyPermanently(ctx context.Context, localID string) error

	// DestroyIfUnchanged physically removes the record only while its
	// local_version still matches the one given. Used by the push phase so a
	// record edited while its delete was propagating survives. Returns false
	// when the guard rejected the removal.
	DestroyIfUnchanged(ctx context.Context, localID string, localVersion int64) (bool, error)

	// MarkSynced records a successful push of the given local version: sets
	// server identity and version, sync_status = synced, and last_synced_at.
	// The update is guarded: it only applies while local_version still matches
	// the version that was pushed, so an edit made while the push was on the
	// wire keeps the record pending. Returns false when the guard rejected
	// the transition.
	MarkSynced(ctx context.Context, localID string, serverID string, serverVersion *int64, localVersion int64, syncedAt time.Time) (bool, error)

	// AttachServerIdentity stamps server identity and version on a record
	// without touching its sync status. Used when a create lands on the
	// server while a newer local edit is already pending, so the next push
	// updates the existing server record instead of creating a duplicate.
	AttachServerIdentity(ctx context.Context, localID string, serverID string, serverVersion *int64) error

	// MarkPending flips the record back to pending and bumps local_version.
	// Used by conflict resolutions that re-queue the local copy for push.
	MarkPending(ctx context.Context, localID string) error

	// SetStatus sets sync_status without touching version or payload.
	SetStatus(ctx context.Context, localID string, status models.SyncStatus) error

	// InsertFromServer creates a local record from a pulled server record
	// with sync_status = synced.
	InsertFromServer(ctx context.Context, entityType models.EntityType, server models.ServerRecord, syncedAt time.Time) (models.Record, error)

	// OverwriteFromServer replaces the payload and server version of a local
	// record from a pulled server record. The overwrite is guarded: it only
	// applies while the record is still in synced state, so a concurrent
	// local edit is never clobbered. Returns false when the guard rejected
	// the overwrite.
	OverwriteFromServer(ctx context.Context, localID string, server models.ServerRecord, syncedAt time.Time) (bool, error)

	// CountPending returns the number of pending records across all entity
	// types.
	CountPending(ctx context.Context) (int, error)
}

// KVRepository is the persistent key-value store used for sync bookkeeping
// (last full sync time, last sync error) and the stored credential. Values
// survive process restarts.
type KVRepository interface {
	// Get returns the stored value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// SessionRepository is the credential store consumed by the transport
// layer's auth interceptor. Token returns "" when no usable token is stored;
// the transport then sends the request unauthenticated.
type SessionRepository interface {
	// Token returns the stored bearer token. A token that parses as a JWT and
	// has expired is treated as absent.
	Token() string

	// SetToken persists the bearer token.
	SetToken(ctx context.Context, token string) error

	// Clear removes the stored token.
	Clear(ctx context.Context) error
}
