// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the sync orchestrator: the push/pull engine that
// reconciles the durable local store with the remote ledger API, detects
// conflicts, exposes optimistic CRUD, and maintains the broadcastable sync
// state snapshot.
package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Syncer drives reconciliation between the local store and the remote API.
// SyncAll and SyncEntityType are mutually exclusive: while one run is in
// flight, further calls return a skipped no-op result instead of queuing.
type Syncer interface {
	// SyncAll runs the full push+pull cycle across every entity type.
	SyncAll(ctx context.Context) models.SyncResult

	// SyncEntityType runs the push+pull cycle scoped to one entity type.
	SyncEntityType(ctx context.Context, entityType models.EntityType) models.SyncResult

	// GetConflicts enumerates every record currently in conflict state.
	GetConflicts(ctx context.Context) ([]models.Conflict, error)

	// ResolveConflict settles one conflicted record with the caller's choice.
	ResolveConflict(ctx context.Context, req models.ResolveConflictRequest) error

	// SetOnline records the connectivity monitor's latest probe verdict.
	SetOnline(ctx context.Context, online bool)

	// GetSyncState rebuilds the current snapshot from the store and the
	// connectivity flag.
	GetSyncState(ctx context.Context) models.SyncState

	// AddSyncListener subscribes fn to state change notifications and returns
	// its unsubscribe function.
	AddSyncListener(fn func(models.SyncState)) func()
}

// RecordEditor exposes the optimistic CRUD surface. Every mutation commits
// locally first and schedules a background sync for the affected entity type;
// callers never block on network I/O.
type RecordEditor interface {
	// CreateOptimistic stores a new pending record and returns its local id.
	CreateOptimistic(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (string, error)

	// UpdateOptimistic replaces the payload of an existing record and flips it
	// to pending.
	UpdateOptimistic(ctx context.Context, localID string, payload json.RawMessage) error

	// DeleteOptimistic soft-deletes the record; the delete propagates on the
	// next push.
	DeleteOptimistic(ctx context.Context, localID string) error

	// ListRecords returns the local view of an entity collection, excluding
	// soft-deleted records.
	ListRecords(ctx context.Context, entityType models.EntityType, search string) ([]models.Record, error)

	// GetRecord returns one record by local id.
	GetRecord(ctx context.Context, localID string) (models.Record, error)

	// ClearAllData wipes the local store and all sync bookkeeping.
	ClearAllData(ctx context.Context) error
}
