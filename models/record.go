package models

import (
	"encoding/json"
	"time"
)

// EntityType identifies one of the syncable collections managed by the engine.
type EntityType string

const (
	EntityClient          EntityType = "clients"
	EntityEvent           EntityType = "events"
	EntityBillingDocument EntityType = "billing_documents"
)

// EntityTypes lists every collection in the order sync phases process them.
var EntityTypes = []EntityType{EntityClient, EntityEvent, EntityBillingDocument}

// Valid reports whether t names a known collection.
func (t EntityType) Valid() bool {
	switch t {
	case EntityClient, EntityEvent, EntityBillingDocument:
		return true
	}
	return false
}

// SyncStatus describes a record's position in the reconciliation lifecycle.
type SyncStatus string

const (
	// StatusSynced means the local record matches the last state observed on
	// the server.
	StatusSynced SyncStatus = "synced"
	// StatusPending means the record carries local changes that have not been
	// pushed yet.
	StatusPending SyncStatus = "pending"
	// StatusConflict means a pending local change collided with an incoming
	// server update; the record is frozen until explicitly resolved.
	StatusConflict SyncStatus = "conflict"
)

// Record is the syncable unit stored in the local database. The sync engine
// operates only on the metadata fields; Payload is opaque to it and is decoded
// by callers via the typed payload helpers.
type Record struct {
	LocalID       string          `json:"local_id"`
	EntityType    EntityType      `json:"entity_type"`
	ServerID      *string         `json:"server_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	SyncStatus    SyncStatus      `json:"sync_status"`
	IsDeleted     bool            `json:"is_deleted"`
	LocalVersion  int64           `json:"local_version"`
	ServerVersion *int64          `json:"server_version,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	LastSyncedAt  *time.Time      `json:"last_synced_at,omitempty"`
}

// HasServerID reports whether the record has ever been created on the server.
func (r *Record) HasServerID() bool {
	return r.ServerID != nil && *r.ServerID != ""
}

// ServerRecord is the engine's view of an entity as returned by the remote
// API. ID is the server-side identifier; Payload carries the entity fields in
// whatever shape the server sent them.
type ServerRecord struct {
	ID      string          `json:"id"`
	Version *int64          `json:"version,omitempty"`
	Payload json.RawMessage `json:"-"`
}
