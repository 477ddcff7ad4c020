package models

import "time"

// SyncAction labels the push/pull operation that produced a per-record error.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
	ActionPull   SyncAction = "pull"
)

// SyncError records a single failed push or pull operation. Failures are
// collected per record so one bad record never aborts the rest of a sync.
type SyncError struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Action     SyncAction `json:"action"`
	Message    string     `json:"message"`
}

// SyncResult summarises one run of the push+pull cycle.
type SyncResult struct {
	Success   bool        `json:"success"`
	Skipped   bool        `json:"skipped"`
	Pushed    int         `json:"pushed"`
	Pulled    int         `json:"pulled"`
	Conflicts int         `json:"conflicts"`
	Errors    []SyncError `json:"errors,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// SyncState is the broadcastable snapshot exposed to callers. It is rebuilt
// from the store and the connectivity monitor on every notification and is
// never itself a source of truth.
type SyncState struct {
	IsOnline       bool       `json:"is_online"`
	IsSyncing      bool       `json:"is_syncing"`
	LastSyncTime   *time.Time `json:"last_sync_time,omitempty"`
	PendingChanges int        `json:"pending_changes"`
	HasError       bool       `json:"has_error"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}

// SyncMetadata tracks per-entity-type bookkeeping used for observability and
// staleness decisions. It is advisory only, never a correctness dependency.
type SyncMetadata struct {
	EntityType          EntityType `json:"entity_type"`
	LastFullSync        *time.Time `json:"last_full_sync,omitempty"`
	LastPartialSync     *time.Time `json:"last_partial_sync,omitempty"`
	PendingChangesCount int        `json:"pending_changes_count"`
	SyncInProgress      bool       `json:"sync_in_progress"`
	LastSyncError       string     `json:"last_sync_error,omitempty"`
}

// Resolution names the caller's choice when settling a conflicted record.
type Resolution string

const (
	// ResolutionKeepLocal re-marks the record pending so the next push
	// overwrites the server with the local version.
	ResolutionKeepLocal Resolution = "keep_local"
	// ResolutionKeepServer drops the local divergence; the next pull
	// overwrites the record with the server version.
	ResolutionKeepServer Resolution = "keep_server"
	// ResolutionMerge re-marks the record pending and defers the actual field
	// merge to a human-driven workflow. The engine performs no merge itself.
	ResolutionMerge Resolution = "merge"
)

// Valid reports whether r is one of the three supported resolutions.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionKeepLocal, ResolutionKeepServer, ResolutionMerge:
		return true
	}
	return false
}

// ResolveConflictRequest identifies a conflicted record and the caller's
// resolution choice.
type ResolveConflictRequest struct {
	EntityType EntityType `json:"entity_type"`
	LocalID    string     `json:"local_id"`
	Resolution Resolution `json:"resolution"`
}

// Conflict pairs a conflicted record with its entity type for surfacing to
// callers.
type Conflict struct {
	EntityType EntityType `json:"entity_type"`
	Record     Record     `json:"record"`
}
