package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// Filter composes the predicates supported by List: equality on entity type
// and status, pattern match over the payload, time ranges on updated_at, and
// the not-deleted restriction applied by all read paths above the engine.
// Predicates combine with AND; the free-text search expands to an OR across
// the searchable columns.
type Filter struct {
	EntityType    models.EntityType
	Status        *models.SyncStatus
	NotDeleted    bool
	Search        string
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
	Limit         uint64
}

// WithStatus returns a copy of the filter narrowed to the given status.
func (f Filter) WithStatus(status models.SyncStatus) Filter {
	f.Status = &status
	return f
}

func (f Filter) toSelect() sq.SelectBuilder {
	b := sq.Select(
		"local_id", "entity_type", "server_id", "payload", "sync_status",
		"is_deleted", "local_version", "server_version",
		"created_at", "updated_at", "last_synced_at",
	).From("records").OrderBy("updated_at ASC")

	if f.EntityType != "" {
		b = b.Where(sq.Eq{"entity_type": f.EntityType})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"sync_status": *f.Status})
	}
	if f.NotDeleted {
		b = b.Where(sq.Eq{"is_deleted": false})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		b = b.Where(sq.Or{
			sq.Like{"payload": pattern},
			sq.Like{"server_id": pattern},
		})
	}
	if f.UpdatedAfter != nil {
		b = b.Where(sq.GtOrEq{"updated_at": *f.UpdatedAfter})
	}
	if f.UpdatedBefore != nil {
		b = b.Where(sq.LtOrEq{"updated_at": *f.UpdatedBefore})
	}
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}

	return b
}
