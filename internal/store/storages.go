package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// ClientStorages bundles every repository backed by the local database.
type ClientStorages struct {
	Records RecordRepository
	KV      KVRepository
	Session SessionRepository

	db *DB
}

// NewClientStorages opens the local database, applies pending migrations, and
// wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*ClientStorages, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to local database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate local database: %w", err)
	}

	kv := NewKVRepository(db, log)

	return &ClientStorages{
		Records: NewRecordRepository(db, log),
		KV:      kv,
		Session: NewSessionRepository(kv, log),
		db:      db,
	}, nil
}

// ClearAll wipes every record and all sync bookkeeping, credential included.
func (s *ClientStorages) ClearAll(ctx context.Context) error {
	return s.db.ClearAll(ctx)
}

// Close closes the underlying database connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}

func newLocalID() string {
	return uuid.NewString()
}
