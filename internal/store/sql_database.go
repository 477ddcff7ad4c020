package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// ClearAll wipes every record and all sync bookkeeping in one transaction.
// Used for logout/reset: either both tables are emptied or neither is.
func (db *DB) ClearAll(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear-all transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM records;`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sync_kv;`); err != nil {
		return fmt.Errorf("clear sync kv: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit clear-all transaction: %w", err)
	}
	return nil
}
