package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

type kvRepository struct {
	*DB
	logger *logger.Logger
}

func NewKVRepository(db *DB, logger *logger.Logger) KVRepository {
	return &kvRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := r.DB.QueryRowContext(ctx, getKVValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get kv value (key=%s): %w", key, err)
	}

	return value, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, setKVValue, key, value, time.Now().UTC()); err != nil {
		log.Err(err).
			Str("func", "kvRepository.Set").
			Str("key", key).
			Msg("failed to set kv value")
		return fmt.Errorf("failed to set kv value (key=%s): %w", key, err)
	}

	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.DB.ExecContext(ctx, deleteKVValue, key); err != nil {
		return fmt.Errorf("failed to delete kv value (key=%s): %w", key, err)
	}
	return nil
}
