package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

type recordRepository struct {
	*DB
	logger *logger.Logger
}

func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *recordRepository) Save(ctx context.Context, rec *models.Record) error {
	log := logger.FromContext(ctx)

	if !rec.EntityType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntityType, rec.EntityType)
	}

	_, err := r.DB.ExecContext(ctx, insertRecord,
		rec.LocalID,
		rec.EntityType,
		nullString(rec.ServerID),
		string(rec.Payload),
		rec.SyncStatus,
		rec.IsDeleted,
		rec.LocalVersion,
		nullInt64(rec.ServerVersion),
		rec.CreatedAt,
		rec.UpdatedAt,
		nullTime(rec.LastSyncedAt),
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Save").
			Str("local_id", rec.LocalID).
			Str("entity_type", string(rec.EntityType)).
			Msg("failed to insert record")
		return fmt.Errorf("failed to save record (local_id=%s): %w", rec.LocalID, err)
	}

	return nil
}

func (r *recordRepository) Get(ctx context.Context, localID string) (models.Record, error) {
	row := r.DB.QueryRowContext(ctx, getRecord, localID)
	return scanRecord(row)
}

func (r *recordRepository) GetByServerID(ctx context.Context, entityType models.EntityType, serverID string) (models.Record, error) {
	row := r.DB.QueryRowContext(ctx, getRecordByServerID, entityType, serverID)
	return scanRecord(row)
}

func (r *recordRepository) List(ctx context.Context, filter Filter) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := filter.toSelect().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.List").
			Str("entity_type", string(filter.EntityType)).
			Msg("failed to execute list query")
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *recordRepository) ListPending(ctx context.Context, entityType models.EntityType) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listPendingRecords, entityType)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListPending").
			Str("entity_type", string(entityType)).
			Msg("failed to query pending records")
		return nil, fmt.Errorf("failed to query pending records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *recordRepository) ListConflicts(ctx context.Context) ([]models.Record, error) {
	rows, err := r.DB.QueryContext(ctx, listConflictRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflict records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *recordRepository) UpdatePayload(ctx context.Context, localID string, payload json.RawMessage) error {
	return r.execOnRecord(ctx, "recordRepository.UpdatePayload", localID,
		updateRecordPayload, string(payload), time.Now().UTC(), localID)
}

func (r *recordRepository) SoftDelete(ctx context.Context, localID string) error {
	return r.execOnRecord(ctx, "recordRepository.SoftDelete", localID,
		softDeleteRecord, time.Now().UTC(), localID)
}

func (r *recordRepository) DestroyPermanently(ctx context.Context, localID string) error {
	return r.execOnRecord(ctx, "recordRepository.DestroyPermanently", localID,
		destroyRecord, localID)
}

func (r *recordRepository) DestroyIfUnchanged(ctx context.Context, localID string, localVersion int64) (bool, error) {
	return r.execGuarded(ctx, "recordRepository.DestroyIfUnchanged", localID,
		destroyRecordIfUnchanged, localID, localVersion)
}

func (r *recordRepository) MarkSynced(ctx context.Context, localID string, serverID string, serverVersion *int64, localVersion int64, syncedAt time.Time) (bool, error) {
	return r.execGuarded(ctx, "recordRepository.MarkSynced", localID,
		markRecordSynced, serverID, nullInt64(serverVersion), syncedAt, syncedAt, localID, localVersion)
}

func (r *recordRepository) AttachServerIdentity(ctx context.Context, localID string, serverID string, serverVersion *int64) error {
	return r.execOnRecord(ctx, "recordRepository.AttachServerIdentity", localID,
		attachServerIdentity, serverID, nullInt64(serverVersion), time.Now().UTC(), localID)
}

func (r *recordRepository) MarkPending(ctx context.Context, localID string) error {
	return r.execOnRecord(ctx, "recordRepository.MarkPending", localID,
		markRecordPending, time.Now().UTC(), localID)
}

func (r *recordRepository) SetStatus(ctx context.Context, localID string, status models.SyncStatus) error {
	return r.execOnRecord(ctx, "recordRepository.SetStatus", localID,
		setRecordStatus, status, time.Now().UTC(), localID)
}

func (r *recordRepository) InsertFromServer(ctx context.Context, entityType models.EntityType, server models.ServerRecord, syncedAt time.Time) (models.Record, error) {
	serverID := server.ID
	rec := models.Record{
		LocalID:       newLocalID(),
		EntityType:    entityType,
		ServerID:      &serverID,
		Payload:       append(json.RawMessage(nil), server.Payload...),
		SyncStatus:    models.StatusSynced,
		IsDeleted:     false,
		LocalVersion:  1,
		ServerVersion: server.Version,
		CreatedAt:     syncedAt,
		UpdatedAt:     syncedAt,
		LastSyncedAt:  &syncedAt,
	}

	if err := r.Save(ctx, &rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

func (r *recordRepository) OverwriteFromServer(ctx context.Context, localID string, server models.ServerRecord, syncedAt time.Time) (bool, error) {
	return r.execGuarded(ctx, "recordRepository.OverwriteFromServer", localID,
		overwriteRecordFromServer, string(server.Payload), nullInt64(server.Version), syncedAt, syncedAt, localID)
}

func (r *recordRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, countPendingRecords).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending records: %w", err)
	}
	return count, nil
}

// execOnRecord runs a single-record statement and translates "no rows
// affected" into ErrRecordNotFound.
func (r *recordRepository) execOnRecord(ctx context.Context, fn, localID, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", fn).
			Str("local_id", localID).
			Msg("failed to execute record statement")
		return fmt.Errorf("failed to execute record statement (local_id=%s): %w", localID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (local_id=%s): %w", localID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w (local_id=%s)", ErrRecordNotFound, localID)
	}

	return nil
}

// execGuarded runs a guarded single-record statement and reports whether the
// guard accepted it. A rejected guard is not an error; the caller decides what
// the untouched record means.
func (r *recordRepository) execGuarded(ctx context.Context, fn, localID, query string, args ...any) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", fn).
			Str("local_id", localID).
			Msg("failed to execute record statement")
		return false, fmt.Errorf("failed to execute record statement (local_id=%s): %w", localID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected (local_id=%s): %w", localID, err)
	}

	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec           models.Record
		serverID      sql.NullString
		payload       string
		serverVersion sql.NullInt64
		lastSyncedAt  sql.NullTime
	)

	err := row.Scan(
		&rec.LocalID,
		&rec.EntityType,
		&serverID,
		&payload,
		&rec.SyncStatus,
		&rec.IsDeleted,
		&rec.LocalVersion,
		&serverVersion,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&lastSyncedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to scan record row: %w", err)
	}

	rec.Payload = json.RawMessage(payload)
	if serverID.Valid {
		rec.ServerID = &serverID.String
	}
	if serverVersion.Valid {
		rec.ServerVersion = &serverVersion.Int64
	}
	if lastSyncedAt.Valid {
		t := lastSyncedAt.Time
		rec.LastSyncedAt = &t
	}

	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]models.Record, error) {
	var records []models.Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
