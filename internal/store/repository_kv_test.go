package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

func newMockKVRepo(t *testing.T) (KVRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := &DB{DB: conn, logger: logger.Nop()}
	return NewKVRepository(db, logger.Nop()), mock
}

func TestKVRepository_Get(t *testing.T) {
	repo, mock := newMockKVRepo(t)

	mock.ExpectQuery(getKVValue).
		WithArgs("last_full_sync").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2026-08-30T12:00:00Z"))

	value, err := repo.Get(context.Background(), "last_full_sync")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30T12:00:00Z", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Get_MissingKeyIsEmpty(t *testing.T) {
	repo, mock := newMockKVRepo(t)

	mock.ExpectQuery(getKVValue).
		WithArgs("never_set").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, err := repo.Get(context.Background(), "never_set")
	require.NoError(t, err)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Get_QueryError(t *testing.T) {
	repo, mock := newMockKVRepo(t)

	mock.ExpectQuery(getKVValue).
		WithArgs("last_full_sync").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Get(context.Background(), "last_full_sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last_full_sync")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Set(t *testing.T) {
	repo, mock := newMockKVRepo(t)

	mock.ExpectExec(setKVValue).
		WithArgs("last_sync_error", "network unreachable", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "last_sync_error", "network unreachable")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Delete(t *testing.T) {
	repo, mock := newMockKVRepo(t)

	mock.ExpectExec(deleteKVValue).
		WithArgs("last_sync_error").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "last_sync_error")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
