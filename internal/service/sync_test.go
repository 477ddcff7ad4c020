package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/retry"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func newTestService(t *testing.T) (*SyncService, *mock.MockRemoteAPI, *store.ClientStorages) {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteAPI(ctrl)

	// shared-cache keeps one in-memory database visible to the whole pool
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	storages, err := store.NewClientStorages(context.Background(), config.ClientDB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	retryCfg := retry.Config{
		MaxRetries:        3,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2,
		RetryableStatuses: retry.DefaultRetryableStatuses(),
		RetryableKinds:    retry.DefaultRetryableKinds(),
	}

	svc := NewSyncService(storages, remote, retryCfg, 200, logger.Nop())
	return svc, remote, storages
}

func seedRecord(t *testing.T, storages *store.ClientStorages, entityType models.EntityType, payload string, mutate func(*models.Record)) models.Record {
	t.Helper()

	now := time.Now().UTC()
	rec := models.Record{
		LocalID:      fmt.Sprintf("local-%d", time.Now().UnixNano()),
		EntityType:   entityType,
		Payload:      json.RawMessage(payload),
		SyncStatus:   models.StatusPending,
		LocalVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if mutate != nil {
		mutate(&rec)
	}

	require.NoError(t, storages.Records.Save(context.Background(), &rec))
	return rec
}

func serverError(status int) error {
	return &adapter.Error{Kind: adapter.KindServer, StatusCode: status, Op: "request", Err: errors.New("server error")}
}

func networkError() error {
	return &adapter.Error{Kind: adapter.KindNetwork, Op: "request", Err: errors.New("connection refused")}
}

// ── full cycle ──

func TestSyncService_SyncAll_PushesOfflineCreate(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	rec := seedRecord(t, storages, models.EntityClient, `{"name":"Acme Corp"}`, nil)

	version := int64(1)
	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		Create(gomock.Any(), models.EntityClient, gomock.Any()).
		Return(models.ServerRecord{ID: "srv-1", Version: &version, Payload: json.RawMessage(`{"name":"Acme Corp"}`)}, nil)
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), adapter.ListFilters{Limit: 200, Page: 1}).
		Return(nil, nil).
		Times(len(models.EntityTypes))

	result := svc.SyncAll(ctx)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pushed)
	assert.Empty(t, result.Errors)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	require.NotNil(t, got.ServerID)
	assert.Equal(t, "srv-1", *got.ServerID)
	require.NotNil(t, got.LastSyncedAt)

	state := svc.GetSyncState(ctx)
	assert.Zero(t, state.PendingChanges)
	assert.NotNil(t, state.LastSyncTime)
	assert.False(t, state.HasError)
}

func TestSyncService_SyncAll_OfflineLeavesRecordsUntouched(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	rec := seedRecord(t, storages, models.EntityEvent, `{"title":"kickoff"}`, nil)

	remote.EXPECT().Ping(gomock.Any()).Return(networkError())

	result := svc.SyncAll(ctx)

	assert.False(t, result.Success)
	assert.False(t, result.Skipped)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.SyncStatus)
	assert.Nil(t, got.ServerID)

	state := svc.GetSyncState(ctx)
	assert.False(t, state.IsOnline)
	assert.True(t, state.HasError)
	assert.Equal(t, offlineMessage, state.ErrorMessage)
	assert.Equal(t, 1, state.PendingChanges)
}

func TestSyncService_SyncAll_IdempotentForSyncedRecords(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-1"
	seedRecord(t, storages, models.EntityClient, `{"name":"stable"}`, func(r *models.Record) {
		r.ServerID = &serverID
		r.SyncStatus = models.StatusSynced
	})

	// no Create/Update/Delete expectations: a synced record produces no push call
	remote.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	first := svc.SyncAll(ctx)
	second := svc.SyncAll(ctx)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Zero(t, first.Pushed)
	assert.Zero(t, second.Pushed)
}

func TestSyncService_SyncAll_RetriesTransientServerError(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	for i := 1; i <= 5; i++ {
		seedRecord(t, storages, models.EntityBillingDocument,
			fmt.Sprintf(`{"number":"R-%d","amount_cents":%d}`, i, i*100), nil)
	}

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(len(models.EntityTypes))

	// the third receipt fails once with a 500, then succeeds on retry
	failedOnce := false
	calls := 0
	remote.EXPECT().
		Create(gomock.Any(), models.EntityBillingDocument, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.EntityType, payload json.RawMessage) (models.ServerRecord, error) {
			calls++
			if strings.Contains(string(payload), `"R-3"`) && !failedOnce {
				failedOnce = true
				return models.ServerRecord{}, serverError(500)
			}
			return models.ServerRecord{ID: fmt.Sprintf("srv-%d", calls)}, nil
		}).
		Times(6)

	result := svc.SyncAll(ctx)

	assert.True(t, result.Success)
	assert.Equal(t, 5, result.Pushed)
	assert.Empty(t, result.Errors)

	pending, err := storages.Records.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncService_SyncAll_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	svc, remote, _ := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})

	remote.EXPECT().
		Ping(gomock.Any()).
		DoAndReturn(func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	firstDone := make(chan models.SyncResult, 1)
	go func() { firstDone <- svc.SyncAll(ctx) }()

	<-started
	second := svc.SyncAll(ctx)
	assert.True(t, second.Skipped)

	close(release)
	first := <-firstDone
	assert.False(t, first.Skipped)
	assert.True(t, first.Success)
}

func TestSyncService_SyncAll_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	bad := seedRecord(t, storages, models.EntityClient, `{"name":"rejected"}`, nil)
	good := seedRecord(t, storages, models.EntityClient, `{"name":"accepted"}`, func(r *models.Record) {
		r.UpdatedAt = r.UpdatedAt.Add(time.Second)
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		Create(gomock.Any(), models.EntityClient, json.RawMessage(`{"name":"rejected"}`)).
		Return(models.ServerRecord{}, &adapter.Error{Kind: adapter.KindValidation, StatusCode: 400, Op: "create", Err: errors.New("bad payload")})
	remote.EXPECT().
		Create(gomock.Any(), models.EntityClient, json.RawMessage(`{"name":"accepted"}`)).
		Return(models.ServerRecord{ID: "srv-2"}, nil)
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(len(models.EntityTypes))

	result := svc.SyncAll(ctx)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Pushed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, bad.LocalID, result.Errors[0].EntityID)
	assert.Equal(t, models.ActionCreate, result.Errors[0].Action)

	gotBad, err := storages.Records.Get(ctx, bad.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, gotBad.SyncStatus)

	gotGood, err := storages.Records.Get(ctx, good.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, gotGood.SyncStatus)

	state := svc.GetSyncState(ctx)
	assert.True(t, state.HasError)
	assert.Contains(t, state.ErrorMessage, bad.LocalID)
}

// ── push delete propagation ──

func TestSyncService_SyncAll_PropagatesDeletes(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-del"
	onServer := seedRecord(t, storages, models.EntityEvent, `{"title":"remove me"}`, func(r *models.Record) {
		r.ServerID = &serverID
		r.IsDeleted = true
	})
	neverPushed := seedRecord(t, storages, models.EntityEvent, `{"title":"local only"}`, func(r *models.Record) {
		r.IsDeleted = true
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().Delete(gomock.Any(), models.EntityEvent, "srv-del").Return(nil)
	remote.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(len(models.EntityTypes))

	result := svc.SyncAll(ctx)
	assert.True(t, result.Success)

	_, err := storages.Records.Get(ctx, onServer.LocalID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	_, err = storages.Records.Get(ctx, neverPushed.LocalID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

// ── edits racing an in-flight push ──

func TestSyncService_Push_EditDuringUpdateStaysPending(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-1"
	rec := seedRecord(t, storages, models.EntityEvent, `{"title":"v1"}`, func(r *models.Record) {
		r.ServerID = &serverID
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		Update(gomock.Any(), models.EntityEvent, "srv-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, entityType models.EntityType, id string, payload json.RawMessage) (models.ServerRecord, error) {
			// an optimistic edit lands while the update is on the wire
			require.NoError(t, storages.Records.UpdatePayload(ctx, rec.LocalID, json.RawMessage(`{"title":"v2 local edit"}`)))
			return models.ServerRecord{ID: "srv-1", Payload: json.RawMessage(`{"title":"server copy"}`)}, nil
		})
	remote.EXPECT().
		List(gomock.Any(), models.EntityEvent, gomock.Any()).
		Return(nil, nil)

	result := svc.SyncEntityType(ctx, models.EntityEvent)

	assert.True(t, result.Success)
	assert.Zero(t, result.Pushed)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.SyncStatus)
	assert.JSONEq(t, `{"title":"v2 local edit"}`, string(got.Payload))
	assert.Equal(t, int64(2), got.LocalVersion)
}

func TestSyncService_Push_EditDuringCreateKeepsServerIdentity(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	rec := seedRecord(t, storages, models.EntityClient, `{"name":"v1"}`, nil)

	remote.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	remote.EXPECT().
		Create(gomock.Any(), models.EntityClient, gomock.Any()).
		DoAndReturn(func(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.ServerRecord, error) {
			require.NoError(t, storages.Records.UpdatePayload(ctx, rec.LocalID, json.RawMessage(`{"name":"v2 local edit"}`)))
			return models.ServerRecord{ID: "srv-9"}, nil
		})
	remote.EXPECT().
		List(gomock.Any(), models.EntityClient, gomock.Any()).
		Return(nil, nil).
		Times(2)

	result := svc.SyncEntityType(ctx, models.EntityClient)
	assert.True(t, result.Success)
	assert.Zero(t, result.Pushed)

	// the create reached the server, so the identity sticks while the edit
	// stays queued
	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.SyncStatus)
	assert.JSONEq(t, `{"name":"v2 local edit"}`, string(got.Payload))
	require.NotNil(t, got.ServerID)
	assert.Equal(t, "srv-9", *got.ServerID)

	// the next cycle pushes the queued edit as an update, not a second create
	remote.EXPECT().
		Update(gomock.Any(), models.EntityClient, "srv-9", gomock.Any()).
		Return(models.ServerRecord{ID: "srv-9"}, nil)

	result = svc.SyncEntityType(ctx, models.EntityClient)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pushed)

	got, err = storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	assert.JSONEq(t, `{"name":"v2 local edit"}`, string(got.Payload))
}

// ── pull phase ──

func TestSyncService_Pull_InsertsNewServerRecords(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	version := int64(4)
	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		List(gomock.Any(), models.EntityClient, gomock.Any()).
		Return([]models.ServerRecord{
			{ID: "srv-10", Version: &version, Payload: json.RawMessage(`{"id":"srv-10","name":"remote client"}`)},
		}, nil)

	result := svc.SyncEntityType(ctx, models.EntityClient)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pulled)

	got, err := storages.Records.GetByServerID(ctx, models.EntityClient, "srv-10")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	assert.JSONEq(t, `{"id":"srv-10","name":"remote client"}`, string(got.Payload))
}

func TestSyncService_Pull_ConflictNeverClobbersPendingEdit(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-7"
	rec := seedRecord(t, storages, models.EntityEvent, `{"title":"local edit"}`, func(r *models.Record) {
		r.ServerID = &serverID
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	// the concurrent server-side edit makes the push rejected outright
	remote.EXPECT().
		Update(gomock.Any(), models.EntityEvent, "srv-7", gomock.Any()).
		Return(models.ServerRecord{}, &adapter.Error{Kind: adapter.KindValidation, StatusCode: 400, Op: "update", Err: errors.New("stale version")})
	remote.EXPECT().
		List(gomock.Any(), models.EntityEvent, gomock.Any()).
		Return([]models.ServerRecord{
			{ID: "srv-7", Payload: json.RawMessage(`{"title":"server edit"}`)},
		}, nil)

	result := svc.SyncEntityType(ctx, models.EntityEvent)

	assert.Equal(t, 1, result.Conflicts)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConflict, got.SyncStatus)
	assert.JSONEq(t, `{"title":"local edit"}`, string(got.Payload))

	conflicts, err := svc.GetConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, rec.LocalID, conflicts[0].Record.LocalID)
	assert.Equal(t, models.EntityEvent, conflicts[0].EntityType)
}

func TestSyncService_Pull_SkipsUnresolvedConflicts(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-8"
	rec := seedRecord(t, storages, models.EntityClient, `{"name":"frozen"}`, func(r *models.Record) {
		r.ServerID = &serverID
		r.SyncStatus = models.StatusConflict
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		List(gomock.Any(), models.EntityClient, gomock.Any()).
		Return([]models.ServerRecord{
			{ID: "srv-8", Payload: json.RawMessage(`{"name":"server wins?"}`)},
		}, nil)

	result := svc.SyncEntityType(ctx, models.EntityClient)
	assert.True(t, result.Success)
	assert.Zero(t, result.Pulled)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConflict, got.SyncStatus)
	assert.JSONEq(t, `{"name":"frozen"}`, string(got.Payload))
}

func TestSyncService_SyncEntityType_InvalidType(t *testing.T) {
	svc, _, _ := newTestService(t)

	result := svc.SyncEntityType(context.Background(), "invoices")
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
}

// ── conflict resolution ──

func TestSyncService_ResolveConflict_KeepServer(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-9"
	rec := seedRecord(t, storages, models.EntityEvent, `{"title":"local title"}`, func(r *models.Record) {
		r.ServerID = &serverID
		r.SyncStatus = models.StatusConflict
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		List(gomock.Any(), models.EntityEvent, gomock.Any()).
		Return([]models.ServerRecord{
			{ID: "srv-9", Payload: json.RawMessage(`{"title":"server title"}`)},
		}, nil)

	err := svc.ResolveConflict(ctx, models.ResolveConflictRequest{
		EntityType: models.EntityEvent,
		LocalID:    rec.LocalID,
		Resolution: models.ResolutionKeepServer,
	})
	require.NoError(t, err)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	assert.JSONEq(t, `{"title":"server title"}`, string(got.Payload))
}

func TestSyncService_ResolveConflict_KeepLocal(t *testing.T) {
	ctx := context.Background()
	svc, remote, storages := newTestService(t)

	serverID := "srv-11"
	rec := seedRecord(t, storages, models.EntityClient, `{"name":"mine"}`, func(r *models.Record) {
		r.ServerID = &serverID
		r.SyncStatus = models.StatusConflict
	})

	remote.EXPECT().Ping(gomock.Any()).Return(nil)
	remote.EXPECT().
		Update(gomock.Any(), models.EntityClient, "srv-11", json.RawMessage(`{"name":"mine"}`)).
		Return(models.ServerRecord{ID: "srv-11"}, nil)
	remote.EXPECT().
		List(gomock.Any(), models.EntityClient, gomock.Any()).
		Return([]models.ServerRecord{
			{ID: "srv-11", Payload: json.RawMessage(`{"name":"mine"}`)},
		}, nil)

	err := svc.ResolveConflict(ctx, models.ResolveConflictRequest{
		EntityType: models.EntityClient,
		LocalID:    rec.LocalID,
		Resolution: models.ResolutionKeepLocal,
	})
	require.NoError(t, err)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	assert.JSONEq(t, `{"name":"mine"}`, string(got.Payload))
}

func TestSyncService_ResolveConflict_MergeDefersToCaller(t *testing.T) {
	ctx := context.Background()
	svc, _, storages := newTestService(t)

	rec := seedRecord(t, storages, models.EntityClient, `{"name":"merge me"}`, func(r *models.Record) {
		r.SyncStatus = models.StatusConflict
	})

	err := svc.ResolveConflict(ctx, models.ResolveConflictRequest{
		EntityType: models.EntityClient,
		LocalID:    rec.LocalID,
		Resolution: models.ResolutionMerge,
	})
	require.NoError(t, err)

	got, err := storages.Records.Get(ctx, rec.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.SyncStatus)
	assert.Equal(t, int64(2), got.LocalVersion)
}

func TestSyncService_ResolveConflict_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, storages := newTestService(t)

	notConflicted := seedRecord(t, storages, models.EntityClient, `{}`, nil)

	err := svc.ResolveConflict(ctx, models.ResolveConflictRequest{
		LocalID:    notConflicted.LocalID,
		Resolution: models.ResolutionKeepLocal,
	})
	assert.ErrorIs(t, err, ErrRecordNotConflicted)

	err = svc.ResolveConflict(ctx, models.ResolveConflictRequest{
		LocalID:    notConflicted.LocalID,
		Resolution: "overwrite_everything",
	})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}
