package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// GetSyncState rebuilds the snapshot exposed to callers. The snapshot is
// derived from the store, the connectivity flag, and the in-progress guard on
// every call and is never itself a source of truth.
func (s *SyncService) GetSyncState(ctx context.Context) models.SyncState {
	log := logger.FromContext(ctx)

	state := models.SyncState{
		IsOnline:  s.online.Load(),
		IsSyncing: s.syncing.Load(),
	}

	pending, err := s.records.CountPending(ctx)
	if err != nil {
		log.Err(err).Str("func", "SyncService.GetSyncState").Msg("failed to count pending records")
	}
	state.PendingChanges = pending

	if raw, err := s.kv.Get(ctx, kvLastFullSync); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			state.LastSyncTime = &t
		}
	}

	if msg, err := s.kv.Get(ctx, kvLastSyncError); err == nil && msg != "" {
		state.HasError = true
		state.ErrorMessage = msg
	}

	return state
}

// AddSyncListener subscribes fn to state change notifications. The returned
// function unsubscribes it; calling it more than once is harmless.
func (s *SyncService) AddSyncListener(fn func(models.SyncState)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// notify rebuilds the state snapshot and delivers it to every subscribed
// listener.
func (s *SyncService) notify(ctx context.Context) {
	state := s.GetSyncState(ctx)

	s.listenersMu.Lock()
	listeners := make([]func(models.SyncState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
