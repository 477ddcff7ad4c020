// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// ConnectivityMonitor periodically probes remote reachability, feeds the
// verdict into the sync orchestrator's state, and triggers a full sync on
// every offline-to-online transition. The monitor is the only source of
// spontaneous sync triggering in the process.
type ConnectivityMonitor struct {
	pinger   Pinger
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger

	online atomic.Bool
}

func NewConnectivityMonitor(pinger Pinger, syncer Syncer, interval time.Duration, log *logger.Logger) *ConnectivityMonitor {
	m := &ConnectivityMonitor{
		pinger:   pinger,
		syncer:   syncer,
		interval: interval,
		logger:   log,
	}
	// assume reachable at startup so the first successful probe is not
	// mistaken for a reconnect
	m.online.Store(true)
	return m
}

// Online reports the verdict of the most recent probe.
func (m *ConnectivityMonitor) Online() bool {
	return m.online.Load()
}

// Run probes immediately, then on every interval tick, until ctx is
// cancelled.
func (m *ConnectivityMonitor) Run(ctx context.Context) {
	ctx = m.logger.WithContext(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Debug().Str("func", "ConnectivityMonitor.Run").Msg("connectivity monitor stopped")
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *ConnectivityMonitor) probe(ctx context.Context) {
	online := m.pinger.Ping(ctx) == nil
	wasOnline := m.online.Swap(online)
	m.syncer.SetOnline(ctx, online)

	switch {
	case online && !wasOnline:
		m.logger.Info().Str("func", "ConnectivityMonitor.probe").Msg("back online, triggering full sync")
		m.syncer.SyncAll(ctx)
	case !online && wasOnline:
		m.logger.Warn().Str("func", "ConnectivityMonitor.probe").Msg("remote became unreachable")
	}
}
