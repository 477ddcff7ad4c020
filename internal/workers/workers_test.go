// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingWorker is a test implementation of the Worker interface that tracks
// how many times Run was called.
type countingWorker struct {
	mu       sync.Mutex
	runCount int
}

func (m *countingWorker) Run(ctx context.Context) {
	m.mu.Lock()
	m.runCount++
	m.mu.Unlock()
	<-ctx.Done()
}

func (m *countingWorker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCount
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w1 := &countingWorker{}
	w2 := &countingWorker{}
	w3 := &countingWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(ctx)

	cancel()
	ws.Wait()

	for i, w := range []*countingWorker{w1, w2, w3} {
		assert.Equal(t, 1, w.count(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// should not panic and Wait should return immediately
	ws.Run(context.Background())
	ws.Wait()
}

func TestWorkers_Wait_BlocksUntilWorkersStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ws := NewWorkers(&countingWorker{})
	ws.Run(ctx)

	done := make(chan struct{})
	go func() {
		ws.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the worker was stopped")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
