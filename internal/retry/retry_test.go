package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxRetries:        3,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2,
		RetryableStatuses: DefaultRetryableStatuses(),
		RetryableKinds:    DefaultRetryableKinds(),
	}
}

func transportErr(kind adapter.Kind, status int) error {
	return &adapter.Error{Kind: kind, StatusCode: status, Op: "test", Err: errors.New("boom")}
}

// A permanently failing retryable operation is invoked exactly
// 1 initial + MaxRetries times, then the final error propagates.
func TestDo_RetryBoundedness(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (int, error) {
		calls++
		return 0, transportErr(adapter.KindNetwork, 0)
	})

	require.Error(t, err)
	assert.Equal(t, adapter.KindNetwork, adapter.KindOf(err))
	assert.Equal(t, 4, calls, "expected 1 initial attempt + 3 retries")
}

// Validation errors are never retried: retrying a 400 can never succeed.
func TestDo_ValidationFailsFast(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (int, error) {
		calls++
		return 0, transportErr(adapter.KindValidation, 400)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_AuthFailsFast(t *testing.T) {
	calls := 0
	err := DoErr(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) error {
		calls++
		return transportErr(adapter.KindAuth, 401)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

// Non-transport errors (logic bugs, decode failures outside the adapter) are
// not retried either.
func TestDo_NonTransportFailsFast(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("plain error")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

// 429 carries KindUnknown but its status code is in the retryable set.
func TestDo_RetryableStatusCode(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", transportErr(adapter.KindUnknown, 429)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDo_SucceedsAfterTransientServerError(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, transportErr(adapter.KindServer, 500)
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Equal(t, 2, calls)
}

func TestDo_FirstTrySuccessNoSleep(t *testing.T) {
	start := time.Now()
	result, err := Do(context.Background(), fastConfig(), logger.Nop(), "op", func(ctx context.Context) (bool, error) {
		return true, nil
	})

	require.NoError(t, err)
	assert.True(t, result)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = time.Minute
	cfg.MaxDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, logger.Nop(), "op", func(ctx context.Context) (int, error) {
		return 0, transportErr(adapter.KindNetwork, 0)
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigDelay_CappedAndNonNegative(t *testing.T) {
	cfg := Config{
		InitialDelay:      time.Second,
		MaxDelay:          2 * time.Second,
		BackoffMultiplier: 10,
	}

	for attempt := 0; attempt < 6; attempt++ {
		d := cfg.delay(attempt)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 2*time.Second)
	}
}

func TestConfigDelay_JitterWithinBounds(t *testing.T) {
	cfg := Config{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          time.Hour,
		BackoffMultiplier: 2,
	}

	// attempt 1 → exponential term 200ms, jitter ±30% → [140ms, 260ms]
	for i := 0; i < 50; i++ {
		d := cfg.delay(1)
		assert.GreaterOrEqual(t, d, 140*time.Millisecond)
		assert.LessOrEqual(t, d, 260*time.Millisecond)
	}
}

func TestNewConfig_FromClientConfig(t *testing.T) {
	cfg := NewConfig(config.ClientRetry{
		MaxRetries:        5,
		InitialDelay:      time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
	})

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Contains(t, cfg.RetryableStatuses, 503)
	assert.Contains(t, cfg.RetryableKinds, adapter.KindTimeout)
	assert.NotContains(t, cfg.RetryableKinds, adapter.KindValidation)
}
