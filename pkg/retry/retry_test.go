package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/vip-store/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func TestDo(t *testing.T) {
	fast := retry.LinearBackoff(time.Millisecond)

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), retry.RetryConfig{
			MaxAttempts: 3, Backoff: fast,
		}, func() error {
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), retry.RetryConfig{
			MaxAttempts: 2, Backoff: fast,
		}, func() error {
			calls++
			return errTemporary
		})
		assert.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
	})

	t.Run("NonRetryable", func(t *testing.T) {
		permanent := errors.New("permanent")
		var calls int
		err := retry.Do(t.Context(), retry.RetryConfig{
			MaxAttempts: 5,
			Backoff:     fast,
			ShouldRetry: func(err error) bool { return !errors.Is(err, permanent) },
		}, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("ZeroAttemptsRunsOnce", func(t *testing.T) {
		var calls int
		_ = retry.Do(t.Context(), retry.RetryConfig{}, func() error {
			calls++
			return nil
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		err := retry.Do(ctx, retry.RetryConfig{
			MaxAttempts: 3, Backoff: retry.LinearBackoff(time.Hour),
		}, func() error {
			cancel()
			return errTemporary
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errTemporary)
	})
}

func TestDoWithResult(t *testing.T) {
	var calls int
	v, err := retry.DoWithResult(t.Context(), retry.RetryConfig{
		MaxAttempts: 2, Backoff: retry.LinearBackoff(time.Millisecond),
	}, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errTemporary
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
