package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func succeeding() error { return nil }

func TestCircuitBreaker(t *testing.T) {
	t.Run("stays closed on success", func(t *testing.T) {
		cb := New("test", Config{FailureThreshold: 3})

		for i := 0; i < 10; i++ {
			require.NoError(t, cb.Execute(context.Background(), succeeding))
		}
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb := New("test", Config{FailureThreshold: 3, Cooldown: time.Minute})

		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(context.Background(), failing), errBoom)
		}
		assert.Equal(t, StateOpen, cb.State())

		err := cb.Execute(context.Background(), succeeding)
		assert.ErrorIs(t, err, ErrCircuitOpen)
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		cb := New("test", Config{FailureThreshold: 3, Cooldown: time.Minute})

		cb.Execute(context.Background(), failing)
		cb.Execute(context.Background(), failing)
		cb.Execute(context.Background(), succeeding)
		cb.Execute(context.Background(), failing)
		cb.Execute(context.Background(), failing)

		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("probes after cooldown and closes on success", func(t *testing.T) {
		cb := New("test", Config{
			FailureThreshold: 1,
			SuccessThreshold: 2,
			Cooldown:         10 * time.Millisecond,
		})

		require.ErrorIs(t, cb.Execute(context.Background(), failing), errBoom)
		require.Equal(t, StateOpen, cb.State())

		time.Sleep(15 * time.Millisecond)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(context.Background(), succeeding))
		assert.Equal(t, StateHalfOpen, cb.State())
		require.NoError(t, cb.Execute(context.Background(), succeeding))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("half open failure reopens immediately", func(t *testing.T) {
		cb := New("test", Config{
			FailureThreshold: 1,
			Cooldown:         10 * time.Millisecond,
		})

		cb.Execute(context.Background(), failing)
		time.Sleep(15 * time.Millisecond)
		require.Equal(t, StateHalfOpen, cb.State())

		cb.Execute(context.Background(), failing)
		assert.Equal(t, StateOpen, cb.State())

		assert.ErrorIs(t, cb.Execute(context.Background(), succeeding), ErrCircuitOpen)
	})

	t.Run("cancelled context is not executed", func(t *testing.T) {
		cb := New("test", Config{FailureThreshold: 1})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := cb.Execute(ctx, func() error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
