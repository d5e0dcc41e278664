package circuit_breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	successfulService := func() error { return nil }
	errService := errors.New("service error")
	failingService := func() error { return errService }

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := New(4, time.Second, 0.5, 2).(*circuitBreaker)
	cb.now = func() time.Time { return clock }

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(successfulService))
	}
	require.Equal(t, Closed, cb.State())

	require.ErrorIs(t, cb.Call(failingService), errService)
	require.Equal(t, Closed, cb.State())
	require.ErrorIs(t, cb.Call(failingService), errService)
	require.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrOpenCB)
	require.False(t, called)

	clock = clock.Add(2 * time.Second)
	require.NoError(t, cb.Call(successfulService))
	require.Equal(t, HalfOpen, cb.State())

	require.ErrorIs(t, cb.Call(failingService), errService)
	require.Equal(t, Open, cb.State())

	clock = clock.Add(2 * time.Second)
	require.NoError(t, cb.Call(successfulService))
	require.NoError(t, cb.Call(successfulService))
	require.Equal(t, Closed, cb.State())
}

func Test_circuitBreaker_Reset(t *testing.T) {
	t.Parallel()

	cb := New(1, time.Hour, 1, 1)
	require.Error(t, cb.Call(func() error { return errors.New("boom") }))
	require.Equal(t, Open, cb.State())

	cb.Reset()
	require.Equal(t, Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
