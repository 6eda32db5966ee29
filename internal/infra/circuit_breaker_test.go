package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func testBreaker() *Breaker {
	return NewBreaker(BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	})
}

func fail(b *Breaker) error { return b.Do(func() error { return errBoom }) }
func ok(b *Breaker) error   { return b.Do(func() error { return nil }) }

func TestBreakerStartsClosed(t *testing.T) {
	b := testBreaker()
	assert.Equal(t, BreakerClosed, b.State())
	assert.NoError(t, ok(b))
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := testBreaker()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, fail(b), errBoom)
	}

	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Do(func() error {
		t.Fatal("fn must not run while open")
		return nil
	}), ErrBreakerOpen)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := testBreaker()

	require.Error(t, fail(b))
	require.Error(t, fail(b))
	require.NoError(t, ok(b))
	require.Error(t, fail(b))
	require.Error(t, fail(b))

	// Never three consecutive failures, so still closed.
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	b := testBreaker()
	for i := 0; i < 3; i++ {
		_ = fail(b)
	}
	require.Equal(t, BreakerOpen, b.State())

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, BreakerHalfOpen, b.State())
}

func TestBreakerClosesAfterProbeSuccesses(t *testing.T) {
	b := testBreaker()
	for i := 0; i < 3; i++ {
		_ = fail(b)
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, BreakerHalfOpen, b.State())

	require.NoError(t, ok(b))
	require.NoError(t, ok(b))

	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerReopensOnProbeFailure(t *testing.T) {
	b := testBreaker()
	for i := 0; i < 3; i++ {
		_ = fail(b)
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, BreakerHalfOpen, b.State())

	require.Error(t, fail(b))

	assert.Equal(t, BreakerOpen, b.State())
}

func TestBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
}
