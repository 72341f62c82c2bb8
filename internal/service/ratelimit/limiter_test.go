package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)}
	l := New()
	l.now = clk.now
	return l, clk
}

func TestReserveConsumesCapacity(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter()

	require.Zero(t, l.reserve("fmp", 2, 1))
	require.Zero(t, l.reserve("fmp", 2, 1))
	require.NotZero(t, l.reserve("fmp", 2, 1))
}

func TestReserveRefills(t *testing.T) {
	t.Parallel()

	l, clk := newTestLimiter()
	require.Zero(t, l.reserve("fmp", 1, 2))
	require.NotZero(t, l.reserve("fmp", 1, 2))

	clk.advance(500 * time.Millisecond)

	require.Zero(t, l.reserve("fmp", 1, 2))
}

func TestReserveKeysAreIndependent(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter()
	require.Zero(t, l.reserve("fmp", 1, 1))

	require.Zero(t, l.reserve("alphavantage", 1, 1))
}

func TestReserveFractionalCapacityHoldsOneToken(t *testing.T) {
	t.Parallel()

	// Arrange: half a token of capacity still admits one call per refill.
	l, clk := newTestLimiter()
	require.Zero(t, l.reserve("fmp", 0.5, 10))
	require.Equal(t, 100*time.Millisecond, l.reserve("fmp", 0.5, 10))

	// Act
	clk.advance(100 * time.Millisecond)

	// Assert
	require.Zero(t, l.reserve("fmp", 0.5, 10))
}

func TestReserveReportsWait(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter()
	require.Zero(t, l.reserve("fmp", 1, 4))

	require.Equal(t, 250*time.Millisecond, l.reserve("fmp", 1, 4))
}

func TestWaitDisabled(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter()
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(t.Context(), "fmp", 0, 0))
	}
}

func TestWaitHonoursContext(t *testing.T) {
	t.Parallel()

	// Arrange: the frozen clock never refills the bucket.
	l, _ := newTestLimiter()
	require.NoError(t, l.Wait(t.Context(), "fmp", 1, 0.001))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	// Act
	err := l.Wait(ctx, "fmp", 1, 0.001)

	// Assert
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitFractionalCapacityDoesNotStall(t *testing.T) {
	t.Parallel()

	l := New()
	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "fmp", 0.5, 10))
	require.NoError(t, l.Wait(ctx, "fmp", 0.5, 10))
	require.Less(t, time.Since(start), 500*time.Millisecond)
}
