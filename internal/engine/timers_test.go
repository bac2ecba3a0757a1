package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not stop")
	}
}

func TestCountdownRunsBreakToCompletion(t *testing.T) {
	f := newFixture(t, &memStore{}, WithBreakTick(time.Millisecond))
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	done := f.svc.StartCountdown(ctx)
	waitClosed(t, done)

	s := f.svc.State()
	assert.False(t, s.BreakActive)
	assert.True(t, s.BreakHistory[0].Completed)
	assert.Equal(t, BreakDurationSeconds, s.BreakTimeLeft)
	assert.False(t, f.svc.CountdownRunning())
	assert.False(t, f.store.stored(t).BreakActive)
}

func TestEndBreakStopsCountdown(t *testing.T) {
	f := newFixture(t, &memStore{}, WithBreakTick(time.Hour))
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	done := f.svc.StartCountdown(ctx)
	require.True(t, f.svc.CountdownRunning())

	require.NoError(t, f.svc.EndBreak(ctx, false))
	waitClosed(t, done)
	assert.False(t, f.svc.CountdownRunning())
	assert.False(t, f.svc.State().BreakHistory[0].Completed)
}

func TestCountdownStopsWithContext(t *testing.T) {
	f := newFixture(t, &memStore{}, WithBreakTick(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	done := f.svc.StartCountdown(ctx)
	cancel()
	waitClosed(t, done)

	// the break itself keeps running until it is ended explicitly
	assert.True(t, f.svc.State().BreakActive)
	assert.False(t, f.svc.CountdownRunning())
}

func TestRestartedCountdownReplacesPrevious(t *testing.T) {
	f := newFixture(t, &memStore{}, WithBreakTick(time.Hour))
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	first := f.svc.StartCountdown(ctx)
	second := f.svc.StartCountdown(ctx)
	waitClosed(t, first)
	assert.True(t, f.svc.CountdownRunning())

	f.svc.Close(ctx)
	waitClosed(t, second)
	assert.False(t, f.svc.CountdownRunning())
}

func TestStartCountdownWithoutBreak(t *testing.T) {
	f := newFixture(t, &memStore{})
	waitClosed(t, f.svc.StartCountdown(context.Background()))
	assert.False(t, f.svc.CountdownRunning())
}

func TestTrackActivityAccumulatesMinutes(t *testing.T) {
	f := newFixture(t, &memStore{})
	f.clock.mu.Lock()
	f.clock.step = time.Minute
	f.clock.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		f.svc.TrackActivity(ctx, time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		return f.svc.State().Analytics.TotalActiveTimeMinutes >= 3
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	waitClosed(t, stopped)
}
