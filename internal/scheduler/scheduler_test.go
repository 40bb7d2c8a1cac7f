package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGuardSingleFlight(t *testing.T) {
	g := NewRunGuard(nil)
	feedID := uuid.NewString()

	release, ok := g.TryAcquire(feedID)
	require.True(t, ok)
	assert.True(t, g.IsRunning(feedID))

	// second attempt for the same feed is rejected, not queued
	_, ok = g.TryAcquire(feedID)
	assert.False(t, ok)

	// a different feed still gets a slot
	otherRelease, ok := g.TryAcquire(uuid.NewString())
	require.True(t, ok)
	otherRelease()

	release()
	assert.False(t, g.IsRunning(feedID))

	release, ok = g.TryAcquire(feedID)
	require.True(t, ok)
	release()
}

func TestRunGuardGlobalCap(t *testing.T) {
	g := NewRunGuard(&GuardConfig{MaxConcurrentRuns: 2, RunTimeout: time.Minute})

	r1, ok := g.TryAcquire(uuid.NewString())
	require.True(t, ok)
	r2, ok := g.TryAcquire(uuid.NewString())
	require.True(t, ok)

	_, ok = g.TryAcquire(uuid.NewString())
	assert.False(t, ok)
	assert.Equal(t, 2, g.ActiveRuns())

	r1()
	r3, ok := g.TryAcquire(uuid.NewString())
	require.True(t, ok)
	r3()
	r2()
	assert.Equal(t, 0, g.ActiveRuns())
}

func TestRunGuardCleanup(t *testing.T) {
	g := NewRunGuard(nil)
	feedID := uuid.NewString()

	release, ok := g.TryAcquire(feedID)
	require.True(t, ok)
	release()

	g.Cleanup()
	stats := g.Stats()
	assert.Equal(t, 0, stats["trackedFeeds"])

	// acquiring after cleanup gets a fresh semaphore
	release, ok = g.TryAcquire(feedID)
	require.True(t, ok)
	release()
}

func TestRunGuardCleanupSafeForConcurrentAcquire(t *testing.T) {
	g := NewRunGuard(nil)
	feedID := uuid.NewString()

	// a racing TryAcquire may fetch the semaphore just before cleanup runs;
	// sending into it afterwards must not panic
	sem := g.getOrCreateFeedSem(feedID)
	g.Cleanup()
	assert.NotPanics(t, func() {
		sem <- struct{}{}
		<-sem
	})

	// a feed holding its slot survives cleanup and stays single-flight
	release, ok := g.TryAcquire(feedID)
	require.True(t, ok)
	g.Cleanup()
	_, ok = g.TryAcquire(feedID)
	assert.False(t, ok)
	release()
}

func TestSchedulerFiresAndReplaces(t *testing.T) {
	var fired int64
	s := New(func(uuid.UUID) { atomic.AddInt64(&fired, 1) }, nil)
	feedID := uuid.New()

	require.NoError(t, s.Schedule(feedID, "@every 20ms"))
	assert.True(t, s.Scheduled(feedID))
	assert.Equal(t, 1, s.Count())

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&fired) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	// replacing keeps a single entry
	require.NoError(t, s.Schedule(feedID, "@every 1h"))
	assert.Equal(t, 1, s.Count())
}

func TestSchedulerUnschedule(t *testing.T) {
	var fired int64
	s := New(func(uuid.UUID) { atomic.AddInt64(&fired, 1) }, nil)
	feedID := uuid.New()

	require.NoError(t, s.Schedule(feedID, "@every 10ms"))
	s.Unschedule(feedID)
	assert.False(t, s.Scheduled(feedID))
	assert.Equal(t, 0, s.Count())

	s.Start()
	defer s.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&fired))
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	s := New(func(uuid.UUID) {}, nil)
	err := s.Schedule(uuid.New(), "not a cron spec")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestSpecForInterval(t *testing.T) {
	assert.Equal(t, "@every 30m", SpecForInterval(30))
}
