package scheduler

import (
	"sync"
	"time"
)

// GuardConfig bounds concurrent feed generation.
type GuardConfig struct {
	MaxConcurrentRuns int           // across all feeds
	RunTimeout        time.Duration // max duration for a single run
}

// DefaultGuardConfig returns production defaults.
func DefaultGuardConfig() *GuardConfig {
	return &GuardConfig{
		MaxConcurrentRuns: 4,
		RunTimeout:        10 * time.Minute,
	}
}

// RunGuard enforces single-flight generation per feed plus a global cap. A
// feed that is already running is rejected immediately, never queued; the
// caller maps that to a conflict response or a skipped scheduled run.
type RunGuard struct {
	mu         sync.RWMutex
	feedSems   map[string]chan struct{}
	globalSem  chan struct{}
	config     *GuardConfig
	activeRuns map[string]time.Time // feed id -> run start
}

// NewRunGuard creates a run guard.
func NewRunGuard(config *GuardConfig) *RunGuard {
	if config == nil {
		config = DefaultGuardConfig()
	}
	return &RunGuard{
		feedSems:   make(map[string]chan struct{}),
		globalSem:  make(chan struct{}, config.MaxConcurrentRuns),
		config:     config,
		activeRuns: make(map[string]time.Time),
	}
}

func (g *RunGuard) getOrCreateFeedSem(feedID string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sem, exists := g.feedSems[feedID]; exists {
		return sem
	}
	sem := make(chan struct{}, 1)
	g.feedSems[feedID] = sem
	return sem
}

// TryAcquire attempts to claim the feed's run slot without blocking. Returns
// a release function that must be called when the run finishes.
func (g *RunGuard) TryAcquire(feedID string) (func(), bool) {
	feedSem := g.getOrCreateFeedSem(feedID)
	select {
	case feedSem <- struct{}{}:
	default:
		return nil, false
	}

	select {
	case g.globalSem <- struct{}{}:
	default:
		<-feedSem
		return nil, false
	}

	g.mu.Lock()
	g.activeRuns[feedID] = time.Now()
	g.mu.Unlock()

	release := func() {
		g.mu.Lock()
		delete(g.activeRuns, feedID)
		g.mu.Unlock()

		<-g.globalSem
		<-feedSem
	}
	return release, true
}

// IsRunning reports whether the feed currently holds its run slot.
func (g *RunGuard) IsRunning(feedID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.activeRuns[feedID]
	return ok
}

// ActiveRuns returns the number of in-flight generation runs.
func (g *RunGuard) ActiveRuns() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.activeRuns)
}

// RunTimeout exposes the configured per-run deadline.
func (g *RunGuard) RunTimeout() time.Duration {
	return g.config.RunTimeout
}

// Stats returns guard statistics for the health endpoint.
func (g *RunGuard) Stats() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	running := make(map[string]string, len(g.activeRuns))
	for id, started := range g.activeRuns {
		running[id] = time.Since(started).Truncate(time.Millisecond).String()
	}
	return map[string]interface{}{
		"maxConcurrentRuns": g.config.MaxConcurrentRuns,
		"runTimeout":        g.config.RunTimeout.String(),
		"activeRuns":        running,
		"trackedFeeds":      len(g.feedSems),
	}
}

// Cleanup unlinks semaphores for feeds with no run in flight. Semaphores are
// never closed: a concurrent TryAcquire may already hold a reference and send
// into one, so idle channels are only dropped from the map and left for GC.
func (g *RunGuard) Cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for feedID, sem := range g.feedSems {
		if len(sem) == 0 {
			delete(g.feedSems, feedID)
		}
	}
}
