package scheduler

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunFunc executes one scheduled generation for a feed.
type RunFunc func(feedID uuid.UUID)

// Scheduler drives periodic feed generation. One cron entry per feed;
// Schedule replaces any previous entry for the same feed.
type Scheduler struct {
	cron   *cron.Cron
	run    RunFunc
	logger *logrus.Logger

	mu      sync.Mutex
	entries map[uuid.UUID]cron.EntryID
}

// New creates a stopped scheduler; call Start after the enabled feeds have
// been registered.
func New(run RunFunc, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:    cron.New(),
		run:     run,
		logger:  logger,
		entries: make(map[uuid.UUID]cron.EntryID),
	}
}

// Start begins firing schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight runs started by cron.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Schedule registers (or replaces) the cron entry for a feed.
func (s *Scheduler) Schedule(feedID uuid.UUID, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[feedID]; ok {
		s.cron.Remove(old)
		delete(s.entries, feedID)
	}

	id := feedID
	entryID, err := s.cron.AddFunc(spec, func() { s.run(id) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for feed %s: %w", spec, feedID, err)
	}
	s.entries[feedID] = entryID
	s.logger.WithFields(logrus.Fields{"feedId": feedID, "spec": spec}).Info("feed schedule registered")
	return nil
}

// Unschedule removes the feed's cron entry if present.
func (s *Scheduler) Unschedule(feedID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[feedID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, feedID)
		s.logger.WithField("feedId", feedID).Info("feed schedule removed")
	}
}

// Scheduled reports whether the feed has an active cron entry.
func (s *Scheduler) Scheduled(feedID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[feedID]
	return ok
}

// Count returns the number of registered schedules.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SpecForInterval converts a minute interval into a cron spec.
func SpecForInterval(minutes int) string {
	return fmt.Sprintf("@every %dm", minutes)
}

// ValidateSpec reports whether a cron spec parses, without registering it.
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
