package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"feed-service/internal/models"
	"feed-service/internal/repository"
	"feed-service/internal/scheduler"
)

// ErrInvalidSchedule flags a schedule that is enabled but has no usable spec.
var ErrInvalidSchedule = errors.New("invalid feed schedule")

// ScheduleRegistry is the scheduler surface the feed service needs.
type ScheduleRegistry interface {
	Schedule(feedID uuid.UUID, spec string) error
	Unschedule(feedID uuid.UUID)
}

// FeedService owns feed configuration lifecycle: CRUD plus keeping the cron
// registry in step with every mutation.
type FeedService struct {
	repo     repository.FeedRepository
	registry ScheduleRegistry
	logger   *logrus.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(repo repository.FeedRepository, registry ScheduleRegistry, logger *logrus.Logger) *FeedService {
	if logger == nil {
		logger = logrus.New()
	}
	return &FeedService{repo: repo, registry: registry, logger: logger}
}

// Create validates and persists a new feed, registering its schedule when
// enabled.
func (s *FeedService) Create(ctx context.Context, req *models.CreateFeedRequest) (*models.FeedConfig, error) {
	feed := &models.FeedConfig{
		Name:     req.Name,
		Settings: req.Settings,
		Schedule: req.Schedule,
	}
	feed.Schedule.LastStatus = models.RunStatusNever

	if err := validateSchedule(&feed.Schedule); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, feed); err != nil {
		return nil, fmt.Errorf("create feed: %w", err)
	}
	s.applySchedule(feed)
	return feed, nil
}

// Get retrieves one feed configuration
func (s *FeedService) Get(ctx context.Context, id uuid.UUID) (*models.FeedConfig, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all feed configurations
func (s *FeedService) List(ctx context.Context) ([]models.FeedConfig, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update: only fields present in the payload
// override the stored configuration. The schedule is recomputed and the cron
// entry replaced.
func (s *FeedService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateFeedRequest) (*models.FeedConfig, error) {
	feed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		feed.Name = *req.Name
	}
	mergeSettings(&feed.Settings, req.Settings)
	mergeSchedule(&feed.Schedule, req.Schedule)

	if err := validateSchedule(&feed.Schedule); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, feed); err != nil {
		return nil, fmt.Errorf("update feed: %w", err)
	}
	s.applySchedule(feed)
	return feed, nil
}

// Delete removes the feed and tears down its cron entry.
func (s *FeedService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.registry.Unschedule(id)
	return nil
}

// SyncSchedules registers cron entries for every enabled feed. Called once
// at startup before the scheduler starts.
func (s *FeedService) SyncSchedules(ctx context.Context) error {
	feeds, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("list scheduled feeds: %w", err)
	}
	for i := range feeds {
		s.applySchedule(&feeds[i])
	}
	s.logger.WithField("count", len(feeds)).Info("feed schedules synced")
	return nil
}

// applySchedule reconciles the cron registry with the feed's current
// schedule state.
func (s *FeedService) applySchedule(feed *models.FeedConfig) {
	spec := feed.ScheduleSpec()
	if spec == "" {
		s.registry.Unschedule(feed.ID)
		return
	}
	if err := s.registry.Schedule(feed.ID, spec); err != nil {
		s.logger.WithError(err).WithField("feedId", feed.ID).Error("schedule registration failed")
	}
}

func validateSchedule(sched *models.FeedSchedule) error {
	if !sched.Enabled {
		return nil
	}
	if sched.Cron == "" && sched.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: enabled schedule needs cron or intervalMinutes", ErrInvalidSchedule)
	}
	if sched.Cron != "" {
		if err := scheduler.ValidateSpec(sched.Cron); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}
	return nil
}

func mergeSettings(dst *models.FeedSettings, patch *models.FeedSettingsPatch) {
	if patch == nil {
		return
	}
	if patch.Categories != nil {
		dst.Categories = *patch.Categories
	}
	if patch.ExcludeKeywords != nil {
		dst.ExcludeKeywords = *patch.ExcludeKeywords
	}
	if patch.ExcludeSkus != nil {
		dst.ExcludeSkus = *patch.ExcludeSkus
	}
	if patch.IncludeOnlyActive != nil {
		dst.IncludeOnlyActive = *patch.IncludeOnlyActive
	}
	if patch.IncludeOnlyInStock != nil {
		dst.IncludeOnlyInStock = *patch.IncludeOnlyInStock
	}
	if patch.OutputFileName != nil {
		dst.OutputFileName = *patch.OutputFileName
	}
}

func mergeSchedule(dst *models.FeedSchedule, patch *models.FeedSchedulePatch) {
	if patch == nil {
		return
	}
	if patch.Enabled != nil {
		dst.Enabled = *patch.Enabled
	}
	if patch.Cron != nil {
		dst.Cron = *patch.Cron
	}
	if patch.IntervalMinutes != nil {
		dst.IntervalMinutes = *patch.IntervalMinutes
	}
}
