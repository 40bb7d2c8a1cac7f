package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feed-service/internal/models"
)

var ErrFeedNotFound = errors.New("feed configuration not found")

// FeedRepository defines feed configuration persistence.
type FeedRepository interface {
	Create(ctx context.Context, feed *models.FeedConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FeedConfig, error)
	List(ctx context.Context) ([]models.FeedConfig, error)
	ListScheduled(ctx context.Context) ([]models.FeedConfig, error)
	Update(ctx context.Context, feed *models.FeedConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// feedRepository is the gorm-backed implementation.
type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// Create creates a new feed configuration
func (r *feedRepository) Create(ctx context.Context, feed *models.FeedConfig) error {
	return r.db.WithContext(ctx).Create(feed).Error
}

// GetByID retrieves a feed configuration by ID
func (r *feedRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeedConfig, error) {
	var feed models.FeedConfig
	if err := r.db.WithContext(ctx).First(&feed, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedNotFound
		}
		return nil, err
	}
	return &feed, nil
}

// List retrieves all feed configurations
func (r *feedRepository) List(ctx context.Context) ([]models.FeedConfig, error) {
	var feeds []models.FeedConfig
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

// ListScheduled retrieves feeds whose schedule is enabled
func (r *feedRepository) ListScheduled(ctx context.Context) ([]models.FeedConfig, error) {
	var feeds []models.FeedConfig
	err := r.db.WithContext(ctx).
		Where("schedule ->> 'enabled' = 'true'").
		Order("created_at ASC").
		Find(&feeds).Error
	if err != nil {
		return nil, err
	}
	return feeds, nil
}

// Update persists a modified feed configuration
func (r *feedRepository) Update(ctx context.Context, feed *models.FeedConfig) error {
	return r.db.WithContext(ctx).Save(feed).Error
}

// Delete soft-deletes a feed configuration
func (r *feedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FeedConfig{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedNotFound
	}
	return nil
}
