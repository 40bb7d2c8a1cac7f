package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"feed-service/internal/models"
)

// CategoryTreeCacheTTL bounds staleness of the cached tree. Categories rarely
// change.
const CategoryTreeCacheTTL = 15 * time.Minute

const categoryTreeCacheKey = "feed-service:categories:tree"

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository reads the store's category tree.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetTree(ctx context.Context) ([]models.Category, error)
	InvalidateTree(ctx context.Context)
}

// categoryRepository is gorm-backed with an optional redis read-through cache
// on the full tree. A nil redis client disables caching.
type categoryRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB, redis *redis.Client) CategoryRepository {
	return &categoryRepository{db: db, redis: redis}
}

// GetByID retrieves a single category
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetTree retrieves all categories, cached as one unit since routing always
// needs the whole tree.
func (r *categoryRepository) GetTree(ctx context.Context) ([]models.Category, error) {
	if r.redis != nil {
		val, err := r.redis.Get(ctx, categoryTreeCacheKey).Result()
		if err == nil {
			var categories []models.Category
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			r.redis.Set(ctx, categoryTreeCacheKey, data, CategoryTreeCacheTTL)
		}
	}
	return categories, nil
}

// InvalidateTree drops the cached tree.
func (r *categoryRepository) InvalidateTree(ctx context.Context) {
	if r.redis != nil {
		r.redis.Del(ctx, categoryTreeCacheKey)
	}
}
