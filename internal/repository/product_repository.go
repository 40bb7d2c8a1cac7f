package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feed-service/internal/models"
)

// ProductFilter narrows the product selection for one feed category.
type ProductFilter struct {
	CategoryIDs     []uuid.UUID
	OnlyActive      bool
	OnlyInStock     bool
	ExcludeKeywords []string
	ExcludeSkus     []string
}

// ProductRepository is the read-only product source. The feed service never
// mutates the store's products.
type ProductRepository interface {
	ListForFeed(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// ListForFeed retrieves the products matching the feed's selection filter,
// ordered by name for stable feed output.
func (r *productRepository) ListForFeed(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyInStock {
		query = query.Where("stock_quantity > 0")
	}
	for _, kw := range filter.ExcludeKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		query = query.Where("name NOT ILIKE ?", "%"+kw+"%")
	}
	if len(filter.ExcludeSkus) > 0 {
		query = query.Where("sku NOT IN ?", filter.ExcludeSkus)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
