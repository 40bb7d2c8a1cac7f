package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a read-only node of the store's category tree.
type Category struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string     `gorm:"type:varchar(255);not null" json:"name"`
	ParentID *uuid.UUID `gorm:"type:uuid;index:idx_categories_parent" json:"parentId,omitempty"`
	IsActive bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}
