package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// StringList is a JSONB array of strings.
type StringList []string

// Value implements driver.Valuer for JSONB storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// Product is a read-only projection of the store's products table. The feed
// service never writes products.
type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(512);not null" json:"name"`
	Subtitle      string     `gorm:"type:varchar(512)" json:"subtitle,omitempty"`
	SKU           string     `gorm:"type:varchar(128);index:idx_products_sku" json:"sku,omitempty"`
	Price         float64    `gorm:"type:numeric(12,2)" json:"price"`
	StockQuantity int        `gorm:"default:0" json:"stockQuantity"`
	IsActive      bool       `gorm:"default:true;index:idx_products_active" json:"isActive"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index:idx_products_category" json:"categoryId,omitempty"`
	Images        StringList `gorm:"type:jsonb;default:'[]'" json:"images,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// Title returns the listing title used for extraction and matching: the name,
// with the subtitle appended when present.
func (p *Product) Title() string {
	if p.Subtitle == "" {
		return p.Name
	}
	return p.Name + " " + p.Subtitle
}

// FirstImage returns the primary image URL or "".
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
