package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
	Name string    `gorm:"size:255;not null;uniqueIndex:idx_categories_name,where:deleted_at IS NULL" json:"name"`
	Lifecycle
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"product_id"`
	Name       string          `gorm:"size:255;not null;index"     json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Rating     float64         `gorm:"not null;default:0"          json:"rating"`
	CategoryID uuid.UUID       `gorm:"type:uuid;index;not null"    json:"category_id"`
	Category   *Category       `gorm:"foreignKey:CategoryID"       json:"category,omitempty"`
	Lifecycle
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
