package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Promotion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"promotion_id"`
	Name        string    `gorm:"size:255;not null"        json:"name"`
	Description string    `gorm:"type:text;not null"       json:"description"`
	URL         *string   `gorm:"size:2048"                json:"url"`
	ImagePath   *string   `gorm:"size:1024"                json:"image_path"`
	ImageURL    *string   `gorm:"size:2048"                json:"image_url"`
	StartDate   time.Time `gorm:"not null;index"           json:"start_date"`
	EndDate     time.Time `gorm:"not null;index"           json:"end_date"`
	Products    []Product `gorm:"many2many:promotion_products" json:"products"`
	Lifecycle
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ActiveAt reports whether now falls inside [StartDate, EndDate].
func (p *Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}
