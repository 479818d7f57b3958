package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudioID    uuid.UUID `gorm:"type:uuid;index;not null" json:"studio_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Category    *string   `gorm:"size:100" json:"category"`
	ImageURL    string    `gorm:"size:512;not null" json:"image_url"`
	IsPublished bool      `gorm:"default:false" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
