package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer phone numbers are unique within a studio; the composite index is the
// authoritative guard, the handler read-before-write check only shapes the error.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudioID uuid.UUID `gorm:"type:uuid;not null;index:idx_customers_studio_phone,unique" json:"studio_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Phone    string    `gorm:"size:30;not null;index:idx_customers_studio_phone,unique" json:"phone"`
	Email    *string   `gorm:"size:255" json:"email"`
	Notes    *string   `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
