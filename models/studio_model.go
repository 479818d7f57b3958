package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StudioStatusActive    = "ACTIVE"
	StudioStatusSuspended = "SUSPENDED"
)

type Studio struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Email   string    `gorm:"size:255;not null" json:"email"`
	Phone   *string   `gorm:"size:30" json:"phone"`
	Address *string   `gorm:"size:255" json:"address"`
	Status  string    `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	Users []User `gorm:"foreignkey:StudioID" json:"users,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Studio) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
