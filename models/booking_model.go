package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudioID   uuid.UUID `gorm:"type:uuid;index;not null" json:"studio_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	Status     string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Notes      *string   `gorm:"type:text" json:"notes"`

	Customer Customer `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Service  Service  `gorm:"foreignkey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
