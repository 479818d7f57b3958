package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft         = "DRAFT"
	InvoiceStatusSent          = "SENT"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusPaid          = "PAID"
	InvoiceStatusCancelled     = "CANCELLED"
)

// Invoice status is derived from the sum of its payments versus Total, with
// CANCELLED as a terminal override set through the cancel endpoint.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	StudioID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"studio_id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	BookingID     *uuid.UUID      `gorm:"type:uuid" json:"booking_id"`
	InvoiceNumber string          `gorm:"size:30;not null;unique" json:"invoice_number"`
	Total         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status        string          `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	DueDate       *time.Time      `json:"due_date"`
	Notes         *string         `gorm:"type:text" json:"notes"`

	Customer Customer  `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Payments []Payment `gorm:"foreignkey:InvoiceID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
