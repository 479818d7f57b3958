package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodMobileMoney  = "MOBILE_MONEY"
)

// Payment rows are immutable once written; the reconciliation workflow is the
// only writer, and corrections happen by deleting and re-recording.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoice_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	TransactionID *string         `gorm:"size:255" json:"transaction_id"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`

	Invoice Invoice `gorm:"foreignkey:InvoiceID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
