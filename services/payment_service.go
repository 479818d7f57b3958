package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/studio_manager/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvoiceCancelled = errors.New("cannot record a payment against a cancelled invoice")
	ErrInvalidAmount    = errors.New("payment amount must be greater than zero")
	ErrExceedsBalance   = errors.New("payment amount exceeds the remaining balance")
)

type CreatePaymentInput struct {
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	TransactionID *string
	Notes         *string
	PaidAt        *time.Time
}

// CreatePayment records a payment against an invoice and rederives the invoice
// status from the new payment sum, all inside one transaction. The remaining
// balance check and the status update observe the same snapshot, so an observer
// never sees a payment row without the matching status.
func CreatePayment(db *gorm.DB, studioID uuid.UUID, input CreatePaymentInput) (*models.Payment, error) {
	var payment models.Payment

	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Where("id = ? AND studio_id = ?", input.InvoiceID, studioID).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}

		if invoice.Status == models.InvoiceStatusCancelled {
			return ErrInvoiceCancelled
		}
		if !input.Amount.IsPositive() {
			return ErrInvalidAmount
		}

		paid, err := sumInvoicePayments(tx, invoice.ID)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(invoice.Total.Sub(paid)) {
			return ErrExceedsBalance
		}

		paidAt := time.Now()
		if input.PaidAt != nil {
			paidAt = *input.PaidAt
		}

		payment = models.Payment{
			InvoiceID:     invoice.ID,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			TransactionID: input.TransactionID,
			Notes:         input.Notes,
			PaidAt:        paidAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		newPaid := paid.Add(input.Amount)
		status := invoice.Status
		if newPaid.GreaterThanOrEqual(invoice.Total) {
			status = models.InvoiceStatusPaid
		} else if newPaid.IsPositive() {
			status = models.InvoiceStatusPartiallyPaid
		}

		if status != invoice.Status {
			if err := tx.Model(&invoice).Update("status", status).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// RemovePayment deletes a payment and rederives the invoice status from the
// remaining sum. Ownership is checked through the owning invoice; payments carry
// no studio column of their own. Removing the last payment resets a non-cancelled
// invoice to SENT even if it was DRAFT before the first payment landed — a known
// lossy reset, the prior status is not recorded anywhere.
func RemovePayment(db *gorm.DB, studioID uuid.UUID, paymentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Joins("JOIN invoices ON invoices.id = payments.invoice_id").
			Where("payments.id = ? AND invoices.studio_id = ?", paymentID, studioID).
			First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", payment.InvoiceID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		// CANCELLED is a terminal override and survives payment removal.
		if invoice.Status == models.InvoiceStatusCancelled {
			return nil
		}

		remaining, err := sumInvoicePayments(tx, invoice.ID)
		if err != nil {
			return err
		}

		status := models.InvoiceStatusSent
		if remaining.GreaterThanOrEqual(invoice.Total) {
			status = models.InvoiceStatusPaid
		} else if remaining.IsPositive() {
			status = models.InvoiceStatusPartiallyPaid
		}

		if status != invoice.Status {
			if err := tx.Model(&invoice).Update("status", status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// sumInvoicePayments adds amounts in Go so the comparison stays in fixed-point
// decimal; a SQL SUM over the driver would round-trip through float64.
func sumInvoicePayments(tx *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}
