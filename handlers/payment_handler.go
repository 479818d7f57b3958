package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/notifications"
	"github.com/anjiri1684/studio_manager/services"
	"github.com/anjiri1684/studio_manager/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	InvoiceID     string          `json:"invoice_id" validate:"required,uuid4"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD BANK_TRANSFER MOBILE_MONEY"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// RecordPayment runs the reconciliation workflow for a new payment and pushes
// the result to the studio's activity feed.
func RecordPayment(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	payment, err := services.CreatePayment(database.DB, studioID, services.CreatePaymentInput{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		PaidAt:        req.PaidAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
		case errors.Is(err, services.ErrInvoiceCancelled):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot record a payment against a cancelled invoice"})
		case errors.Is(err, services.ErrExceedsBalance):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payment amount exceeds the remaining balance"})
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment amount must be greater than zero"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
		}
	}

	websocket.PublishEvent(studioID, "payment.recorded", fiber.Map{
		"payment_id": payment.ID.String(),
		"invoice_id": payment.InvoiceID.String(),
		"amount":     payment.Amount.StringFixed(2),
	})

	var invoice models.Invoice
	if err := database.DB.Preload("Customer").First(&invoice, "id = ?", payment.InvoiceID).Error; err == nil {
		if invoice.Customer.Email != nil {
			go notifications.SendEmail(invoice.Customer.Name, *invoice.Customer.Email,
				fmt.Sprintf("Payment received for invoice %s", invoice.InvoiceNumber),
				fmt.Sprintf("<h1>Payment Received</h1><p>Hi %s,</p><p>We received your payment of %s against invoice %s. Thank you!</p>",
					invoice.Customer.Name, payment.Amount.StringFixed(2), invoice.InvoiceNumber))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// DeletePayment removes a recorded payment; the owning invoice's status is
// rederived inside the same transaction.
func DeletePayment(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	if err := services.RemovePayment(database.DB, studioID, paymentID); err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete payment"})
	}

	return c.JSON(fiber.Map{"message": "Payment deleted successfully"})
}

func GetPayments(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Payment{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.studio_id = ?", studioID)
	countQuery := database.DB.Model(&models.Payment{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.studio_id = ?", studioID)

	var total int64
	countQuery.Count(&total)

	var payments []models.Payment
	query.Order("payments.paid_at desc").Offset(offset).Limit(limit).Find(&payments)

	return c.JSON(fiber.Map{
		"data": payments,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetInvoicePayments(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var invoice models.Invoice
	if err := database.DB.Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	var payments []models.Payment
	database.DB.Where("invoice_id = ?", invoice.ID).Order("paid_at asc").Find(&payments)

	return c.JSON(payments)
}

// GetPaymentStats aggregates collected amounts for the requested window,
// broken down by payment method. Sums are computed in decimal.
func GetPaymentStats(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payments []models.Payment
	database.DB.
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.studio_id = ? AND payments.paid_at BETWEEN ? AND ?", studioID, startDate, endDate).
		Find(&payments)

	totalCollected := decimal.Zero
	byMethod := map[string]decimal.Decimal{}
	for _, p := range payments {
		totalCollected = totalCollected.Add(p.Amount)
		byMethod[p.PaymentMethod] = byMethod[p.PaymentMethod].Add(p.Amount)
	}

	methodTotals := fiber.Map{}
	for method, amount := range byMethod {
		methodTotals[method] = amount.StringFixed(2)
	}

	return c.JSON(fiber.Map{
		"start_date":      startDate.Format("2006-01-02"),
		"end_date":        endDate.Format("2006-01-02"),
		"total_collected": totalCollected.StringFixed(2),
		"payment_count":   len(payments),
		"by_method":       methodTotals,
	})
}
