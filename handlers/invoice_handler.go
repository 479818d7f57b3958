package handlers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/notifications"
	"github.com/anjiri1684/studio_manager/services"
	"github.com/anjiri1684/studio_manager/utils"
	"github.com/anjiri1684/studio_manager/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInvoiceRequest struct {
	CustomerID string          `json:"customer_id" validate:"required,uuid4"`
	BookingID  *string         `json:"booking_id,omitempty" validate:"omitempty,uuid4"`
	Total      decimal.Decimal `json:"total" validate:"required"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

type UpdateInvoiceRequest struct {
	Total   *decimal.Decimal `json:"total,omitempty"`
	DueDate *time.Time       `json:"due_date,omitempty"`
	Notes   *string          `json:"notes,omitempty"`
}

func CreateInvoice(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.Total.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invoice total must be greater than zero"})
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID format"})
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND studio_id = ?", customerID, studioID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	var bookingID *uuid.UUID
	if req.BookingID != nil {
		parsed, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
		}
		var booking models.Booking
		if err := database.DB.Where("id = ? AND studio_id = ?", parsed, studioID).First(&booking).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		bookingID = &parsed
	}

	var invoice models.Invoice
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := utils.GenerateUniqueInvoiceNumber(tx)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			StudioID:      studioID,
			CustomerID:    customer.ID,
			BookingID:     bookingID,
			InvoiceNumber: number,
			Total:         req.Total,
			Status:        models.InvoiceStatusDraft,
			DueDate:       req.DueDate,
			Notes:         req.Notes,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invoice"})
	}

	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
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

	query := database.DB.Model(&models.Invoice{}).Where("studio_id = ?", studioID)
	countQuery := database.DB.Model(&models.Invoice{}).Where("studio_id = ?", studioID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var invoices []models.Invoice
	query.Order("created_at desc").Offset(offset).Limit(limit).Preload("Customer").Find(&invoices)

	return c.JSON(fiber.Map{
		"data": invoices,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetInvoice(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var invoice models.Invoice
	if err := database.DB.Preload("Customer").Preload("Payments").
		Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	return c.JSON(invoice)
}

// UpdateInvoice edits a draft. Once an invoice is sent or carries payments its
// total is frozen.
func UpdateInvoice(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var req UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var invoice models.Invoice
	if err := database.DB.Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only draft invoices can be edited"})
	}

	if req.Total != nil {
		if !req.Total.IsPositive() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invoice total must be greater than zero"})
		}
		invoice.Total = *req.Total
	}
	if req.DueDate != nil {
		invoice.DueDate = req.DueDate
	}
	if req.Notes != nil {
		invoice.Notes = req.Notes
	}

	if err := database.DB.Save(&invoice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update invoice"})
	}

	return c.JSON(invoice)
}

// SendInvoice moves a draft to SENT and emails the customer when an address is
// on file.
func SendInvoice(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var invoice models.Invoice
	if err := database.DB.Preload("Customer").
		Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only draft invoices can be sent"})
	}

	invoice.Status = models.InvoiceStatusSent
	if err := database.DB.Save(&invoice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send invoice"})
	}

	if invoice.Customer.Email != nil {
		go notifications.SendEmail(invoice.Customer.Name, *invoice.Customer.Email,
			fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
			fmt.Sprintf("<h1>Invoice %s</h1><p>You have a new invoice for %s. Please arrange payment by the due date.</p>",
				invoice.InvoiceNumber, invoice.Total.StringFixed(2)))
	}

	websocket.PublishEvent(studioID, "invoice.sent", fiber.Map{
		"invoice_id":     invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
	})

	return c.JSON(invoice)
}

// CancelInvoice is the terminal override; paid invoices cannot be cancelled.
func CancelInvoice(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var invoice models.Invoice
	if err := database.DB.Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Paid invoices cannot be cancelled"})
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invoice is already cancelled"})
	}

	invoice.Status = models.InvoiceStatusCancelled
	if err := database.DB.Save(&invoice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel invoice"})
	}

	return c.JSON(invoice)
}

func GetInvoicePDF(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var invoice models.Invoice
	if err := database.DB.Preload("Customer").Preload("Payments").
		Where("id = ? AND studio_id = ?", invoiceID, studioID).First(&invoice).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	var studio models.Studio
	if err := database.DB.First(&studio, "id = ?", studioID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load studio"})
	}

	pdfBytes, err := services.RenderInvoicePDF(studio, invoice)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate invoice PDF"})
	}

	go services.ArchiveInvoicePDF(pdfBytes, invoice.InvoiceNumber)

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	return c.Send(pdfBytes)
}
