package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required,min=2"`
	Phone string  `json:"phone" validate:"required,min=7"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=7"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

func CreateCustomer(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Friendly pre-check; the composite unique index is the real guard.
	var existing models.Customer
	if err := database.DB.Where("studio_id = ? AND phone = ?", studioID, req.Phone).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A customer with this phone number already exists"})
	}

	customer := models.Customer{
		StudioID: studioID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A customer with this phone number already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create customer"})
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
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

	query := database.DB.Model(&models.Customer{}).Where("studio_id = ?", studioID)
	countQuery := database.DB.Model(&models.Customer{}).Where("studio_id = ?", studioID)

	if search := c.Query("search"); search != "" {
		// LOWER + LIKE instead of ILIKE so the predicate works on every dialect.
		searchTerm := "%" + search + "%"
		predicate := "LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone = ?"
		query = query.Where(predicate, searchTerm, searchTerm, search)
		countQuery = countQuery.Where(predicate, searchTerm, searchTerm, search)
	}

	var total int64
	countQuery.Count(&total)

	var customers []models.Customer
	query.Order("name asc").Offset(offset).Limit(limit).Find(&customers)

	return c.JSON(fiber.Map{
		"data": customers,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetCustomer(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	customerID, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID format"})
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND studio_id = ?", customerID, studioID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	return c.JSON(customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	customerID, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID format"})
	}

	var req UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND studio_id = ?", customerID, studioID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	if req.Phone != nil && *req.Phone != customer.Phone {
		var existing models.Customer
		if err := database.DB.Where("studio_id = ? AND phone = ? AND id <> ?", studioID, *req.Phone, customer.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A customer with this phone number already exists"})
		}
		customer.Phone = *req.Phone
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := database.DB.Save(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A customer with this phone number already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update customer"})
	}

	return c.JSON(customer)
}

// DeleteCustomer refuses to remove customers that are still referenced by
// bookings or invoices, preserving the studio's financial history.
func DeleteCustomer(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	customerID, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID format"})
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND studio_id = ?", customerID, studioID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	var bookingCount int64
	database.DB.Model(&models.Booking{}).Where("customer_id = ?", customer.ID).Count(&bookingCount)
	if bookingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Customer has existing bookings and cannot be deleted"})
	}

	var invoiceCount int64
	database.DB.Model(&models.Invoice{}).Where("customer_id = ?", customer.ID).Count(&invoiceCount)
	if invoiceCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Customer has existing invoices and cannot be deleted"})
	}

	if err := database.DB.Delete(&customer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete customer"})
	}

	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}
