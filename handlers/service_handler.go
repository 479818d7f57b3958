package handlers

import (
	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Name            string          `json:"name" validate:"required,min=2"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=1"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=2"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" validate:"omitempty,min=1"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func CreateService(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price cannot be negative"})
	}

	service := models.Service{
		StudioID:        studioID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}

	if err := database.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create service"})
	}

	return c.Status(fiber.StatusCreated).JSON(service)
}

func GetServices(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	query := database.DB.Where("studio_id = ?", studioID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service
	query.Order("name asc").Find(&services)

	return c.JSON(services)
}

func UpdateService(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID format"})
	}

	var req UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND studio_id = ?", serviceID, studioID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price cannot be negative"})
		}
		service.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update service"})
	}

	return c.JSON(service)
}

// DeleteService deactivates services that are referenced by bookings instead of
// removing them, so historical bookings keep their service.
func DeleteService(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID format"})
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND studio_id = ?", serviceID, studioID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var bookingCount int64
	database.DB.Model(&models.Booking{}).Where("service_id = ?", service.ID).Count(&bookingCount)
	if bookingCount > 0 {
		service.IsActive = false
		if err := database.DB.Save(&service).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate service"})
		}
		return c.JSON(fiber.Map{"message": "Service has bookings and was deactivated instead of deleted"})
	}

	if err := database.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete service"})
	}

	return c.JSON(fiber.Map{"message": "Service deleted successfully"})
}
