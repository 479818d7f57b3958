package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminGetStudios lists all tenants for the platform operator.
func AdminGetStudios(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Studio{})
	countQuery := database.DB.Model(&models.Studio{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var studios []models.Studio
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&studios)

	return c.JSON(fiber.Map{
		"data": studios,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type UpdateStudioStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// AdminUpdateStudioStatus suspends or reactivates a tenant. Suspended studios
// fail member logins immediately; already-issued access tokens expire naturally.
func AdminUpdateStudioStatus(c *fiber.Ctx) error {
	studioID, err := uuid.Parse(c.Params("studioId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid studio ID format"})
	}

	var req UpdateStudioStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var studio models.Studio
	if err := database.DB.First(&studio, "id = ?", studioID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Studio not found"})
	}

	studio.Status = req.Status
	if err := database.DB.Save(&studio).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update studio status"})
	}

	return c.JSON(studio)
}

type AdminOverviewResponse struct {
	TotalStudios     int64 `json:"total_studios"`
	ActiveStudios    int64 `json:"active_studios"`
	SuspendedStudios int64 `json:"suspended_studios"`
	TotalUsers       int64 `json:"total_users"`
	BookingsLast30d  int64 `json:"bookings_last_30_days"`
}

func AdminGetOverview(c *fiber.Ctx) error {
	var response AdminOverviewResponse

	database.DB.Model(&models.Studio{}).Count(&response.TotalStudios)
	database.DB.Model(&models.Studio{}).Where("status = ?", models.StudioStatusActive).Count(&response.ActiveStudios)
	database.DB.Model(&models.Studio{}).Where("status = ?", models.StudioStatusSuspended).Count(&response.SuspendedStudios)
	database.DB.Model(&models.User{}).Count(&response.TotalUsers)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Booking{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.BookingsLast30d)

	return c.JSON(response)
}
