package handlers

import (
	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreatePortfolioItemRequest struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    string  `json:"image_url" validate:"required,url"`
	IsPublished bool    `json:"is_published"`
}

type UpdatePortfolioItemRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func CreatePortfolioItem(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreatePortfolioItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item := models.PortfolioItem{
		StudioID:    studioID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create portfolio item"})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetPortfolioItems(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	query := database.DB.Where("studio_id = ?", studioID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.PortfolioItem
	query.Order("created_at desc").Find(&items)

	return c.JSON(items)
}

func UpdatePortfolioItem(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
	}

	var req UpdatePortfolioItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var item models.PortfolioItem
	if err := database.DB.Where("id = ? AND studio_id = ?", itemID, studioID).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Portfolio item not found"})
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Category != nil {
		item.Category = req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsPublished != nil {
		item.IsPublished = *req.IsPublished
	}

	if err := database.DB.Save(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update portfolio item"})
	}

	return c.JSON(item)
}

func DeletePortfolioItem(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
	}

	var item models.PortfolioItem
	if err := database.DB.Where("id = ? AND studio_id = ?", itemID, studioID).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Portfolio item not found"})
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete portfolio item"})
	}

	return c.JSON(fiber.Map{"message": "Portfolio item deleted successfully"})
}
