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
	"github.com/anjiri1684/studio_manager/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CustomerID string    `json:"customer_id" validate:"required,uuid4"`
	ServiceID  string    `json:"service_id" validate:"required,uuid4"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

type UpdateBookingRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Notes     *string    `json:"notes,omitempty"`
}

// hasBookingConflict reports whether any live booking overlaps the given window.
// Cancelled bookings release their slot.
func hasBookingConflict(studioID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) bool {
	query := database.DB.Model(&models.Booking{}).
		Where("studio_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			studioID, []string{models.BookingStatusPending, models.BookingStatusConfirmed}, end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	query.Count(&count)
	return count > 0
}

func CreateBooking(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.EndTime.After(req.StartTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID format"})
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID format"})
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND studio_id = ?", customerID, studioID).First(&customer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND studio_id = ?", serviceID, studioID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	if hasBookingConflict(studioID, req.StartTime, req.EndTime, nil) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The requested time slot conflicts with an existing booking"})
	}

	booking := models.Booking{
		StudioID:   studioID,
		CustomerID: customer.ID,
		ServiceID:  service.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     models.BookingStatusPending,
		Notes:      req.Notes,
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	websocket.PublishEvent(studioID, "booking.created", fiber.Map{
		"booking_id": booking.ID.String(),
		"start_time": booking.StartTime,
	})

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetBookings(c *fiber.Ctx) error {
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

	query := database.DB.Model(&models.Booking{}).Where("studio_id = ?", studioID)
	countQuery := database.DB.Model(&models.Booking{}).Where("studio_id = ?", studioID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var bookings []models.Booking
	query.Order("start_time desc").Offset(offset).Limit(limit).
		Preload("Customer").Preload("Service").Find(&bookings)

	return c.JSON(fiber.Map{
		"data": bookings,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetBooking(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var booking models.Booking
	if err := database.DB.Preload("Customer").Preload("Service").
		Where("id = ? AND studio_id = ?", bookingID, studioID).First(&booking).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	return c.JSON(booking)
}

func UpdateBooking(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var req UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.Where("id = ? AND studio_id = ?", bookingID, studioID).First(&booking).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if !booking.EndTime.After(booking.StartTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
	}

	if req.StartTime != nil || req.EndTime != nil {
		if hasBookingConflict(studioID, booking.StartTime, booking.EndTime, &booking.ID) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The requested time slot conflicts with an existing booking"})
		}
	}

	confirmed := false
	if req.Status != nil {
		confirmed = *req.Status == models.BookingStatusConfirmed && booking.Status != models.BookingStatusConfirmed
		booking.Status = *req.Status
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}

	if confirmed {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", booking.CustomerID).Error; err == nil && customer.Email != nil {
			go notifications.SendEmail(customer.Name, *customer.Email, "Your session is confirmed!",
				fmt.Sprintf("<h1>Booking Confirmed</h1><p>Hi %s,</p><p>Your session on %s is confirmed. We look forward to seeing you!</p>",
					customer.Name, booking.StartTime.Format("January 2, 2006 at 3:04 PM")))
		}
	}

	return c.JSON(booking)
}

func DeleteBooking(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var booking models.Booking
	if err := database.DB.Where("id = ? AND studio_id = ?", bookingID, studioID).First(&booking).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var invoiceCount int64
	database.DB.Model(&models.Invoice{}).Where("booking_id = ?", booking.ID).Count(&invoiceCount)
	if invoiceCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Booking has an invoice and cannot be deleted"})
	}

	if err := database.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete booking"})
	}

	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}
