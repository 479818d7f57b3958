package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected(), middleware.StudioRequired())
	bookings.Get("", handlers.GetBookings)
	bookings.Post("", handlers.CreateBooking)
	bookings.Get("/:bookingId", handlers.GetBooking)
	bookings.Patch("/:bookingId", handlers.UpdateBooking)
	bookings.Delete("/:bookingId", middleware.OwnerRequired(), handlers.DeleteBooking)
}
