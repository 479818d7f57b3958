package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func AnalyticsRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	analytics := api.Group("/analytics", middleware.Protected(), middleware.StudioRequired())
	analytics.Get("/overview", handlers.GetOverview)
	analytics.Get("/revenue", handlers.GetRevenue)
	analytics.Get("/bookings-by-status", handlers.GetBookingsByStatus)
	analytics.Get("/service-performance", handlers.GetServicePerformance)
	analytics.Get("/customer-insights", handlers.GetCustomerInsights)
}
