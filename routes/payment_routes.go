package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected(), middleware.StudioRequired())
	payments.Get("", handlers.GetPayments)
	payments.Get("/stats", handlers.GetPaymentStats)
	payments.Get("/invoice/:invoiceId", handlers.GetInvoicePayments)
	payments.Post("", middleware.OwnerRequired(), handlers.RecordPayment)
	payments.Delete("/:paymentId", middleware.OwnerRequired(), handlers.DeletePayment)
}
