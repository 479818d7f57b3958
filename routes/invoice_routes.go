package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func InvoiceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	invoices := api.Group("/invoices", middleware.Protected(), middleware.StudioRequired())
	invoices.Get("", handlers.GetInvoices)
	invoices.Post("", handlers.CreateInvoice)
	invoices.Get("/:invoiceId", handlers.GetInvoice)
	invoices.Patch("/:invoiceId", handlers.UpdateInvoice)
	invoices.Post("/:invoiceId/send", handlers.SendInvoice)
	invoices.Post("/:invoiceId/cancel", middleware.OwnerRequired(), handlers.CancelInvoice)
	invoices.Get("/:invoiceId/pdf", handlers.GetInvoicePDF)
}
