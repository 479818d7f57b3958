package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func CustomerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	customers := api.Group("/customers", middleware.Protected(), middleware.StudioRequired())
	customers.Get("", handlers.GetCustomers)
	customers.Post("", handlers.CreateCustomer)
	customers.Get("/:customerId", handlers.GetCustomer)
	customers.Patch("/:customerId", handlers.UpdateCustomer)
	customers.Delete("/:customerId", middleware.OwnerRequired(), handlers.DeleteCustomer)
}
