package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func ServiceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	services := api.Group("/services", middleware.Protected(), middleware.StudioRequired())
	services.Get("", handlers.GetServices)
	services.Post("", handlers.CreateService)
	services.Patch("/:serviceId", handlers.UpdateService)
	services.Delete("/:serviceId", middleware.OwnerRequired(), handlers.DeleteService)
}
