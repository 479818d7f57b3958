package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/overview", handlers.AdminGetOverview)

	studios := admin.Group("/studios")
	studios.Get("", handlers.AdminGetStudios)
	studios.Patch("/:studioId/status", handlers.AdminUpdateStudioStatus)
}
