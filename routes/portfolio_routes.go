package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func PortfolioRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	portfolio := api.Group("/portfolio", middleware.Protected(), middleware.StudioRequired())
	portfolio.Get("", handlers.GetPortfolioItems)
	portfolio.Post("", handlers.CreatePortfolioItem)
	portfolio.Patch("/:itemId", handlers.UpdatePortfolioItem)
	portfolio.Delete("/:itemId", handlers.DeletePortfolioItem)
}
