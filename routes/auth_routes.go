package routes

import (
	"github.com/anjiri1684/studio_manager/handlers"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterStudio)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/admin/login", handlers.LoginAdmin)
	auth.Post("/refresh", handlers.RefreshTokens)
	auth.Post("/logout", middleware.Protected(), handlers.Logout)
}
