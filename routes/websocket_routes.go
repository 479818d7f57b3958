package routes

import (
	"github.com/anjiri1684/studio_manager/websocket"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App) {
	app.Use("/ws", websocket.UpgradeRequired)
	app.Get("/ws/feed", websocket.FeedHandler())
}
