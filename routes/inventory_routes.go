package routes

import (
	"mandi-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterInventoryRoutes(app *fiber.App, jwtGuard fiber.Handler) {
	api := app.Group("/api/inventory", jwtGuard)

	api.Get("/", controllers.GetInventory)
	api.Get("/alerts", controllers.LowStockAlerts)
}
