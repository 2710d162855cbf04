package routes

import (
	"mandi-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterSyncRoutes(app *fiber.App, sc *controllers.SyncController) {
	api := app.Group("/api")
	api.Get("/sync/gov-prices", sc.ImportGovPrices)
}
