package routes

import (
	"mandi-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterPriceRoutes(app *fiber.App, pc *controllers.PriceController) {
	api := app.Group("/api/prices")

	api.Post("/", pc.CreatePrice)
	api.Get("/estimate/:product_name", pc.Estimate)
	api.Post("/negotiate", pc.Negotiate)
	api.Get("/trend/:product_name", pc.Trend)
	api.Get("/alerts/:product_name", pc.DropAlert)
	api.Post("/profit-estimate", pc.ProfitEstimate)
	api.Get("/predict/:product_name", pc.Predict)
	api.Post("/train", pc.Train)

	api.Get("/data-summary", pc.DataSummary)
	api.Get("/data-freshness", pc.DataFreshness)
	api.Get("/export", pc.Export)
}
