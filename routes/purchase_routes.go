package routes

import (
	"mandi-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterPurchaseRoutes(app *fiber.App, p *controllers.PurchaseController, jwtGuard fiber.Handler) {
	api := app.Group("/api/purchases", jwtGuard)

	api.Post("/", p.CreatePurchase)
	api.Get("/", p.ListPurchases)
	api.Get("/analysis", p.Analysis)
	api.Get("/suppliers", p.Suppliers)
}
