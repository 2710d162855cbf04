package routes

import (
	"mandi-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterVendorRoutes(app *fiber.App, jwtGuard fiber.Handler) {
	api := app.Group("/api/vendors", jwtGuard)
	api.Get("/dashboard", controllers.Dashboard)
}
