package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mandi-backend/cache"
	"mandi-backend/config"
	"mandi-backend/controllers"
	"mandi-backend/database"
	"mandi-backend/govdata"
	"mandi-backend/middleware"
	"mandi-backend/ml"
	"mandi-backend/models"
	"mandi-backend/routes"
	"mandi-backend/services"
	"mandi-backend/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/robfig/cron/v3"
)

const estimateCacheTTL = 5 * time.Minute

type registerRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	Language    string `json:"language"`
	Password    string `json:"password"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

func registerHandler(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Name == "" || req.PhoneNumber == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, phone_number and password are required"})
	}

	vendor := models.Vendor{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		Language:    req.Language,
	}
	if err := vendor.HashPassword(req.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	if err := database.DB.Create(&vendor).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
	}

	return c.Status(fiber.StatusCreated).JSON(vendor)
}

func loginHandler(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
		}

		var vendor models.Vendor
		result := database.DB.Where("phone_number = ?", strings.TrimSpace(req.PhoneNumber)).First(&vendor)
		if result.Error != nil {
			log.Println("❌ Vendor not found:", req.PhoneNumber)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid phone number or password"})
		}

		if !vendor.CheckPassword(req.Password) {
			log.Println("❌ Invalid password for vendor:", req.PhoneNumber)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid phone number or password"})
		}

		expirationTime := time.Now().Add(24 * time.Hour)
		claims := jwt.MapClaims{
			"vendor_id":    vendor.ID,
			"phone_number": vendor.PhoneNumber,
			"exp":          expirationTime.Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString(jwtSecret)
		if err != nil {
			log.Printf("❌ Error generating JWT token: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate token"})
		}

		return c.JSON(fiber.Map{"token": tokenString, "vendor": vendor})
	}
}

func main() {
	cfg := config.Load()

	database.ConnectDatabase(cfg)

	store := storage.NewGormStore(database.DB)
	estimateCache := cache.New(estimateCacheTTL)
	analytics := services.NewAnalytics(store, estimateCache)
	modelManager := ml.NewManager(cfg.ModelDir, store)

	importer := services.NewImporter(store, govdata.NewClient(cfg.DataGovAPIKey))
	importer.PageSize = cfg.ImportPageSize

	runImport := func() {
		stats, err := importer.Run(context.Background())
		if errors.Is(err, services.ErrImportRunning) {
			log.Println("⏭️ Skipping scheduled import: previous run still going")
			return
		}
		if err != nil {
			log.Printf("❌ Scheduled import failed: %v", err)
			return
		}
		log.Printf("✅ Scheduled import done: %d new records", stats.Imported)
	}

	// Cron fires each invocation on its own goroutine; the importer itself
	// refuses to overlap runs, so a slow import makes the next tick (or a
	// manual sync) bail out instead of racing.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ImportSchedule, runImport); err != nil {
		log.Fatalf("❌ Invalid import schedule %q: %v", cfg.ImportSchedule, err)
	}
	scheduler.Start()
	if cfg.ImportOnStart {
		go runImport()
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(logger.New())

	priceController := controllers.NewPriceController(store, analytics, modelManager)
	syncController := controllers.NewSyncController(importer)
	purchaseController := controllers.NewPurchaseController(store)
	jwtGuard := middleware.JWTMiddleware([]byte(cfg.JWTSecret))

	routes.RegisterPriceRoutes(app, priceController)
	routes.RegisterSyncRoutes(app, syncController)
	routes.RegisterVendorRoutes(app, jwtGuard)
	routes.RegisterPurchaseRoutes(app, purchaseController, jwtGuard)
	routes.RegisterInventoryRoutes(app, jwtGuard)

	auth := app.Group("/auth")
	auth.Post("/register", registerHandler)
	auth.Post("/login", loginHandler([]byte(cfg.JWTSecret)))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "🚀 Mandi Backend is running!"})
	})

	fmt.Println("🚀 Server running on port " + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
