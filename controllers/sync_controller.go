package controllers

import (
	"errors"
	"log"

	"mandi-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SyncController triggers a government data import on demand. The cron job
// in main drives the periodic runs; this endpoint exists for operators.
type SyncController struct {
	Importer *services.Importer
}

func NewSyncController(importer *services.Importer) *SyncController {
	return &SyncController{Importer: importer}
}

func (sc *SyncController) ImportGovPrices(c *fiber.Ctx) error {
	stats, err := sc.Importer.Run(c.UserContext())
	if errors.Is(err, services.ErrImportRunning) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "An import is already in progress",
		})
	}
	if err != nil {
		log.Printf("❌ Government data import failed: %v", err)
		return c.Status(502).JSON(fiber.Map{
			"error":    "Import failed",
			"detail":   err.Error(),
			"imported": stats.Imported,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Government data import completed",
		"stats":   stats,
	})
}
