package controllers

import (
	"mandi-backend/database"
	"mandi-backend/models"

	"github.com/gofiber/fiber/v2"
)

func GetInventory(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var items []models.Inventory
	if err := database.DB.Where("vendor_id = ?", vendorID).Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load inventory"})
	}
	return c.JSON(items)
}

// LowStockAlerts lists items at or under their minimum threshold.
func LowStockAlerts(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var items []models.Inventory
	if err := database.DB.Where("vendor_id = ?", vendorID).Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load inventory"})
	}

	alerts := make([]models.LowStockItem, 0)
	for _, item := range items {
		if item.QuantityAvailable <= item.MinimumThreshold {
			alerts = append(alerts, models.LowStockItem{
				ProductName:       item.ProductName,
				QuantityAvailable: item.QuantityAvailable,
				MinimumThreshold:  item.MinimumThreshold,
				Shortage:          item.MinimumThreshold - item.QuantityAvailable,
			})
		}
	}
	return c.JSON(alerts)
}
