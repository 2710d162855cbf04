package controllers

import (
	"time"

	"mandi-backend/database"
	"mandi-backend/models"
	"mandi-backend/services"

	"github.com/gofiber/fiber/v2"
)

// Dashboard summarizes a vendor's purchasing activity and compares it
// against the recent market.
func Dashboard(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var totalPurchases int64
	if err := database.DB.Model(&models.Purchase{}).Where("vendor_id = ?", vendorID).Count(&totalPurchases).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	var totalSpent float64
	if err := database.DB.Model(&models.Purchase{}).
		Where("vendor_id = ?", vendorID).
		Select("COALESCE(SUM(quantity * price_per_unit), 0)").
		Scan(&totalSpent).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	var mostPurchased struct {
		ProductName string
		TotalQty    float64
	}
	if err := database.DB.Model(&models.Purchase{}).
		Select("product_name, SUM(quantity) AS total_qty").
		Where("vendor_id = ?", vendorID).
		Group("product_name").
		Order("total_qty DESC").
		Limit(1).
		Scan(&mostPurchased).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recentPurchases int64
	if err := database.DB.Model(&models.Purchase{}).
		Where("vendor_id = ? AND created_at >= ?", vendorID, sevenDaysAgo).
		Count(&recentPurchases).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	resp := models.VendorDashboardResponse{
		VendorID:             vendorID,
		TotalPurchases:       totalPurchases,
		TotalSpent:           services.Round2(totalSpent),
		MostPurchasedProduct: mostPurchased.ProductName,
		RecentPurchases7Days: recentPurchases,
	}

	// Savings analysis: vendor's average buy price vs the latest market
	// prices overall.
	if totalPurchases > 0 {
		var avgPurchase float64
		if err := database.DB.Model(&models.Purchase{}).
			Where("vendor_id = ?", vendorID).
			Select("AVG(price_per_unit)").
			Scan(&avgPurchase).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
		}

		var marketPrices []float64
		if err := database.DB.Model(&models.MarketPrice{}).
			Order("recorded_at DESC").
			Limit(50).
			Pluck("price_per_unit", &marketPrices).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load market prices"})
		}

		avgPurchase = services.Round2(avgPurchase)
		resp.AvgPurchasePrice = &avgPurchase

		if len(marketPrices) > 0 {
			var sum float64
			for _, p := range marketPrices {
				sum += p
			}
			avgMarket := sum / float64(len(marketPrices))
			savings := services.Round2(((avgMarket - *resp.AvgPurchasePrice) / avgMarket) * 100)
			avgMarket = services.Round2(avgMarket)
			resp.AvgMarketPrice = &avgMarket
			resp.OverallSavingsPercent = &savings
		}
	}

	return c.JSON(resp)
}
