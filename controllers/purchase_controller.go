package controllers

import (
	"sort"
	"strings"

	"mandi-backend/database"
	"mandi-backend/models"
	"mandi-backend/services"
	"mandi-backend/storage"

	"github.com/gofiber/fiber/v2"
)

// PurchaseController logs vendor purchases and analyzes them against the
// market history.
type PurchaseController struct {
	Store storage.PriceStore
}

func NewPurchaseController(store storage.PriceStore) *PurchaseController {
	return &PurchaseController{Store: store}
}

type purchaseRequest struct {
	ProductName  string  `json:"product_name"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	SellerName   string  `json:"seller_name"`
}

// CreatePurchase logs a buy and tops up the vendor's inventory in one
// transaction.
func (p *PurchaseController) CreatePurchase(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input", "detail": err.Error()})
	}

	product := strings.ToLower(strings.TrimSpace(req.ProductName))
	if product == "" || req.Quantity <= 0 || req.PricePerUnit <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "product_name, quantity and price_per_unit are required"})
	}

	purchase := models.Purchase{
		VendorID:     vendorID,
		ProductName:  product,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		SellerName:   strings.TrimSpace(req.SellerName),
	}

	tx := database.DB.Begin()

	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create purchase"})
	}

	var inventory models.Inventory
	err := tx.Where("vendor_id = ? AND product_name = ?", vendorID, product).First(&inventory).Error
	if err == nil {
		inventory.QuantityAvailable += req.Quantity
		if err := tx.Save(&inventory).Error; err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update inventory"})
		}
	} else {
		inventory = models.Inventory{
			VendorID:          vendorID,
			ProductName:       product,
			QuantityAvailable: req.Quantity,
		}
		if err := tx.Create(&inventory).Error; err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"error": "Failed to create inventory"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.Status(201).JSON(purchase)
}

func (p *PurchaseController) ListPurchases(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var purchases []models.Purchase
	if err := database.DB.
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}
	return c.JSON(purchases)
}

// Analysis compares each purchase against the recent market average for
// the product, using the same advice tiers as negotiation.
func (p *PurchaseController) Analysis(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var purchases []models.Purchase
	if err := database.DB.Where("vendor_id = ?", vendorID).Find(&purchases).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	results := make([]models.PurchaseAnalysisItem, 0, len(purchases))
	for _, purchase := range purchases {
		prices, err := p.Store.RecentPricesByProduct(purchase.ProductName, 20)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load market prices"})
		}
		if len(prices) == 0 {
			continue
		}

		var sum float64
		for _, v := range prices {
			sum += v
		}
		marketAvg := sum / float64(len(prices))
		diffPercent := ((purchase.PricePerUnit - marketAvg) / marketAvg) * 100

		var insight string
		switch {
		case diffPercent > 10:
			insight = "Bought much higher than market"
		case diffPercent > 3:
			insight = "Slightly above market price"
		case diffPercent < -5:
			insight = "Great deal! Bought below market"
		default:
			insight = "Bought at fair market price"
		}

		results = append(results, models.PurchaseAnalysisItem{
			ProductName:        purchase.ProductName,
			PurchasePrice:      purchase.PricePerUnit,
			MarketAveragePrice: services.Round2(marketAvg),
			DifferencePercent:  services.Round2(diffPercent),
			Insight:            insight,
		})
	}

	return c.JSON(fiber.Map{
		"vendor_id": vendorID,
		"analysis":  results,
	})
}

// Suppliers ranks the vendor's sellers by average price paid.
func (p *PurchaseController) Suppliers(c *fiber.Ctx) error {
	vendorID := c.Locals("vendor_id").(uint)

	var rows []struct {
		SellerName     string
		AvgPrice       float64
		TotalPurchases int64
	}
	if err := database.DB.Model(&models.Purchase{}).
		Select("seller_name, AVG(price_per_unit) AS avg_price, COUNT(id) AS total_purchases").
		Where("vendor_id = ? AND seller_name <> ''", vendorID).
		Group("seller_name").
		Scan(&rows).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load suppliers"})
	}

	results := make([]models.SupplierRankItem, 0, len(rows))
	for _, r := range rows {
		var performance string
		switch {
		case r.AvgPrice <= 0:
			performance = "No data"
		case r.TotalPurchases >= 5 && r.AvgPrice < 25:
			performance = "Best Supplier"
		case r.AvgPrice < 28:
			performance = "Good Pricing"
		default:
			performance = "Expensive"
		}

		results = append(results, models.SupplierRankItem{
			SellerName:     r.SellerName,
			AvgPrice:       services.Round2(r.AvgPrice),
			TotalPurchases: r.TotalPurchases,
			Performance:    performance,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].AvgPrice < results[j].AvgPrice })

	return c.JSON(fiber.Map{
		"vendor_id": vendorID,
		"suppliers": results,
	})
}
