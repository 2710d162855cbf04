package controllers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mandi-backend/ml"
	"mandi-backend/models"
	"mandi-backend/services"
	"mandi-backend/storage"

	"github.com/gofiber/fiber/v2"
)

// PriceController exposes the price intelligence operations over HTTP.
type PriceController struct {
	Store     storage.PriceStore
	Analytics *services.Analytics
	Models    *ml.Manager
}

func NewPriceController(store storage.PriceStore, analytics *services.Analytics, models *ml.Manager) *PriceController {
	return &PriceController{Store: store, Analytics: analytics, Models: models}
}

type createPriceRequest struct {
	ProductName  string     `json:"product_name"`
	Location     string     `json:"location"`
	PricePerUnit float64    `json:"price_per_unit"`
	MarketDate   *time.Time `json:"market_date"`
}

// CreatePrice stores a directly submitted price observation, applying the
// same validation as ingestion.
func (pc *PriceController) CreatePrice(c *fiber.Ctx) error {
	var req createPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input", "detail": err.Error()})
	}

	product := strings.ToLower(strings.TrimSpace(req.ProductName))
	location := strings.ToLower(strings.TrimSpace(req.Location))
	if product == "" || location == "" {
		return c.Status(400).JSON(fiber.Map{"error": "product_name and location are required"})
	}
	if req.PricePerUnit <= 50 || req.PricePerUnit > 100000 {
		return c.Status(400).JSON(fiber.Map{"error": "price_per_unit must be between 50 and 100000 rupees per quintal"})
	}

	recordedAt := time.Now().UTC()
	if req.MarketDate != nil {
		recordedAt = *req.MarketDate
	}

	rec := models.MarketPrice{
		ProductName:  product,
		Location:     location,
		PricePerUnit: req.PricePerUnit,
		RecordedAt:   recordedAt,
	}
	if err := pc.Store.InsertRecord(&rec); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create price record"})
	}
	return c.Status(201).JSON(rec)
}

// Estimate serves the cached price estimate for a product at a location.
func (pc *PriceController) Estimate(c *fiber.Ctx) error {
	product := c.Params("product_name")
	location := c.Query("location")
	if location == "" {
		return c.Status(400).JSON(fiber.Map{"error": "location query parameter is required"})
	}

	result, err := pc.Analytics.Estimate(product, location)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute estimate"})
	}
	return c.JSON(result)
}

type negotiateRequest struct {
	ProductName  string  `json:"product_name"`
	Location     string  `json:"location"`
	OfferedPrice float64 `json:"offered_price"`
}

func (pc *PriceController) Negotiate(c *fiber.Ctx) error {
	var req negotiateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	result, err := pc.Analytics.Negotiate(req.ProductName, req.Location, req.OfferedPrice)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute negotiation advice"})
	}
	return c.JSON(result)
}

func (pc *PriceController) Trend(c *fiber.Ctx) error {
	product := c.Params("product_name")
	location := c.Query("location")
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	result, err := pc.Analytics.Trend(product, location, limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load price trend"})
	}
	return c.JSON(result)
}

func (pc *PriceController) DropAlert(c *fiber.Ctx) error {
	product := c.Params("product_name")
	location := c.Query("location")

	result, err := pc.Analytics.DropAlert(product, location)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check price drops"})
	}
	return c.JSON(result)
}

type profitRequest struct {
	ProductName    string  `json:"product_name"`
	Location       string  `json:"location"`
	CostPricePerKg float64 `json:"cost_price_per_kg"`
	QuantityKg     float64 `json:"quantity_kg"`
}

func (pc *PriceController) ProfitEstimate(c *fiber.Ctx) error {
	var req profitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	result, err := pc.Analytics.ProfitEstimate(req.ProductName, req.Location, req.CostPricePerKg, req.QuantityKg)
	if errors.Is(err, services.ErrNoMarketData) {
		return c.Status(404).JSON(fiber.Map{"error": "No market data found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute profit estimate"})
	}
	return c.JSON(result)
}

// Predict returns the model's price forecast at the next sequence index
// for the matching history.
func (pc *PriceController) Predict(c *fiber.Ctx) error {
	product := c.Params("product_name")
	location := c.Query("location")

	count, err := pc.Store.CountMatching(product, location)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load price history"})
	}
	if count < 5 {
		return c.JSON(fiber.Map{"message": "Not enough data for prediction"})
	}

	predicted, err := pc.Models.Predict(product, location, int(count))
	if errors.Is(err, ml.ErrModelNotTrained) {
		return c.JSON(fiber.Map{"message": "Prediction model not trained yet. Collecting more data."})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to run prediction"})
	}

	return c.JSON(fiber.Map{
		"product_name":    product,
		"location":        location,
		"predicted_price": services.Round2(predicted),
	})
}

type trainRequest struct {
	ProductName string `json:"product_name"`
	Location    string `json:"location"`
}

func (pc *PriceController) Train(c *fiber.Ctx) error {
	var req trainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	model, err := pc.Models.Train(req.ProductName, req.Location)
	if errors.Is(err, ml.ErrNotEnoughData) {
		return c.JSON(fiber.Map{"message": "Not enough data to train model"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to train model"})
	}

	return c.JSON(fiber.Map{
		"message":     "Model trained",
		"data_points": model.DataPoints,
		"trained_at":  model.TrainedAt,
	})
}

// DataSummary lists the ten densest (product, location) groups.
func (pc *PriceController) DataSummary(c *fiber.Ctx) error {
	summary, err := pc.Store.Summary(10)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load data summary"})
	}
	return c.JSON(summary)
}

func (pc *PriceController) DataFreshness(c *fiber.Ctx) error {
	latest, ok, err := pc.Store.LatestRecordedAt()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check data freshness"})
	}
	if !ok {
		return c.JSON(fiber.Map{"status": "no data in database"})
	}

	ageHours := time.Since(latest).Hours()
	status := "fresh"
	if ageHours >= 24 {
		status = "stale"
	}
	return c.JSON(fiber.Map{
		"latest_record_time": latest,
		"data_age_hours":     services.Round2(ageHours),
		"status":             status,
	})
}

// Export streams the matching price history as a CSV attachment.
func (pc *PriceController) Export(c *fiber.Ctx) error {
	product := c.Query("product_name")
	location := c.Query("location")

	records, err := pc.Store.Export(product, location)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export prices"})
	}
	if len(records) == 0 {
		return c.JSON(fiber.Map{"message": "No data found"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Product", "Location", "Price per Quintal", "Date Recorded"})
	for _, r := range records {
		w.Write([]string{
			r.ProductName,
			r.Location,
			strconv.FormatFloat(r.PricePerUnit, 'f', -1, 64),
			r.RecordedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s_prices.csv", strings.ToLower(strings.TrimSpace(product))))
	return c.Send(buf.Bytes())
}
