package models

import "time"

// Typed results for the price intelligence endpoints. A zero DataPoints
// means "not enough market data", which is a valid answer, not an error.

type PriceEstimate struct {
	ProductName string `json:"product_name"`
	Location    string `json:"location"`

	AveragePriceQtl float64 `json:"average_price_qtl"`
	AveragePriceKg  float64 `json:"average_price_kg"`

	MinPriceQtl float64 `json:"min_price_qtl"`
	MinPriceKg  float64 `json:"min_price_kg"`

	MaxPriceQtl float64 `json:"max_price_qtl"`
	MaxPriceKg  float64 `json:"max_price_kg"`

	SuggestedPriceKg float64 `json:"suggested_price_kg"`

	DataPoints int `json:"data_points"`
}

type NegotiationAdvice struct {
	MarketAverage         float64 `json:"market_average"`
	OfferedPrice          float64 `json:"offered_price"`
	DifferencePercent     float64 `json:"difference_percent"`
	Advice                string  `json:"advice"`
	SuggestedCounterPrice float64 `json:"suggested_counter_price"`
	DataPoints            int     `json:"data_points"`
}

type PricePoint struct {
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

type PriceTrend struct {
	ProductName string       `json:"product_name"`
	Location    string       `json:"location"`
	Points      []PricePoint `json:"points"`
}

type DropAlert struct {
	ProductName   string  `json:"product_name"`
	Location      string  `json:"location"`
	LatestPrice   float64 `json:"latest_price"`
	RecentAverage float64 `json:"recent_average"`
	DropPercent   float64 `json:"drop_percent"`
	Alert         bool    `json:"alert"`
	Message       string  `json:"message"`
	DataPoints    int     `json:"data_points"`
}

type ProfitEstimate struct {
	ProductName string `json:"product_name"`
	Location    string `json:"location"`

	SuggestedPricePerKg float64 `json:"suggested_price_per_kg"`
	ExpectedProfitPerKg float64 `json:"expected_profit_per_kg"`
	TotalExpectedProfit float64 `json:"total_expected_profit"`
	MarketAveragePerKg  float64 `json:"market_average_per_kg"`

	RiskLevel string `json:"risk_level"` // LOW / MEDIUM / HIGH
	Message   string `json:"message"`
}

type ProductSummary struct {
	ProductName string `json:"product_name"`
	Location    string `json:"location"`
	Records     int64  `json:"records"`
}
