package models

import "time"

// Purchase is one buy logged by a vendor.
type Purchase struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	VendorID     uint      `json:"vendor_id" gorm:"index"`
	ProductName  string    `json:"product_name" gorm:"type:varchar(100)"`
	Quantity     float64   `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	SellerName   string    `json:"seller_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type PurchaseAnalysisItem struct {
	ProductName        string  `json:"product_name"`
	PurchasePrice      float64 `json:"purchase_price"`
	MarketAveragePrice float64 `json:"market_average_price"`
	DifferencePercent  float64 `json:"difference_percent"`
	Insight            string  `json:"insight"`
}

type SupplierRankItem struct {
	SellerName     string  `json:"seller_name"`
	AvgPrice       float64 `json:"avg_price"`
	TotalPurchases int64   `json:"total_purchases"`
	Performance    string  `json:"performance"`
}
