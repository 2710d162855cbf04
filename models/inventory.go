package models

import "time"

// Inventory tracks a vendor's stock of one product.
type Inventory struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	VendorID          uint      `json:"vendor_id" gorm:"index"`
	ProductName       string    `json:"product_name" gorm:"type:varchar(100)"`
	QuantityAvailable float64   `json:"quantity_available"`
	MinimumThreshold  float64   `json:"minimum_threshold" gorm:"default:10"`
	LastUpdated       time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

type LowStockItem struct {
	ProductName       string  `json:"product_name"`
	QuantityAvailable float64 `json:"quantity_available"`
	MinimumThreshold  float64 `json:"minimum_threshold"`
	Shortage          float64 `json:"shortage"`
}
