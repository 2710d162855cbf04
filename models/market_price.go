package models

import "time"

// MarketPrice is one commodity price observation, in rupees per quintal.
// Product name and location are stored lower-cased and trimmed so that
// lookups and dedup checks can compare them directly. Records are
// append-only: they are never updated or deleted once written.
type MarketPrice struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductName  string    `json:"product_name" gorm:"type:varchar(100);index:idx_market_prices_key"`
	Location     string    `json:"location" gorm:"type:varchar(100);index:idx_market_prices_key"`
	PricePerUnit float64   `json:"price_per_unit"`
	RecordedAt   time.Time `json:"recorded_at" gorm:"index:idx_market_prices_key"` // mandi date when the source reports one
	CreatedAt    time.Time `json:"created_at"`
}
