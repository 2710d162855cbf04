package storage

import (
	"time"

	"mandi-backend/models"
)

// PriceStore is the query surface the intelligence services need from the
// price history. Substring lookups are case-insensitive and match anywhere
// in the product name / location; exact lookups compare the normalized
// (lower-cased, trimmed) strings directly.
type PriceStore interface {
	// InsertRecord stores a single validated price record.
	InsertRecord(rec *models.MarketPrice) error
	// InsertBatch commits one ingestion page as a unit.
	InsertBatch(recs []models.MarketPrice) error
	// Exists reports whether a record with the same identity triple is
	// already stored.
	Exists(product, location string, recordedAt time.Time) (bool, error)

	// RecentPrices returns up to limit prices matching by substring,
	// newest first.
	RecentPrices(product, location string, limit int) ([]float64, error)
	// RecentPricesByProduct is RecentPrices with an exact product match
	// and no location filter (purchase analysis).
	RecentPricesByProduct(product string, limit int) ([]float64, error)
	// TrendPoints returns (price, recorded_at) pairs matching by
	// substring, oldest first, with pagination.
	TrendPoints(product, location string, limit, offset int) ([]models.PricePoint, error)
	// HistoryPrices returns the full exact-match price history, oldest
	// first. Used for model training.
	HistoryPrices(product, location string) ([]float64, error)
	// CountMatching counts records matching by substring.
	CountMatching(product, location string) (int64, error)
	// AverageExact returns the mean price and record count over all
	// exact matches.
	AverageExact(product, location string) (float64, int64, error)

	// Summary returns the top (product, location) groups by record count.
	Summary(limit int) ([]models.ProductSummary, error)
	// LatestRecordedAt returns the newest recorded time, if any record exists.
	LatestRecordedAt() (time.Time, bool, error)
	// Export returns full records matching by substring, oldest first.
	Export(product, location string) ([]models.MarketPrice, error)
}
