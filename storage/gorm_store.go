package storage

import (
	"errors"
	"strings"
	"time"

	"mandi-backend/models"

	"gorm.io/gorm"
)

// GormStore implements PriceStore on top of the MySQL database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Records are stored lower-cased, so lowering the needle makes LIKE
// case-insensitive regardless of column collation.
func like(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *GormStore) InsertRecord(rec *models.MarketPrice) error {
	return s.db.Create(rec).Error
}

func (s *GormStore) InsertBatch(recs []models.MarketPrice) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.Create(&recs).Error
}

func (s *GormStore) Exists(product, location string, recordedAt time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.MarketPrice{}).
		Where("product_name = ? AND location = ? AND recorded_at = ?", norm(product), norm(location), recordedAt).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) RecentPrices(product, location string, limit int) ([]float64, error) {
	var prices []float64
	err := s.db.Model(&models.MarketPrice{}).
		Where("product_name LIKE ?", like(product)).
		Where("location LIKE ?", like(location)).
		Order("recorded_at DESC").
		Limit(limit).
		Pluck("price_per_unit", &prices).Error
	return prices, err
}

func (s *GormStore) RecentPricesByProduct(product string, limit int) ([]float64, error) {
	var prices []float64
	err := s.db.Model(&models.MarketPrice{}).
		Where("product_name = ?", norm(product)).
		Order("recorded_at DESC").
		Limit(limit).
		Pluck("price_per_unit", &prices).Error
	return prices, err
}

func (s *GormStore) TrendPoints(product, location string, limit, offset int) ([]models.PricePoint, error) {
	var points []models.PricePoint
	err := s.db.Model(&models.MarketPrice{}).
		Select("price_per_unit AS price, recorded_at").
		Where("product_name LIKE ?", like(product)).
		Where("location LIKE ?", like(location)).
		Order("recorded_at ASC").
		Offset(offset).
		Limit(limit).
		Scan(&points).Error
	return points, err
}

func (s *GormStore) HistoryPrices(product, location string) ([]float64, error) {
	var prices []float64
	err := s.db.Model(&models.MarketPrice{}).
		Where("product_name = ? AND location = ?", norm(product), norm(location)).
		Order("recorded_at ASC").
		Pluck("price_per_unit", &prices).Error
	return prices, err
}

func (s *GormStore) CountMatching(product, location string) (int64, error) {
	var count int64
	err := s.db.Model(&models.MarketPrice{}).
		Where("product_name LIKE ?", like(product)).
		Where("location LIKE ?", like(location)).
		Count(&count).Error
	return count, err
}

func (s *GormStore) AverageExact(product, location string) (float64, int64, error) {
	var row struct {
		Avg float64
		Cnt int64
	}
	err := s.db.Model(&models.MarketPrice{}).
		Select("COALESCE(AVG(price_per_unit), 0) AS avg, COUNT(*) AS cnt").
		Where("product_name = ? AND location = ?", norm(product), norm(location)).
		Scan(&row).Error
	return row.Avg, row.Cnt, err
}

func (s *GormStore) Summary(limit int) ([]models.ProductSummary, error) {
	var out []models.ProductSummary
	err := s.db.Model(&models.MarketPrice{}).
		Select("product_name, location, COUNT(*) AS records").
		Group("product_name, location").
		Order("records DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (s *GormStore) LatestRecordedAt() (time.Time, bool, error) {
	var rec models.MarketPrice
	err := s.db.Order("recorded_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return rec.RecordedAt, true, nil
}

func (s *GormStore) Export(product, location string) ([]models.MarketPrice, error) {
	var recs []models.MarketPrice
	err := s.db.
		Where("product_name LIKE ?", like(product)).
		Where("location LIKE ?", like(location)).
		Order("recorded_at ASC").
		Find(&recs).Error
	return recs, err
}
