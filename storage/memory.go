package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"mandi-backend/models"
)

// MemoryStore is an in-memory PriceStore. It backs the service and model
// tests so they can run without a MySQL instance, and mirrors the query
// semantics of GormStore: substring matches are case-insensitive, exact
// matches compare normalized strings.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.MarketPrice
	nextID  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) InsertRecord(rec *models.MarketPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) InsertBatch(recs []models.MarketPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range recs {
		recs[i].ID = s.nextID
		s.nextID++
		if recs[i].CreatedAt.IsZero() {
			recs[i].CreatedAt = time.Now()
		}
		s.records = append(s.records, recs[i])
	}
	return nil
}

func (s *MemoryStore) Exists(product, location string, recordedAt time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ProductName == norm(product) && r.Location == norm(location) && r.RecordedAt.Equal(recordedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) matching(product, location string) []models.MarketPrice {
	p, l := norm(product), norm(location)
	var out []models.MarketPrice
	for _, r := range s.records {
		if strings.Contains(r.ProductName, p) && strings.Contains(r.Location, l) {
			out = append(out, r)
		}
	}
	return out
}

func sortAsc(recs []models.MarketPrice) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RecordedAt.Before(recs[j].RecordedAt)
	})
}

func sortDesc(recs []models.MarketPrice) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RecordedAt.After(recs[j].RecordedAt)
	})
}

func (s *MemoryStore) RecentPrices(product, location string, limit int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.matching(product, location)
	sortDesc(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	prices := make([]float64, len(recs))
	for i, r := range recs {
		prices[i] = r.PricePerUnit
	}
	return prices, nil
}

func (s *MemoryStore) RecentPricesByProduct(product string, limit int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := norm(product)
	var recs []models.MarketPrice
	for _, r := range s.records {
		if r.ProductName == p {
			recs = append(recs, r)
		}
	}
	sortDesc(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	prices := make([]float64, len(recs))
	for i, r := range recs {
		prices[i] = r.PricePerUnit
	}
	return prices, nil
}

func (s *MemoryStore) TrendPoints(product, location string, limit, offset int) ([]models.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.matching(product, location)
	sortAsc(recs)
	if offset > len(recs) {
		offset = len(recs)
	}
	recs = recs[offset:]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	points := make([]models.PricePoint, len(recs))
	for i, r := range recs {
		points[i] = models.PricePoint{Price: r.PricePerUnit, RecordedAt: r.RecordedAt}
	}
	return points, nil
}

func (s *MemoryStore) HistoryPrices(product, location string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, l := norm(product), norm(location)
	var recs []models.MarketPrice
	for _, r := range s.records {
		if r.ProductName == p && r.Location == l {
			recs = append(recs, r)
		}
	}
	sortAsc(recs)
	prices := make([]float64, len(recs))
	for i, r := range recs {
		prices[i] = r.PricePerUnit
	}
	return prices, nil
}

func (s *MemoryStore) CountMatching(product, location string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(product, location))), nil
}

func (s *MemoryStore) AverageExact(product, location string) (float64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, l := norm(product), norm(location)
	var sum float64
	var count int64
	for _, r := range s.records {
		if r.ProductName == p && r.Location == l {
			sum += r.PricePerUnit
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (s *MemoryStore) Summary(limit int) ([]models.ProductSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct{ product, location string }
	counts := make(map[key]int64)
	for _, r := range s.records {
		counts[key{r.ProductName, r.Location}]++
	}
	out := make([]models.ProductSummary, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.ProductSummary{ProductName: k.product, Location: k.location, Records: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Records > out[j].Records })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) LatestRecordedAt() (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.records) == 0 {
		return time.Time{}, false, nil
	}
	latest := s.records[0].RecordedAt
	for _, r := range s.records[1:] {
		if r.RecordedAt.After(latest) {
			latest = r.RecordedAt
		}
	}
	return latest, true, nil
}

func (s *MemoryStore) Export(product, location string) ([]models.MarketPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.matching(product, location)
	sortAsc(recs)
	return recs, nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
