package storage

import (
	"testing"
	"time"

	"mandi-backend/models"
)

func seed(t *testing.T, s *MemoryStore, product, location string, price float64, day int) {
	t.Helper()
	err := s.InsertRecord(&models.MarketPrice{
		ProductName:  product,
		Location:     location,
		PricePerUnit: price,
		RecordedAt:   time.Date(2025, 1, 1+day, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestRecentPricesSubstringAndOrder(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "onion", "pune", 100, 0)
	seed(t, s, "onion hybrid", "pune market", 200, 1)
	seed(t, s, "tomato", "pune", 300, 2)

	prices, err := s.RecentPrices("onion", "pune", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Substring match picks up "onion hybrid" too, newest first.
	if len(prices) != 2 || prices[0] != 200 || prices[1] != 100 {
		t.Errorf("prices: got %v, want [200 100]", prices)
	}
}

func TestRecentPricesCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "onion", "pune", 100, 0)

	prices, err := s.RecentPrices("ONION", " Pune ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Errorf("case-insensitive match failed: %v", prices)
	}
}

func TestHistoryPricesExactAscending(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "onion", "pune", 300, 2)
	seed(t, s, "onion", "pune", 100, 0)
	seed(t, s, "onion hybrid", "pune", 999, 1)

	prices, err := s.HistoryPrices("onion", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 2 || prices[0] != 100 || prices[1] != 300 {
		t.Errorf("prices: got %v, want [100 300] (exact match, oldest first)", prices)
	}
}

func TestAverageExact(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "onion", "pune", 100, 0)
	seed(t, s, "onion", "pune", 200, 1)
	seed(t, s, "onion hybrid", "pune", 5000, 2)

	avg, count, err := s.AverageExact("onion", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || avg != 150 {
		t.Errorf("avg/count: got %v/%v, want 150/2", avg, count)
	}

	_, count, err = s.AverageExact("garlic", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("count for missing key: got %v, want 0", count)
	}
}

func TestExistsMatchesIdentityTriple(t *testing.T) {
	s := NewMemoryStore()
	at := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	s.InsertRecord(&models.MarketPrice{ProductName: "onion", Location: "pune", PricePerUnit: 100, RecordedAt: at})

	ok, err := s.Exists("onion", "pune", at)
	if err != nil || !ok {
		t.Errorf("expected existing triple to be found (err=%v)", err)
	}
	ok, _ = s.Exists("onion", "pune", at.Add(24*time.Hour))
	if ok {
		t.Error("different recorded_at must not match")
	}
}

func TestSummaryOrdersByCount(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "onion", "pune", 100, 0)
	seed(t, s, "onion", "pune", 110, 1)
	seed(t, s, "onion", "pune", 120, 2)
	seed(t, s, "tomato", "agra", 90, 0)

	summary, err := s.Summary(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("groups: got %d, want 2", len(summary))
	}
	if summary[0].ProductName != "onion" || summary[0].Records != 3 {
		t.Errorf("top group: got %+v", summary[0])
	}
}

func TestLatestRecordedAt(t *testing.T) {
	s := NewMemoryStore()
	if _, ok, _ := s.LatestRecordedAt(); ok {
		t.Error("empty store must report no latest record")
	}

	seed(t, s, "onion", "pune", 100, 0)
	seed(t, s, "onion", "pune", 110, 5)
	seed(t, s, "onion", "pune", 120, 2)

	latest, ok, err := s.LatestRecordedAt()
	if err != nil || !ok {
		t.Fatalf("expected a latest record (err=%v)", err)
	}
	want := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if !latest.Equal(want) {
		t.Errorf("latest: got %v, want %v", latest, want)
	}
}
