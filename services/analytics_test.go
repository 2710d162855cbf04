package services

import (
	"errors"
	"testing"
	"time"

	"mandi-backend/cache"
	"mandi-backend/models"
	"mandi-backend/storage"
)

func newAnalytics(store storage.PriceStore) *Analytics {
	return NewAnalytics(store, cache.New(300*time.Second))
}

// seedPrices stores one record per price, oldest first, one day apart.
func seedPrices(t *testing.T, store storage.PriceStore, product, location string, prices []float64) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		err := store.InsertRecord(&models.MarketPrice{
			ProductName:  product,
			Location:     location,
			PricePerUnit: p,
			RecordedAt:   base.Add(time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
}

func TestEstimateNoData(t *testing.T) {
	a := newAnalytics(storage.NewMemoryStore())

	result, err := a.Estimate("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DataPoints != 0 {
		t.Errorf("DataPoints: got %d, want 0", result.DataPoints)
	}
	if result.AveragePriceQtl != 0 || result.SuggestedPriceKg != 0 {
		t.Errorf("expected zero-valued result, got %+v", result)
	}
}

func TestEstimateMath(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100, 200, 300})
	a := newAnalytics(store)

	result, err := a.Estimate("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AveragePriceQtl != 200 {
		t.Errorf("AveragePriceQtl: got %v, want 200", result.AveragePriceQtl)
	}
	if result.MinPriceQtl != 100 || result.MaxPriceQtl != 300 {
		t.Errorf("min/max: got %v/%v, want 100/300", result.MinPriceQtl, result.MaxPriceQtl)
	}
	if result.AveragePriceKg != 2 {
		t.Errorf("AveragePriceKg: got %v, want 2", result.AveragePriceKg)
	}
	// 3% under average, per kg.
	if result.SuggestedPriceKg != 1.94 {
		t.Errorf("SuggestedPriceKg: got %v, want 1.94", result.SuggestedPriceKg)
	}
	if result.DataPoints != 3 {
		t.Errorf("DataPoints: got %d, want 3", result.DataPoints)
	}
}

func TestEstimateUsesMostRecent20(t *testing.T) {
	store := storage.NewMemoryStore()
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 1000 // old
	}
	for i := 5; i < 25; i++ {
		prices[i] = 2000 // the 20 newest
	}
	seedPrices(t, store, "onion", "nashik", prices)
	a := newAnalytics(store)

	result, err := a.Estimate("onion", "nashik")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DataPoints != 20 {
		t.Errorf("DataPoints: got %d, want 20", result.DataPoints)
	}
	if result.AveragePriceQtl != 2000 {
		t.Errorf("AveragePriceQtl: got %v, want 2000 (old records must be excluded)", result.AveragePriceQtl)
	}
}

func TestEstimateCachedWithinTTL(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100, 100})
	a := newAnalytics(store)

	first, err := a.Estimate("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New data inside the TTL window must not change the served result.
	seedPrices(t, store, "tomato", "pune", []float64{9000})
	second, err := a.Estimate("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("cached estimate changed: %+v vs %+v", first, second)
	}
}

func TestNegotiateTiers(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100, 100, 100, 100})
	a := newAnalytics(store)

	cases := []struct {
		offered     float64
		wantAdvice  string
		wantCounter float64
	}{
		{115, "This offer is too high. You should negotiate strongly.", 97},
		{105, "This offer is slightly high. Try negotiating a bit.", 98},
		{90, "Great deal! This price is below market average.", 90},
		{100, "This is a fair market price.", 100},
	}

	for _, tc := range cases {
		result, err := a.Negotiate("tomato", "pune", tc.offered)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Advice != tc.wantAdvice {
			t.Errorf("offered %v: advice %q, want %q", tc.offered, result.Advice, tc.wantAdvice)
		}
		if result.SuggestedCounterPrice != tc.wantCounter {
			t.Errorf("offered %v: counter %v, want %v", tc.offered, result.SuggestedCounterPrice, tc.wantCounter)
		}
	}
}

func TestNegotiateMonotonicTiers(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100, 100, 100})
	a := newAnalytics(store)

	rank := map[string]int{
		"Great deal! This price is below market average.":        0,
		"This is a fair market price.":                           1,
		"This offer is slightly high. Try negotiating a bit.":    2,
		"This offer is too high. You should negotiate strongly.": 3,
	}

	prev := -1
	for offered := 80.0; offered <= 130; offered += 0.5 {
		result, err := a.Negotiate("tomato", "pune", offered)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r, ok := rank[result.Advice]
		if !ok {
			t.Fatalf("unknown advice %q", result.Advice)
		}
		if r < prev {
			t.Fatalf("advice tier regressed at offered=%v", offered)
		}
		prev = r
	}
}

func TestNegotiateNoData(t *testing.T) {
	a := newAnalytics(storage.NewMemoryStore())

	result, err := a.Negotiate("tomato", "pune", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DataPoints != 0 {
		t.Errorf("DataPoints: got %d, want 0", result.DataPoints)
	}
	if result.Advice != "Not enough market data to give advice." {
		t.Errorf("advice: got %q", result.Advice)
	}
	if result.OfferedPrice != 120 {
		t.Errorf("OfferedPrice: got %v, want 120", result.OfferedPrice)
	}
}

func TestTrendClampsLimit(t *testing.T) {
	store := storage.NewMemoryStore()
	prices := make([]float64, 250)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	seedPrices(t, store, "potato", "agra", prices)
	a := newAnalytics(store)

	result, err := a.Trend("potato", "agra", 500, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != 200 {
		t.Errorf("points: got %d, want 200", len(result.Points))
	}
}

func TestTrendPaginationAndOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "potato", "agra", []float64{10, 20, 30, 40})
	a := newAnalytics(store)

	result, err := a.Trend("potato", "agra", 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != 2 {
		t.Fatalf("points: got %d, want 2", len(result.Points))
	}
	if result.Points[0].Price != 20 || result.Points[1].Price != 30 {
		t.Errorf("points out of order: %+v", result.Points)
	}
}

func TestTrendEmptyIsValid(t *testing.T) {
	a := newAnalytics(storage.NewMemoryStore())

	result, err := a.Trend("ginger", "kochi", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Points == nil || len(result.Points) != 0 {
		t.Errorf("expected empty point slice, got %v", result.Points)
	}
}

func TestDropAlertFires(t *testing.T) {
	store := storage.NewMemoryStore()
	// Oldest first; the newest price is 90 against a recent average of 100.
	seedPrices(t, store, "tomato", "pune", []float64{100, 100, 100, 90})
	a := newAnalytics(store)

	result, err := a.DropAlert("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LatestPrice != 90 {
		t.Errorf("LatestPrice: got %v, want 90", result.LatestPrice)
	}
	if result.RecentAverage != 100 {
		t.Errorf("RecentAverage: got %v, want 100", result.RecentAverage)
	}
	if result.DropPercent != 10 {
		t.Errorf("DropPercent: got %v, want 10", result.DropPercent)
	}
	if !result.Alert {
		t.Error("expected alert to fire at 10% drop")
	}
}

func TestDropAlertBelowThreshold(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100, 100, 98})
	a := newAnalytics(store)

	result, err := a.DropAlert("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DropPercent != 2 {
		t.Errorf("DropPercent: got %v, want 2", result.DropPercent)
	}
	if result.Alert {
		t.Error("2% drop must not fire an alert")
	}
}

func TestDropAlertInsufficientData(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPrices(t, store, "tomato", "pune", []float64{100})
	a := newAnalytics(store)

	result, err := a.DropAlert("tomato", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Alert {
		t.Error("alert must not fire with a single record")
	}
	if result.Message != "Not enough data to determine price trend." {
		t.Errorf("message: got %q", result.Message)
	}
}

func TestProfitRiskLevels(t *testing.T) {
	store := storage.NewMemoryStore()
	// All-time average of 100/qtl means 1.00/kg market, 0.98 suggested.
	seedPrices(t, store, "onion", "pune", []float64{100, 100, 100})
	a := newAnalytics(store)

	cases := []struct {
		cost       float64
		wantRisk   string
		wantProfit float64
	}{
		{1.00, "HIGH", -0.02},
		{0.90, "LOW", 0.08},
		{0.95, "MEDIUM", 0.03},
	}

	for _, tc := range cases {
		result, err := a.ProfitEstimate("onion", "pune", tc.cost, 10)
		if err != nil {
			t.Fatalf("cost %v: unexpected error: %v", tc.cost, err)
		}
		if result.RiskLevel != tc.wantRisk {
			t.Errorf("cost %v: risk %q, want %q", tc.cost, result.RiskLevel, tc.wantRisk)
		}
		if result.ExpectedProfitPerKg != tc.wantProfit {
			t.Errorf("cost %v: profit/kg %v, want %v", tc.cost, result.ExpectedProfitPerKg, tc.wantProfit)
		}
		if result.TotalExpectedProfit != Round2(tc.wantProfit*10) {
			t.Errorf("cost %v: total profit %v, want %v", tc.cost, result.TotalExpectedProfit, Round2(tc.wantProfit*10))
		}
	}
}

func TestProfitEstimateNotFound(t *testing.T) {
	a := newAnalytics(storage.NewMemoryStore())

	_, err := a.ProfitEstimate("onion", "pune", 1.0, 10)
	if !errors.Is(err, ErrNoMarketData) {
		t.Fatalf("expected ErrNoMarketData, got %v", err)
	}
}

func TestProfitEstimateMatchesExactly(t *testing.T) {
	store := storage.NewMemoryStore()
	// Only a near-miss product exists; substring matching would find it,
	// exact matching must not.
	seedPrices(t, store, "onion hybrid", "pune", []float64{100, 100})
	a := newAnalytics(store)

	if _, err := a.ProfitEstimate("onion", "pune", 1.0, 10); !errors.Is(err, ErrNoMarketData) {
		t.Fatalf("expected ErrNoMarketData for non-exact product, got %v", err)
	}

	// Estimate, by contrast, matches by substring.
	result, err := a.Estimate("onion", "pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DataPoints != 2 {
		t.Errorf("substring estimate DataPoints: got %d, want 2", result.DataPoints)
	}
}
