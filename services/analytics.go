package services

import (
	"errors"
	"math"
	"strings"

	"mandi-backend/cache"
	"mandi-backend/models"
	"mandi-backend/storage"
)

const (
	// recentWindow bounds how much history the estimate and negotiation
	// rules look at.
	recentWindow  = 20
	alertWindow   = 10
	maxTrendLimit = 200

	// Wholesale prices are per quintal; retail advice is per kg.
	kgPerQuintal = 100
)

// ErrNoMarketData is returned by ProfitEstimate when no record matches the
// exact product and location. The caller supplied a cost basis expecting a
// real answer, so this is a hard error, unlike the zero-valued
// insufficient-data results elsewhere.
var ErrNoMarketData = errors.New("no market data found")

// Analytics computes price intelligence over the stored history. All
// operations are read-only; Estimate results are memoized in the cache.
type Analytics struct {
	Store storage.PriceStore
	Cache *cache.Cache
}

func NewAnalytics(store storage.PriceStore, c *cache.Cache) *Analytics {
	return &Analytics{Store: store, Cache: c}
}

// cacheKey must match the normalization used for stored records, or keys
// fragment silently.
func cacheKey(product, location string) string {
	return strings.ToLower(strings.TrimSpace(product)) + "_" + strings.ToLower(strings.TrimSpace(location))
}

// Round2 rounds a monetary value to 2 decimal places. Applied only at
// operation boundaries, never mid-computation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2(v float64) float64 { return Round2(v) }

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Estimate returns average/min/max over the 20 most recent matching
// records plus a suggested haggling price 3% under average. No matching
// data yields an all-zero result with DataPoints 0, not an error.
func (a *Analytics) Estimate(product, location string) (models.PriceEstimate, error) {
	v, err := a.Cache.GetOrCompute(cacheKey(product, location), func() (interface{}, error) {
		return a.computeEstimate(product, location)
	})
	if err != nil {
		return models.PriceEstimate{}, err
	}
	return v.(models.PriceEstimate), nil
}

func (a *Analytics) computeEstimate(product, location string) (models.PriceEstimate, error) {
	prices, err := a.Store.RecentPrices(product, location, recentWindow)
	if err != nil {
		return models.PriceEstimate{}, err
	}

	result := models.PriceEstimate{
		ProductName: product,
		Location:    location,
	}
	if len(prices) == 0 {
		return result, nil
	}

	avg := mean(prices)
	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	suggested := avg * 0.97

	result.AveragePriceQtl = round2(avg)
	result.AveragePriceKg = round2(avg / kgPerQuintal)
	result.MinPriceQtl = round2(min)
	result.MinPriceKg = round2(min / kgPerQuintal)
	result.MaxPriceQtl = round2(max)
	result.MaxPriceKg = round2(max / kgPerQuintal)
	result.SuggestedPriceKg = round2(suggested / kgPerQuintal)
	result.DataPoints = len(prices)
	return result, nil
}

// Negotiate compares an offered price against the recent market average
// and suggests a counter price. Thresholds are fixed policy, first match
// wins.
func (a *Analytics) Negotiate(product, location string, offeredPrice float64) (models.NegotiationAdvice, error) {
	prices, err := a.Store.RecentPrices(product, location, recentWindow)
	if err != nil {
		return models.NegotiationAdvice{}, err
	}

	if len(prices) == 0 {
		return models.NegotiationAdvice{
			OfferedPrice: offeredPrice,
			Advice:       "Not enough market data to give advice.",
		}, nil
	}

	avg := mean(prices)
	diffPercent := ((offeredPrice - avg) / avg) * 100

	var advice string
	var counter float64
	switch {
	case diffPercent > 10:
		advice = "This offer is too high. You should negotiate strongly."
		counter = round2(avg * 0.97)
	case diffPercent > 3:
		advice = "This offer is slightly high. Try negotiating a bit."
		counter = round2(avg * 0.98)
	case diffPercent < -5:
		advice = "Great deal! This price is below market average."
		counter = offeredPrice
	default:
		advice = "This is a fair market price."
		counter = round2(avg)
	}

	return models.NegotiationAdvice{
		MarketAverage:         round2(avg),
		OfferedPrice:          offeredPrice,
		DifferencePercent:     round2(diffPercent),
		Advice:                advice,
		SuggestedCounterPrice: counter,
		DataPoints:            len(prices),
	}, nil
}

// Trend returns the chronological price series with pagination. The limit
// is clamped to keep responses bounded; an empty series is a valid answer.
func (a *Analytics) Trend(product, location string, limit, offset int) (models.PriceTrend, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxTrendLimit {
		limit = maxTrendLimit
	}
	if offset < 0 {
		offset = 0
	}

	points, err := a.Store.TrendPoints(product, location, limit, offset)
	if err != nil {
		return models.PriceTrend{}, err
	}
	if points == nil {
		points = []models.PricePoint{}
	}
	return models.PriceTrend{
		ProductName: product,
		Location:    location,
		Points:      points,
	}, nil
}

// DropAlert fires when the latest price sits more than 5% under the
// average of the preceding recent prices.
func (a *Analytics) DropAlert(product, location string) (models.DropAlert, error) {
	prices, err := a.Store.RecentPrices(product, location, alertWindow)
	if err != nil {
		return models.DropAlert{}, err
	}

	result := models.DropAlert{
		ProductName: product,
		Location:    location,
		DataPoints:  len(prices),
	}
	if len(prices) < 2 {
		result.Message = "Not enough data to determine price trend."
		return result, nil
	}

	latest := prices[0]
	recentAvg := mean(prices[1:])
	dropPercent := ((recentAvg - latest) / recentAvg) * 100

	result.LatestPrice = latest
	result.RecentAverage = round2(recentAvg)
	result.DropPercent = round2(dropPercent)
	if dropPercent > 5 {
		result.Alert = true
		result.Message = "Price dropped significantly. Good time to buy!"
	} else {
		result.Message = "No significant price drop detected."
	}
	return result, nil
}

// ProfitEstimate projects the margin of selling quantityKg bought at
// costPricePerKg, against the all-time average for the exact product and
// location. Exact matching is deliberate: mixing commodities that merely
// share a substring would corrupt the cost comparison.
func (a *Analytics) ProfitEstimate(product, location string, costPricePerKg, quantityKg float64) (models.ProfitEstimate, error) {
	avgQtl, count, err := a.Store.AverageExact(product, location)
	if err != nil {
		return models.ProfitEstimate{}, err
	}
	if count == 0 {
		return models.ProfitEstimate{}, ErrNoMarketData
	}

	marketAvgPerKg := avgQtl / kgPerQuintal
	suggested := marketAvgPerKg * 0.98

	profitPerKg := suggested - costPricePerKg
	totalProfit := profitPerKg * quantityKg

	var risk, msg string
	switch {
	case profitPerKg < 0:
		risk = "HIGH"
		msg = "You are likely to incur a loss at this price."
	case profitPerKg < marketAvgPerKg*0.05:
		risk = "MEDIUM"
		msg = "Profit margin is very low. Consider negotiating a better price."
	default:
		risk = "LOW"
		msg = "Good profit margin based on current market conditions."
	}

	return models.ProfitEstimate{
		ProductName:         product,
		Location:            location,
		SuggestedPricePerKg: round2(suggested),
		ExpectedProfitPerKg: round2(profitPerKg),
		TotalExpectedProfit: round2(totalProfit),
		MarketAveragePerKg:  round2(marketAvgPerKg),
		RiskLevel:           risk,
		Message:             msg,
	}, nil
}
