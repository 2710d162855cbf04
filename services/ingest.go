package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"mandi-backend/govdata"
	"mandi-backend/models"
	"mandi-backend/storage"
)

// ErrImportRunning is returned by Run when another import is already in
// flight on the same Importer.
var ErrImportRunning = errors.New("import already running")

const defaultPageSize = 1000

// ImportStats reports what one ingestion run did. DateFallbacks counts
// records whose arrival date could not be parsed and were stored with the
// ingestion wall-clock time instead.
type ImportStats struct {
	Imported           int `json:"imported"`
	Pages              int `json:"pages"`
	Malformed          int `json:"malformed"`
	OutOfRange         int `json:"out_of_range"`
	DuplicatesInRun    int `json:"duplicates_in_run"`
	DuplicatesExisting int `json:"duplicates_existing"`
	DateFallbacks      int `json:"date_fallbacks"`
}

type recordKey struct {
	product  string
	location string
	at       int64
}

// Importer pulls commodity prices from the government source page by page
// and stores the new ones. Runs are idempotent: re-running against
// unchanged upstream data imports nothing. At most one run is in flight at
// a time; concurrent callers get ErrImportRunning.
type Importer struct {
	Store    storage.PriceStore
	Source   govdata.Source
	PageSize int

	running atomic.Bool
	now     func() time.Time
}

func NewImporter(store storage.PriceStore, source govdata.Source) *Importer {
	return &Importer{
		Store:    store,
		Source:   source,
		PageSize: defaultPageSize,
		now:      time.Now,
	}
}

// Run ingests all upstream pages until an empty one. Each page is
// committed as a unit; a fetch failure aborts the run and keeps the pages
// already committed. A call while another run is still going returns
// ErrImportRunning instead of racing it.
func (im *Importer) Run(ctx context.Context) (ImportStats, error) {
	var stats ImportStats
	if !im.running.CompareAndSwap(false, true) {
		return stats, ErrImportRunning
	}
	defer im.running.Store(false)
	seen := make(map[recordKey]struct{})
	offset := 0

	for {
		records, err := im.Source.FetchPage(ctx, offset, im.PageSize)
		if err != nil {
			return stats, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		if len(records) == 0 {
			break
		}

		batch := make([]models.MarketPrice, 0, len(records))
		for _, rec := range records {
			price, err := strconv.ParseFloat(strings.TrimSpace(rec.ModalPrice), 64)
			if err != nil {
				stats.Malformed++
				continue
			}
			// Skip unrealistic prices (₹ per quintal).
			if price <= 50 || price > 100000 {
				stats.OutOfRange++
				continue
			}

			product := strings.ToLower(strings.TrimSpace(rec.Commodity))
			location := strings.ToLower(strings.TrimSpace(rec.Market))
			if product == "" || location == "" {
				stats.Malformed++
				continue
			}

			recordedAt, fellBack := im.parseArrivalDate(rec.ArrivalDate)
			if fellBack {
				stats.DateFallbacks++
			}

			// Dedup inside this run first, then against the store so a
			// re-run over unchanged data imports nothing.
			key := recordKey{product: product, location: location, at: recordedAt.Unix()}
			if _, ok := seen[key]; ok {
				stats.DuplicatesInRun++
				continue
			}
			exists, err := im.Store.Exists(product, location, recordedAt)
			if err != nil {
				return stats, fmt.Errorf("check existing record: %w", err)
			}
			if exists {
				stats.DuplicatesExisting++
				continue
			}
			seen[key] = struct{}{}

			batch = append(batch, models.MarketPrice{
				ProductName:  product,
				Location:     location,
				PricePerUnit: price,
				RecordedAt:   recordedAt,
			})
		}

		if err := im.Store.InsertBatch(batch); err != nil {
			return stats, fmt.Errorf("commit page at offset %d: %w", offset, err)
		}
		stats.Imported += len(batch)
		stats.Pages++
		offset += im.PageSize

		log.Printf("Imported %d records so far (offset %d)", stats.Imported, offset)
	}

	log.Printf("✅ Government data import completed: %d imported, %d duplicates skipped, %d date fallbacks",
		stats.Imported, stats.DuplicatesInRun+stats.DuplicatesExisting, stats.DateFallbacks)
	return stats, nil
}

// parseArrivalDate parses the upstream day/month/year date. A record is
// never dropped for a bad date; the second return reports that the
// ingestion time was used instead.
func (im *Importer) parseArrivalDate(s string) (time.Time, bool) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return im.now().UTC().Truncate(time.Second), true
	}
	return t, false
}
