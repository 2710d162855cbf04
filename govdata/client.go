package govdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ResourceID of the daily mandi commodity price dataset on data.gov.in.
const ResourceID = "9ef84268-d588-465a-a308-a864a43d0070"

const defaultBaseURL = "https://api.data.gov.in/resource/" + ResourceID

// RawRecord is one row as the upstream API reports it. Every field is a
// string on the wire, including the price.
type RawRecord struct {
	Commodity   string `json:"commodity"`
	Market      string `json:"market"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"` // day/month/year
}

// Source is the paged fetch interface the importer consumes. An empty page
// signals the end of the data set.
type Source interface {
	FetchPage(ctx context.Context, offset, limit int) ([]RawRecord, error)
}

// Client fetches pages from the data.gov.in resource API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		// The public API throttles aggressively; stay under 2 req/s.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (c *Client) FetchPage(ctx context.Context, offset, limit int) ([]RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gov prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch gov prices: unexpected status %s", resp.Status)
	}

	var out struct {
		Records []RawRecord `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gov prices response: %w", err)
	}
	return out.Records, nil
}
