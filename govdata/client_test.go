package govdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(serverURL string) *Client {
	return &Client{
		apiKey:  "test-key",
		baseURL: serverURL,
		http:    http.DefaultClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestFetchPageParsesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api-key") != "test-key" {
			t.Errorf("api-key: got %q", q.Get("api-key"))
		}
		if q.Get("format") != "json" {
			t.Errorf("format: got %q", q.Get("format"))
		}
		if q.Get("limit") != "1000" || q.Get("offset") != "2000" {
			t.Errorf("paging: got limit=%q offset=%q", q.Get("limit"), q.Get("offset"))
		}
		fmt.Fprint(w, `{"records":[{"commodity":"Tomato","market":"Pune","modal_price":"1500","arrival_date":"15/08/2025"}]}`)
	}))
	defer server.Close()

	records, err := testClient(server.URL).FetchPage(context.Background(), 2000, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0].Commodity != "Tomato" || records[0].ModalPrice != "1500" {
		t.Errorf("record fields: got %+v", records[0])
	}
}

func TestFetchPageEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"records":[]}`)
	}))
	defer server.Close()

	records, err := testClient(server.URL).FetchPage(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
}

func TestFetchPageUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).FetchPage(context.Background(), 0, 1000); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchPageMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).FetchPage(context.Background(), 0, 1000); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}
