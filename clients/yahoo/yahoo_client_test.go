package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"zscorebackend/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("YAHOO_BASE_URL", server.URL)
	return NewClient()
}

func summaryBody(currentPrice, marketPrice, shares, implied float64) string {
	return fmt.Sprintf(`{
		"quoteSummary": {
			"result": [{
				"price": {"regularMarketPrice": {"raw": %v}},
				"financialData": {"currentPrice": {"raw": %v}},
				"defaultKeyStatistics": {
					"sharesOutstanding": {"raw": %v},
					"impliedSharesOutstanding": {"raw": %v}
				}
			}],
			"error": null
		}
	}`, marketPrice, currentPrice, shares, implied)
}

func TestGetQuote_UsesCurrentPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/AAPL", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryBody(101.5, 99.0, 1e9, 0)))
	})
	client := newTestClient(t, mux)

	quote, err := client.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Price != 101.5 {
		t.Errorf("Expected price 101.5, got %v", quote.Price)
	}
	if quote.SharesOutstanding != 1e9 {
		t.Errorf("Expected shares 1e9, got %v", quote.SharesOutstanding)
	}
}

func TestGetQuote_FallsBackToMarketPriceAndImpliedShares(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/MSFT", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryBody(0, 250.0, 0, 7.5e9)))
	})
	client := newTestClient(t, mux)

	quote, err := client.GetQuote(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Price != 250.0 {
		t.Errorf("Expected price 250, got %v", quote.Price)
	}
	if quote.SharesOutstanding != 7.5e9 {
		t.Errorf("Expected shares 7.5e9, got %v", quote.SharesOutstanding)
	}
}

func TestGetQuote_ChartFallbackForPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/F", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryBody(0, 0, 4e9, 0)))
	})
	mux.HandleFunc("/v8/finance/chart/F", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [{"indicators": {"quote": [{"close": [11.2, 11.4]}]}}], "error": null}}`))
	})
	client := newTestClient(t, mux)

	quote, err := client.GetQuote(context.Background(), "F")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Price != 11.4 {
		t.Errorf("Expected last close 11.4, got %v", quote.Price)
	}
}

func TestGetQuote_MissingShares(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/XYZ", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryBody(10.0, 0, 0, 0)))
	})
	client := newTestClient(t, mux)

	_, err := client.GetQuote(context.Background(), "XYZ")
	if !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Errorf("Expected ErrQuoteUnavailable, got %v", err)
	}
}

func TestGetQuote_NoResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/EMPTY", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
	})
	client := newTestClient(t, mux)

	_, err := client.GetQuote(context.Background(), "EMPTY")
	if !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Errorf("Expected ErrQuoteUnavailable, got %v", err)
	}
}
