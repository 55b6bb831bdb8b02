package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"zscorebackend/types"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects requests without a browser-looking User-Agent.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches market data from the Yahoo Finance JSON APIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Yahoo Finance client. YAHOO_BASE_URL overrides the
// endpoint for testing.
func NewClient() *Client {
	baseURL := os.Getenv("YAHOO_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request to Yahoo Finance: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching from Yahoo Finance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("Received non-200 response from Yahoo Finance", zap.Int("status_code", resp.StatusCode), zap.String("url", reqURL))
		return nil, fmt.Errorf("received non-200 response code from Yahoo Finance: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// rawValue is Yahoo's {"raw": 123.45, "fmt": "123.45"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"price"`
			FinancialData struct {
				CurrentPrice rawValue `json:"currentPrice"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				SharesOutstanding        rawValue `json:"sharesOutstanding"`
				ImpliedSharesOutstanding rawValue `json:"impliedSharesOutstanding"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the current price and shares outstanding for a ticker.
// Price resolution order: currentPrice, regularMarketPrice, then the last
// close from the one-day chart. Shares outstanding falls back to the implied
// figure. Anything still missing surfaces as ErrQuoteUnavailable.
func (c *Client) GetQuote(ctx context.Context, ticker string) (types.MarketQuote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return types.MarketQuote{}, fmt.Errorf("%w: empty ticker", types.ErrQuoteUnavailable)
	}

	modules := "price,defaultKeyStatistics,financialData"
	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", c.baseURL, url.PathEscape(ticker), modules)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return types.MarketQuote{}, fmt.Errorf("%w: %v", types.ErrQuoteUnavailable, err)
	}

	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return types.MarketQuote{}, fmt.Errorf("%w: error parsing quote summary: %v", types.ErrQuoteUnavailable, err)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return types.MarketQuote{}, fmt.Errorf("%w: no data for ticker %s", types.ErrQuoteUnavailable, ticker)
	}

	result := summary.QuoteSummary.Result[0]

	price := result.FinancialData.CurrentPrice.Raw
	if price <= 0 {
		price = result.Price.RegularMarketPrice.Raw
	}
	if price <= 0 {
		price, err = c.lastClose(ctx, ticker)
		if err != nil {
			zap.L().Warn("Chart price fallback failed", zap.String("ticker", ticker), zap.Error(err))
		}
	}

	shares := result.DefaultKeyStatistics.SharesOutstanding.Raw
	if shares <= 0 {
		shares = result.DefaultKeyStatistics.ImpliedSharesOutstanding.Raw
	}

	if price <= 0 || shares <= 0 {
		return types.MarketQuote{}, fmt.Errorf("%w: incomplete market data for ticker %s", types.ErrQuoteUnavailable, ticker)
	}

	return types.MarketQuote{Price: price, SharesOutstanding: shares}, nil
}

// lastClose returns the most recent close from the one-day chart.
func (c *Client) lastClose(ctx context.Context, ticker string) (float64, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(ticker))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return 0, err
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return 0, fmt.Errorf("error parsing chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("Yahoo Finance chart error: %v", chart.Chart.Error)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return 0, fmt.Errorf("no chart data for ticker %s", ticker)
	}

	closes := chart.Chart.Result[0].Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			return closes[i], nil
		}
	}
	return 0, fmt.Errorf("no usable close price for ticker %s", ticker)
}
