package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"zscorebackend/types"
	"zscorebackend/utils/helpers"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultDataBaseURL = "https://data.sec.gov"
	defaultWWWBaseURL  = "https://www.sec.gov"

	defaultUserAgent = "zscorebackend/1.0 (contact@example.com)"
)

// Client talks to SEC EDGAR. SEC requires a descriptive User-Agent and caps
// clients at 10 requests per second, so every request goes through the limiter.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	limiter     *rate.Limiter
	dataBaseURL string // data.sec.gov: submissions, XBRL facts
	wwwBaseURL  string // www.sec.gov: ticker mapping, Archives
}

// NewClient creates an EDGAR client. The User-Agent comes from SEC_USER_AGENT
// so deployments can register their own contact address; SEC_DATA_URL and
// SEC_WWW_URL override the endpoints for testing.
func NewClient() *Client {
	userAgent := os.Getenv("SEC_USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	dataBaseURL := os.Getenv("SEC_DATA_URL")
	if dataBaseURL == "" {
		dataBaseURL = defaultDataBaseURL
	}
	wwwBaseURL := os.Getenv("SEC_WWW_URL")
	if wwwBaseURL == "" {
		wwwBaseURL = defaultWWWBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		userAgent:   userAgent,
		limiter:     rate.NewLimiter(rate.Limit(10), 10),
		dataBaseURL: dataBaseURL,
		wwwBaseURL:  wwwBaseURL,
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request to SEC: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: error fetching from SEC: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("Received non-200 response from SEC", zap.Int("status_code", resp.StatusCode), zap.String("url", url))
		return nil, fmt.Errorf("%w: received non-200 response code from SEC: %d", types.ErrSourceUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// tickerEntry is one record in company_tickers.json, keyed by arbitrary index.
type tickerEntry struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveCompany maps a ticker symbol or company name to its SEC identity.
// Exact ticker matches win; otherwise a case-insensitive name containment
// check in either direction is accepted, matching how filers abbreviate names.
func (c *Client) ResolveCompany(ctx context.Context, identifier string) (types.CompanyIdentity, error) {
	body, err := c.get(ctx, c.wwwBaseURL+"/files/company_tickers.json")
	if err != nil {
		return types.CompanyIdentity{}, err
	}

	var entries map[string]tickerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return types.CompanyIdentity{}, fmt.Errorf("error parsing company tickers: %w", err)
	}

	// The feed is keyed "0", "1", ... in market-cap order. Map iteration is
	// randomized, so scan keys in numeric order to keep ambiguous name
	// matches resolving to the same, largest filer every time.
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	upper := strings.ToUpper(strings.TrimSpace(identifier))
	lower := helpers.NormalizeString(identifier)

	var nameMatch *tickerEntry
	for _, key := range keys {
		entry := entries[key]
		if strings.ToUpper(entry.Ticker) == upper {
			return types.CompanyIdentity{
				CIK:    helpers.PadCIK(fmt.Sprintf("%d", entry.CIK)),
				Ticker: strings.ToUpper(entry.Ticker),
				Name:   entry.Title,
			}, nil
		}
		if nameMatch == nil {
			title := helpers.NormalizeString(entry.Title)
			if lower != "" && (strings.Contains(title, lower) || strings.Contains(lower, title)) {
				e := entry
				nameMatch = &e
			}
		}
	}

	if nameMatch != nil {
		return types.CompanyIdentity{
			CIK:    helpers.PadCIK(fmt.Sprintf("%d", nameMatch.CIK)),
			Ticker: strings.ToUpper(nameMatch.Ticker),
			Name:   nameMatch.Title,
		}, nil
	}

	return types.CompanyIdentity{}, fmt.Errorf("%w: %s", types.ErrCompanyNotFound, identifier)
}

// submissionsResponse mirrors the submissions feed. Filing attributes arrive
// as parallel arrays.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// LatestFiling selects the single most recent filing of the given form type.
// Ordering is filing date descending with accession number descending as the
// tie-break, so repeated calls over the same feed always pick the same filing.
func (c *Client) LatestFiling(ctx context.Context, cik, formType string) (types.FilingRef, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL, helpers.PadCIK(cik)))
	if err != nil {
		return types.FilingRef{}, err
	}

	var submissions submissionsResponse
	if err := json.Unmarshal(body, &submissions); err != nil {
		return types.FilingRef{}, fmt.Errorf("error parsing submissions feed: %w", err)
	}

	recent := submissions.Filings.Recent
	var candidates []types.FilingRef
	for i := range recent.AccessionNumber {
		if recent.Form[i] != formType {
			continue
		}
		candidates = append(candidates, types.FilingRef{
			AccessionNumber: recent.AccessionNumber[i],
			FormType:        recent.Form[i],
			FilingDate:      recent.FilingDate[i],
			ReportDate:      recent.ReportDate[i],
			PrimaryDocument: recent.PrimaryDocument[i],
		})
	}

	if len(candidates) == 0 {
		return types.FilingRef{}, fmt.Errorf("%w: no recent %s for CIK %s", types.ErrFilingUnavailable, formType, cik)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FilingDate != candidates[j].FilingDate {
			return candidates[i].FilingDate > candidates[j].FilingDate
		}
		return candidates[i].AccessionNumber > candidates[j].AccessionNumber
	})

	return candidates[0], nil
}

// companyFactsResponse mirrors the XBRL company facts API. Only USD units are
// relevant for the line items the calculator needs.
type companyFactsResponse struct {
	Facts struct {
		USGAAP map[string]struct {
			Units map[string][]types.Fact `json:"units"`
		} `json:"us-gaap"`
	} `json:"facts"`
}

// CompanyFacts fetches the us-gaap facts for a company, keyed by tag name.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (map[string][]types.Fact, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataBaseURL, helpers.PadCIK(cik)))
	if err != nil {
		return nil, err
	}

	var facts companyFactsResponse
	if err := json.Unmarshal(body, &facts); err != nil {
		return nil, fmt.Errorf("error parsing company facts: %w", err)
	}

	result := make(map[string][]types.Fact, len(facts.Facts.USGAAP))
	for tag, concept := range facts.Facts.USGAAP {
		if usd, ok := concept.Units["USD"]; ok {
			result[tag] = usd
		}
	}
	return result, nil
}

// FilingHTML downloads the primary document of a filing from the Archives.
func (c *Client) FilingHTML(ctx context.Context, cik string, filing types.FilingRef) (string, error) {
	accession := strings.ReplaceAll(filing.AccessionNumber, "-", "")
	cikTrimmed := strings.TrimLeft(cik, "0")
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.wwwBaseURL, cikTrimmed, accession, filing.PrimaryDocument)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchFilingDocument assembles the raw extraction input for the most recent
// 10-Q: the selected filing, its company facts, and the filing HTML for the
// text fallback. The HTML fetch is best-effort since the facts path usually
// suffices.
func (c *Client) FetchFilingDocument(ctx context.Context, cik string) (*types.FilingDocument, error) {
	filing, err := c.LatestFiling(ctx, cik, "10-Q")
	if err != nil {
		return nil, err
	}

	facts, err := c.CompanyFacts(ctx, cik)
	if err != nil {
		zap.L().Warn("Company facts unavailable, relying on filing HTML", zap.String("cik", cik), zap.Error(err))
		facts = nil
	}

	html, err := c.FilingHTML(ctx, cik, filing)
	if err != nil {
		zap.L().Warn("Filing HTML unavailable", zap.String("cik", cik), zap.String("accession", filing.AccessionNumber), zap.Error(err))
		html = ""
	}

	if facts == nil && html == "" {
		return nil, fmt.Errorf("%w: no retrievable content for accession %s", types.ErrFilingUnavailable, filing.AccessionNumber)
	}

	return &types.FilingDocument{
		Facts:  facts,
		Filing: filing,
		HTML:   html,
	}, nil
}
