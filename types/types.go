package types

import "errors"

// Sentinel errors for the fetch -> extract -> compute pipeline. Controllers map
// these onto HTTP statuses; data-quality failures are kept distinct from
// outbound-call failures so callers can tell "try again later" from "this
// filing is unusable".
var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrFilingUnavailable = errors.New("no qualifying filing found")
	ErrMissingLineItem   = errors.New("missing line item")
	ErrMalformedFiling   = errors.New("malformed filing")
	ErrQuoteUnavailable  = errors.New("quote unavailable")
	ErrDivisionUndefined = errors.New("division undefined")
	ErrSourceUnavailable = errors.New("data source unavailable")
)

// Zone is the Altman Z-Score interpretation zone.
type Zone string

const (
	ZoneSafe     Zone = "Safe Zone"
	ZoneGrey     Zone = "Grey Zone"
	ZoneDistress Zone = "Distress Zone"
)

// CompanyIdentity is the resolved SEC identity for a requested company.
type CompanyIdentity struct {
	CIK    string `json:"cik"` // zero-padded to 10 digits
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// FilingRef identifies one filing from the submissions feed.
type FilingRef struct {
	AccessionNumber string `json:"accession_number"` // dashed form, e.g. "0000320193-24-000069"
	FormType        string `json:"form_type"`
	FilingDate      string `json:"filing_date"` // YYYY-MM-DD
	ReportDate      string `json:"report_date"` // fiscal period end
	PrimaryDocument string `json:"primary_document"`
}

// Fact is one reported XBRL value for a tagged concept.
type Fact struct {
	End       string  `json:"end"` // period end date, YYYY-MM-DD
	Value     float64 `json:"val"`
	Accession string  `json:"accn"`
	Form      string  `json:"form"`
	Filed     string  `json:"filed"`
}

// FilingDocument is the raw structured content the extractor works on: the
// company facts keyed by us-gaap tag, the filing they were selected for, and
// the filing HTML for the text fallback path.
type FilingDocument struct {
	Facts  map[string][]Fact
	Filing FilingRef
	HTML   string
}

// FinancialStatement holds the normalized line items from one filing.
// Produced once per request; never mutated afterwards.
type FinancialStatement struct {
	CurrentAssets      float64
	CurrentLiabilities float64
	TotalAssets        float64
	RetainedEarnings   float64
	OperatingIncome    float64 // used as EBIT
	TotalLiabilities   float64
	Sales              float64
	FilingDate         string
}

// WorkingCapital is current assets minus current liabilities.
func (f FinancialStatement) WorkingCapital() float64 {
	return f.CurrentAssets - f.CurrentLiabilities
}

// MarketQuote holds the current market data for a ticker.
type MarketQuote struct {
	Price             float64
	SharesOutstanding float64
}

// ZScoreRequest is the POST /zscore request body.
type ZScoreRequest struct {
	Company string `json:"company" binding:"required"`
}

// ZScoreResult is the response payload. All monetary inputs and ratios are
// echoed verbatim for auditability.
type ZScoreResult struct {
	Company string  `json:"company"`
	Ticker  string  `json:"ticker"`
	ZScore  float64 `json:"z_score"`
	Zone    Zone    `json:"zone"`

	X1 float64 `json:"x1"` // working capital / total assets
	X2 float64 `json:"x2"` // retained earnings / total assets
	X3 float64 `json:"x3"` // operating income / total assets
	X4 float64 `json:"x4"` // market value of equity / total liabilities
	X5 float64 `json:"x5"` // sales / total assets

	WorkingCapital    float64 `json:"working_capital"`
	TotalAssets       float64 `json:"total_assets"`
	RetainedEarnings  float64 `json:"retained_earnings"`
	OperatingIncome   float64 `json:"operating_income"`
	MarketValueEquity float64 `json:"market_value_equity"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	Sales             float64 `json:"sales"`

	FilingDate        string  `json:"filing_date"`
	StockPrice        float64 `json:"stock_price"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}
