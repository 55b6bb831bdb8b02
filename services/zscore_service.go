package services

import (
	"context"
	"sync"
	"zscorebackend/types"

	"go.uber.org/zap"
)

// FilingSource resolves companies and fetches filing content.
type FilingSource interface {
	ResolveCompany(ctx context.Context, identifier string) (types.CompanyIdentity, error)
	FetchFilingDocument(ctx context.Context, cik string) (*types.FilingDocument, error)
}

// QuoteSource fetches current market data for a ticker.
type QuoteSource interface {
	GetQuote(ctx context.Context, ticker string) (types.MarketQuote, error)
}

// ZScoreService runs the fetch -> extract -> compute pipeline for one request.
// No state is shared across requests; every call performs a full fetch.
type ZScoreService struct {
	filings FilingSource
	quotes  QuoteSource
}

func NewZScoreService(filings FilingSource, quotes QuoteSource) *ZScoreService {
	return &ZScoreService{filings: filings, quotes: quotes}
}

// GetZScore computes the Altman Z-Score for a company identifier (ticker or
// name). The filing fetch+extract and the quote fetch are independent, so they
// run concurrently; both must complete before computation.
func (s *ZScoreService) GetZScore(ctx context.Context, company string) (*types.ZScoreResult, error) {
	identity, err := s.filings.ResolveCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Resolved company",
		zap.String("company", company),
		zap.String("cik", identity.CIK),
		zap.String("ticker", identity.Ticker))

	var (
		wg        sync.WaitGroup
		stmt      types.FinancialStatement
		quote     types.MarketQuote
		filingErr error
		quoteErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		doc, err := s.filings.FetchFilingDocument(ctx, identity.CIK)
		if err != nil {
			filingErr = err
			return
		}
		stmt, filingErr = ExtractFinancialStatement(doc)
	}()
	go func() {
		defer wg.Done()
		quote, quoteErr = s.quotes.GetQuote(ctx, identity.Ticker)
	}()
	wg.Wait()

	if filingErr != nil {
		return nil, filingErr
	}
	if quoteErr != nil {
		return nil, quoteErr
	}

	result, err := ComputeZScore(stmt, quote)
	if err != nil {
		return nil, err
	}

	result.Company = company
	result.Ticker = identity.Ticker

	zap.L().Info("Computed z-score",
		zap.String("ticker", identity.Ticker),
		zap.Float64("z_score", result.ZScore),
		zap.String("zone", string(result.Zone)))

	return result, nil
}
