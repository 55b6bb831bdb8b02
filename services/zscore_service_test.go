package services

import (
	"context"
	"errors"
	"testing"
	"zscorebackend/types"
)

type fakeFilingSource struct {
	identity   types.CompanyIdentity
	resolveErr error
	doc        *types.FilingDocument
	fetchErr   error
}

func (f *fakeFilingSource) ResolveCompany(ctx context.Context, identifier string) (types.CompanyIdentity, error) {
	if f.resolveErr != nil {
		return types.CompanyIdentity{}, f.resolveErr
	}
	return f.identity, nil
}

func (f *fakeFilingSource) FetchFilingDocument(ctx context.Context, cik string) (*types.FilingDocument, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.doc, nil
}

type fakeQuoteSource struct {
	quote types.MarketQuote
	err   error
}

func (f *fakeQuoteSource) GetQuote(ctx context.Context, ticker string) (types.MarketQuote, error) {
	if f.err != nil {
		return types.MarketQuote{}, f.err
	}
	return f.quote, nil
}

func TestGetZScore_FullPipeline(t *testing.T) {
	filings := &fakeFilingSource{
		identity: types.CompanyIdentity{CIK: "0000320193", Ticker: "AAPL", Name: "Apple Inc."},
		doc:      &types.FilingDocument{Facts: fullFacts(), Filing: testFiling()},
	}
	quotes := &fakeQuoteSource{quote: types.MarketQuote{Price: 10, SharesOutstanding: 50}}

	service := NewZScoreService(filings, quotes)
	result, err := service.GetZScore(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Company != "AAPL" {
		t.Errorf("Expected company AAPL, got %v", result.Company)
	}
	if result.Ticker != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %v", result.Ticker)
	}
	if result.ZScore != 1.95 {
		t.Errorf("Expected z-score 1.95, got %v", result.ZScore)
	}
	if result.Zone != types.ZoneGrey {
		t.Errorf("Expected Grey Zone, got %v", result.Zone)
	}
	if result.FilingDate != "2024-08-02" {
		t.Errorf("Expected filing date 2024-08-02, got %v", result.FilingDate)
	}
}

func TestGetZScore_CompanyNotFound(t *testing.T) {
	filings := &fakeFilingSource{resolveErr: types.ErrCompanyNotFound}
	service := NewZScoreService(filings, &fakeQuoteSource{})

	_, err := service.GetZScore(context.Background(), "NOSUCHCO")
	if !errors.Is(err, types.ErrCompanyNotFound) {
		t.Errorf("Expected ErrCompanyNotFound, got %v", err)
	}
}

func TestGetZScore_FilingErrorWins(t *testing.T) {
	filings := &fakeFilingSource{
		identity: types.CompanyIdentity{CIK: "1", Ticker: "X"},
		fetchErr: types.ErrFilingUnavailable,
	}
	quotes := &fakeQuoteSource{err: types.ErrQuoteUnavailable}
	service := NewZScoreService(filings, quotes)

	_, err := service.GetZScore(context.Background(), "X")
	if !errors.Is(err, types.ErrFilingUnavailable) {
		t.Errorf("Expected ErrFilingUnavailable, got %v", err)
	}
}

func TestGetZScore_QuoteError(t *testing.T) {
	filings := &fakeFilingSource{
		identity: types.CompanyIdentity{CIK: "1", Ticker: "X"},
		doc:      &types.FilingDocument{Facts: fullFacts(), Filing: testFiling()},
	}
	quotes := &fakeQuoteSource{err: types.ErrQuoteUnavailable}
	service := NewZScoreService(filings, quotes)

	_, err := service.GetZScore(context.Background(), "X")
	if !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Errorf("Expected ErrQuoteUnavailable, got %v", err)
	}
}
