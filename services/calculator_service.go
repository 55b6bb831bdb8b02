package services

import (
	"fmt"
	"zscorebackend/types"
	"zscorebackend/utils/helpers"
)

// Altman Z-Score weights for manufacturing companies.
// Z = 1.2*X1 + 1.4*X2 + 3.3*X3 + 0.6*X4 + 1.0*X5
const (
	weightX1 = 1.2
	weightX2 = 1.4
	weightX3 = 3.3
	weightX4 = 0.6
	weightX5 = 1.0
)

// Zone thresholds. Both boundary values classify as Grey: safe only above
// 2.99, distress only below 1.81.
const (
	safeThreshold     = 2.99
	distressThreshold = 1.81
)

// ClassifyZone maps a z-score to its interpretation zone.
func ClassifyZone(zScore float64) types.Zone {
	switch {
	case zScore > safeThreshold:
		return types.ZoneSafe
	case zScore >= distressThreshold:
		return types.ZoneGrey
	default:
		return types.ZoneDistress
	}
}

// ComputeZScore calculates the five Altman ratios and the composite score
// from one statement and one quote. Total assets must be positive; x1 through
// x5 divide by it. A non-positive total liabilities figure makes x4 contribute
// zero rather than failing the whole request.
//
// All inputs, ratios, and the composite are echoed in the result. Ratios are
// rounded to 6 decimal places and the composite to 4.
func ComputeZScore(stmt types.FinancialStatement, quote types.MarketQuote) (*types.ZScoreResult, error) {
	if stmt.TotalAssets <= 0 {
		return nil, fmt.Errorf("%w: total assets must be positive, got %v", types.ErrDivisionUndefined, stmt.TotalAssets)
	}

	workingCapital := stmt.WorkingCapital()
	marketValueEquity := quote.Price * quote.SharesOutstanding

	x1 := workingCapital / stmt.TotalAssets
	x2 := stmt.RetainedEarnings / stmt.TotalAssets
	x3 := stmt.OperatingIncome / stmt.TotalAssets
	x4 := 0.0
	if stmt.TotalLiabilities > 0 {
		x4 = marketValueEquity / stmt.TotalLiabilities
	}
	x5 := stmt.Sales / stmt.TotalAssets

	zScore := weightX1*x1 + weightX2*x2 + weightX3*x3 + weightX4*x4 + weightX5*x5
	zScore = helpers.RoundTo(zScore, 4)

	return &types.ZScoreResult{
		ZScore: zScore,
		Zone:   ClassifyZone(zScore),

		X1: helpers.RoundTo(x1, 6),
		X2: helpers.RoundTo(x2, 6),
		X3: helpers.RoundTo(x3, 6),
		X4: helpers.RoundTo(x4, 6),
		X5: helpers.RoundTo(x5, 6),

		WorkingCapital:    workingCapital,
		TotalAssets:       stmt.TotalAssets,
		RetainedEarnings:  stmt.RetainedEarnings,
		OperatingIncome:   stmt.OperatingIncome,
		MarketValueEquity: marketValueEquity,
		TotalLiabilities:  stmt.TotalLiabilities,
		Sales:             stmt.Sales,

		FilingDate:        stmt.FilingDate,
		StockPrice:        quote.Price,
		SharesOutstanding: quote.SharesOutstanding,
	}, nil
}
