package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"zscorebackend/types"
	"zscorebackend/utils/helpers"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// concept is one canonical line item the calculator needs, with its ordered
// us-gaap tag candidates and the text patterns used on the HTML fallback path.
// Filers tag the same line item inconsistently, so resolution tries each
// candidate in order and takes the first one present in the filing.
type concept struct {
	name     string
	tags     []string
	patterns []string
}

// extractionOrder keeps the resolution policy data-driven: adding a synonym is
// a table edit, not a new branch.
var extractionOrder = []concept{
	{
		name: "current_assets",
		tags: []string{"AssetsCurrent"},
		patterns: []string{
			`total\s+current\s+assets`,
			`current\s+assets`,
		},
	},
	{
		name: "current_liabilities",
		tags: []string{"LiabilitiesCurrent"},
		patterns: []string{
			`total\s+current\s+liabilities`,
			`current\s+liabilities`,
		},
	},
	{
		name: "total_assets",
		tags: []string{"Assets"},
		patterns: []string{
			`total\s+assets`,
		},
	},
	{
		name: "retained_earnings",
		tags: []string{
			"RetainedEarningsAccumulatedDeficit",
			"RetainedEarningsAppropriated",
		},
		patterns: []string{
			`retained\s+earnings`,
			`accumulated\s+deficit`,
		},
	},
	{
		name: "operating_income",
		tags: []string{
			"OperatingIncomeLoss",
			"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		},
		patterns: []string{
			`operating\s+income`,
			`income\s+from\s+operations`,
		},
	},
	{
		name: "total_liabilities",
		tags: []string{"Liabilities"},
		patterns: []string{
			`total\s+liabilities`,
		},
	},
	{
		name: "sales",
		tags: []string{
			"Revenues",
			"RevenueFromContractWithCustomerExcludingAssessedTax",
			"RevenueFromContractWithCustomerIncludingAssessedTax",
			"SalesRevenueNet",
		},
		patterns: []string{
			`net\s+sales`,
			`total\s+revenue`,
			`net\s+revenue`,
		},
	},
}

// Tag lists for values derivable from identities when no direct tag resolves.
var (
	revenueTags           = []string{"Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax", "SalesRevenueNet"}
	operatingExpenseTags  = []string{"OperatingExpenses", "CostsAndExpenses"}
	liabilitiesEquityTags = []string{"LiabilitiesAndStockholdersEquity"}
	equityTags            = []string{"StockholdersEquity", "StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest"}
)

// ExtractFinancialStatement normalizes the raw filing document into the seven
// line items the Z-Score needs. Resolution order per concept: direct tag
// candidates against the filing's XBRL facts, then derivation identities, then
// the filing HTML. Running it twice on the same document yields the same
// statement.
func ExtractFinancialStatement(doc *types.FilingDocument) (types.FinancialStatement, error) {
	if doc == nil || (len(doc.Facts) == 0 && doc.HTML == "") {
		return types.FinancialStatement{}, fmt.Errorf("%w: empty filing document", types.ErrMalformedFiling)
	}

	htmlValues, err := extractFromHTML(doc.HTML)
	if err != nil {
		return types.FinancialStatement{}, err
	}

	values := make(map[string]float64, len(extractionOrder))
	for _, c := range extractionOrder {
		if v, ok := resolveFacts(doc, c.tags); ok {
			values[c.name] = v
			continue
		}
		if v, ok := deriveConcept(doc, c.name); ok {
			zap.L().Info("Derived line item from identity", zap.String("concept", c.name))
			values[c.name] = v
			continue
		}
		if v, ok := htmlValues[c.name]; ok {
			values[c.name] = v
			continue
		}
		return types.FinancialStatement{}, fmt.Errorf("%w: %s", types.ErrMissingLineItem, c.name)
	}

	return types.FinancialStatement{
		CurrentAssets:      values["current_assets"],
		CurrentLiabilities: values["current_liabilities"],
		TotalAssets:        values["total_assets"],
		RetainedEarnings:   values["retained_earnings"],
		OperatingIncome:    values["operating_income"],
		TotalLiabilities:   values["total_liabilities"],
		Sales:              values["sales"],
		FilingDate:         doc.Filing.FilingDate,
	}, nil
}

// resolveFacts tries each candidate tag in order and returns the value from
// the selected filing's reporting period.
func resolveFacts(doc *types.FilingDocument, tags []string) (float64, bool) {
	for _, tag := range tags {
		facts, ok := doc.Facts[tag]
		if !ok || len(facts) == 0 {
			continue
		}
		if v, ok := pickFact(facts, doc.Filing); ok {
			return v, true
		}
	}
	return 0, false
}

// pickFact selects the fact belonging to the chosen filing. Facts reported
// under the filing's accession number win; otherwise a fact whose period ends
// on the filing's report date is accepted. Ties are broken by period end date
// descending, then accession number descending, so selection is deterministic.
func pickFact(facts []types.Fact, filing types.FilingRef) (float64, bool) {
	candidates := make([]types.Fact, 0, len(facts))
	for _, f := range facts {
		if f.Accession == filing.AccessionNumber {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		for _, f := range facts {
			if f.End == filing.ReportDate && f.Form == filing.FormType {
				candidates = append(candidates, f)
			}
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].End != candidates[j].End {
			return candidates[i].End > candidates[j].End
		}
		return candidates[i].Accession > candidates[j].Accession
	})

	return candidates[0].Value, true
}

// deriveConcept fills gaps via accounting identities: operating income from
// revenue minus operating expenses, total liabilities from total
// liabilities-and-equity minus stockholders' equity. Both operands must be
// present in the same filing.
func deriveConcept(doc *types.FilingDocument, name string) (float64, bool) {
	switch name {
	case "operating_income":
		revenue, okR := resolveFacts(doc, revenueTags)
		expenses, okE := resolveFacts(doc, operatingExpenseTags)
		if okR && okE {
			return revenue - expenses, true
		}
	case "total_liabilities":
		liabilitiesAndEquity, okL := resolveFacts(doc, liabilitiesEquityTags)
		equity, okE := resolveFacts(doc, equityTags)
		if okL && okE {
			return liabilitiesAndEquity - equity, true
		}
	}
	return 0, false
}

// extractFromHTML parses the filing HTML and scans its text for labeled
// amounts, honoring thousand/million/billion markers next to the match. For
// each concept the largest absolute match wins, which favors the consolidated
// totals over segment rows.
func extractFromHTML(html string) (map[string]float64, error) {
	values := make(map[string]float64)
	if html == "" {
		return values, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedFiling, err)
	}

	text := helpers.NormalizeString(helpers.NormalizeWhitespace(doc.Text()))

	for _, c := range extractionOrder {
		for _, pattern := range c.patterns {
			re, err := regexp.Compile(pattern + `[^\d]*\$?\s*([\d,\(\)]+\.?\d*)\s*(million|thousand|billion)?`)
			if err != nil {
				continue
			}
			best := 0.0
			found := false
			for _, match := range re.FindAllStringSubmatch(text, -1) {
				parsed, err := helpers.ParseMonetary(match[1])
				if err != nil {
					continue
				}
				parsed *= helpers.ScaleForMarker(match[0])
				if abs := math.Abs(parsed); !found || abs > best {
					best = abs
					found = true
				}
			}
			if found {
				values[c.name] = best
				break
			}
		}
	}

	return values, nil
}
