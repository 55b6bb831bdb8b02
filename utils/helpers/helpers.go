package helpers

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a filing value cannot be coerced to a float.
var ErrNotANumber = errors.New("value is not a number")

// Scale multipliers for the textual markers filings attach to reported values.
var scaleMultipliers = map[string]float64{
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
}

// NormalizeString lowercases and trims a string for comparisons.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseMonetary coerces a filing value string to a float64. Handles commas,
// dollar signs, and parenthesized negatives, e.g. "(1,234.5)" -> -1234.5.
func ParseMonetary(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, ErrNotANumber
	}

	negative := strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")")
	if negative {
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	if negative {
		f = -f
	}
	return f, nil
}

// ScaleForMarker returns the multiplier a textual scale marker implies.
// Unknown or absent markers scale by 1.
func ScaleForMarker(text string) float64 {
	normalized := NormalizeString(text)
	for marker, multiplier := range scaleMultipliers {
		if strings.Contains(normalized, marker) {
			return multiplier
		}
	}
	return 1
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// PadCIK zero-pads a CIK to the 10 digits SEC endpoints expect.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}
