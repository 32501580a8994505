// Package money normalizes monetary substrings found in OCR text.
//
// Receipt amounts arrive with currency markers, thousands separators and
// decimal commas mixed freely ("RM 1,234.50", "38,02", "$12.5"). Every
// extractor in the engine funnels its numeric candidates through Normalize
// and gates them with IsPlausible.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxPlausibleAmount is the upper bound for any amount the engine will trust.
// Misread digits routinely produce huge numbers; anything above this is noise.
const MaxPlausibleAmount = 100000.0

// Capture is the regexp fragment matching one money-like substring: an
// optional currency marker followed by either grouped-thousands digits or
// plain digits, each with an optional 1-2 digit decimal part. It contains
// exactly one capturing group (the numeric part), so composite patterns
// built from it can rely on stable group numbering.
const Capture = `(?:RM|MYR|USD|SGD|GBP|EUR|\$|£|€)?\s*(\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`

// Pattern matches a money-like substring anywhere in a line.
var Pattern = regexp.MustCompile(Capture)

var currencyTokens = regexp.MustCompile(`(?i)(RM|MYR|USD|SGD|GBP|EUR|\$|£|€)`)

// Normalize parses a numeric substring into a canonical decimal value.
// Currency tokens are stripped first. A single comma with no dot is read as
// a decimal comma ("38,02" -> 38.02); otherwise, when a single dot is
// present, commas are thousands separators ("1,234.50" -> 1234.50).
func Normalize(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(currencyTokens.ReplaceAllString(s, ""))
	if s == "" {
		return 0, fmt.Errorf("money: empty amount %q", raw)
	}

	if strings.Count(s, ",") == 1 && strings.Count(s, ".") == 0 {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.Count(s, ".") == 1 {
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("money: parsing %q: %w", raw, err)
	}
	return v, nil
}

// IsPlausible reports whether v can be trusted as a price or total.
// The bound is uniform across the engine: 0 < v <= MaxPlausibleAmount.
func IsPlausible(v float64) bool {
	return v > 0 && v <= MaxPlausibleAmount
}

// Format renders an amount with exactly two decimal places.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
