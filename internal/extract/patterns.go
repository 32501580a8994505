package extract

import (
	"regexp"
	"strings"

	"receipt-engine/internal/money"
)

// Keyword and shape tables for the line scanners. These encode tunable
// domain knowledge (receipt vocabulary, OCR artifacts); extend the tables
// rather than branching in the scan loops.
var (
	dateLike         = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	timeLike         = regexp.MustCompile(`\d{1,2}:\d{2}`)
	trailingDotPrice = regexp.MustCompile(`^\s*\d+[.,]\s*$`)

	// Lines that are bookkeeping rows, never item descriptions or prices.
	itemNoise = regexp.MustCompile(`(?i)\b(sub\s*total|total|grand\s*total|cash|change|invoice|amount|amt|aot|qty|quantity|items?|desc|no\.?\s*of|visit|url|request|e-?invoice|date|time|balance|due|amount\(rm\))\b`)

	// Header vocabulary that disqualifies a line as an item description.
	headerNoise = regexp.MustCompile(`(?i)\b(ssm|company|co\.?|s(?:dn)?\s*bhd|enterprise|tel\.?|phone|employee|cashier|pos|table|order|waiter|pax|number|time|product|qty|total?|amount|invoice|receipt|thank|powered\s*by|take\s*out|dine\s*in)\b`)

	// Summary vocabulary checked on lines adjacent to a bare price.
	summaryNear = regexp.MustCompile(`(?i)(tota[l]?|grand\s*total|sub\s*total|cash\w*|change\w*|amount\s*\(rm\)|amount\s*due|balance\s*due|paid)`)

	// The five line shapes, in precedence order.
	qtyLine     = regexp.MustCompile(`(?i)^\s*(\d+)\s*[x×]\s*` + money.Capture + `\s*$`)
	inlinePrice = regexp.MustCompile(`^(.*?)[\s.]+` + money.Capture + `\s*$`)
	xPrice      = regexp.MustCompile(`(?i)^[x×]\s*` + money.Capture + `\s*$`)
	priceOnly   = regexp.MustCompile(`^\s*` + money.Capture + `\s*$`)

	// Leading numeric item codes such as "3645 ".
	skuPrefix = regexp.MustCompile(`^\s*\d{3,8}\s+`)

	totalKeyword = regexp.MustCompile(`(?i)\b(grand\s*total|total|amount\s*due|balance\s*due)\b`)

	ringgitMarker = regexp.MustCompile(`(?i)\b(RM|MYR)\b`)

	// Filesystem artifacts leaking across the OCR boundary.
	pathLine = regexp.MustCompile(`(?i)^[a-z]:\\|^/+`)
	pathText = regexp.MustCompile(`(?i)[a-z]:\\[^\n]+`)

	spacedDecimal = regexp.MustCompile(`(\d)\s*[.,]\s*(\d{2})`)
)

// hasTotalKeyword reports whether the line names the receipt total.
// "subtotal" and "sub total" do not count: RE2 has no lookbehind, so the
// three characters before each keyword match are checked by hand.
func hasTotalKeyword(line string) bool {
	for _, loc := range totalKeyword.FindAllStringIndex(line, -1) {
		if loc[0] >= 3 && strings.EqualFold(line[loc[0]-3:loc[0]], "sub") {
			continue
		}
		return true
	}
	return false
}
