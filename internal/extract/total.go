package extract

import (
	"receipt-engine/internal/money"
)

// ExtractTotal finds the declared receipt total and returns it as a fixed
// two-decimal string, or "" when every strategy fails.
//
// Strategies, in order:
//  1. The last line naming the total ("total", "grand total", "amount due",
//     "balance due"; never "subtotal"), scanning that line and the next two
//     for the first plausible money substring.
//  2. The largest plausible money value anywhere, skipping date/time lines.
//  3. Repairing OCR-spaced decimals ("12 . 50" -> "12.50") and retrying a
//     single first-match search.
func ExtractTotal(lines []string) string {
	lastIdx := -1
	for i, ln := range lines {
		if hasTotalKeyword(ln) {
			lastIdx = i
		}
	}

	if lastIdx >= 0 {
		for j := 0; j < 3 && lastIdx+j < len(lines); j++ {
			m := money.Pattern.FindStringSubmatch(lines[lastIdx+j])
			if m == nil {
				continue
			}
			if v, err := money.Normalize(m[1]); err == nil && money.IsPlausible(v) {
				return money.Format(v)
			}
		}
	}

	// Fallback: biggest plausible number on the receipt.
	var best float64
	found := false
	for _, ln := range lines {
		if dateLike.MatchString(ln) || timeLike.MatchString(ln) {
			continue
		}
		for _, m := range money.Pattern.FindAllStringSubmatch(ln, -1) {
			v, err := money.Normalize(m[1])
			if err != nil || !money.IsPlausible(v) {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	if found {
		return money.Format(best)
	}

	// Last resort: merge spaced decimals and take the first plausible match.
	for _, ln := range lines {
		merged := spacedDecimal.ReplaceAllString(ln, "${1}.${2}")
		if dateLike.MatchString(merged) || timeLike.MatchString(merged) {
			continue
		}
		m := money.Pattern.FindStringSubmatch(merged)
		if m == nil {
			continue
		}
		if v, err := money.Normalize(m[1]); err == nil && money.IsPlausible(v) {
			return money.Format(v)
		}
	}

	return ""
}
