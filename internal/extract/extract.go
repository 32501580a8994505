// Package extract reconstructs a structured purchase record from the
// ordered, noisy text lines a receipt recognizer produces.
//
// The package is pure: every function is a deterministic computation over
// its input line sequence, with no I/O and no shared mutable state, so
// concurrent parses need no locking.
package extract

import (
	"math"
	"strconv"
	"strings"

	"receipt-engine/internal/categorize"
	"receipt-engine/internal/money"
	"receipt-engine/internal/receipt"
)

// amountTolerance is how far the declared total may drift from the item sum
// before the sum overrides it.
const amountTolerance = 0.01

// ParseFields runs the full extraction over sanitized lines: total, date and
// merchant extraction, the line-item scan, and the reconciliation pass
// (merchant category hints, placeholder item, amount-vs-item-sum check).
//
// It never fails; unreadable input yields a record with empty fields and an
// empty item list.
func ParseFields(lines []string) receipt.Record {
	joined := pathText.ReplaceAllString(strings.Join(lines, "\n"), "")
	lines = StripPathLines(lines)

	amount := ExtractTotal(lines)
	date := ExtractDate(joined)
	merchant := DetectMerchant(joined, lines)

	var declaredTotal float64
	if amount != "" {
		declaredTotal, _ = strconv.ParseFloat(amount, 64)
	}

	cat := categorize.New()
	items := ParseLineItems(lines, cat, declaredTotal, merchant)

	// Merchant hint: backfill categories the item-level classifier left at
	// the fallback.
	hint, hasHint := categorize.MerchantHint(merchant)
	if hasHint {
		for i := range items {
			if items[i].Category == "" || items[i].Category == categorize.FallbackCategory {
				items[i].Category = hint
			}
		}
	}

	// The item sum is taken before any placeholder is added, so a
	// synthesized item never triggers the amount override below.
	itemsTotal := 0.0
	for _, it := range items {
		if v, err := strconv.ParseFloat(it.Total, 64); err == nil {
			itemsTotal += v
		}
	}

	// No recognizable items, but a total and a merchant hint: synthesize a
	// single neutral placeholder so the purchase still lands somewhere.
	if len(items) == 0 && amount != "" && hasHint {
		items = append(items, receipt.Item{
			Qty:       1,
			Desc:      "Receipt",
			UnitPrice: amount,
			Total:     amount,
			Category:  hint,
		})
	}

	// Reconcile the declared total against the item sum.
	if itemsTotal > 0 && (declaredTotal <= 0 || math.Abs(itemsTotal-declaredTotal) > amountTolerance) {
		amount = money.Format(itemsTotal)
	}

	return receipt.Record{
		Merchant: merchant,
		Amount:   amount,
		Date:     date,
		Items:    items,
		RawText:  joined,
	}
}
