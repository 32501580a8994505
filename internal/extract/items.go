package extract

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"receipt-engine/internal/categorize"
	"receipt-engine/internal/money"
	"receipt-engine/internal/receipt"
)

// lookBackWindow bounds how many lines the description look-back walks.
const lookBackWindow = 5

// ParseLineItems scans the sanitized lines once, left to right, recognizing
// five line shapes in precedence order:
//
//  1. "2 x 4.95"            quantity times unit price
//  2. "Grande Latte .. 12.50"  inline description with trailing price
//  3. "x 1.35"              implicit quantity one
//  4. "29.90"               bare price, description resolved from context
//  5. "Grande Latte"        description awaiting a later price line
//
// A single pending-description slot carries shape-5 text forward; shapes
// 1, 3 and 4 consume it, falling back to a bounded look-back over earlier
// lines. receiptTotal (0 when unknown) lets a bare price equal to the
// declared total be suppressed as a summary row.
func ParseLineItems(lines []string, cat *categorize.Categorizer, receiptTotal float64, merchant string) []receipt.Item {
	p := &itemParser{
		lines:        lines,
		cat:          cat,
		total:        receiptTotal,
		merchantNorm: strings.ToLower(strings.TrimSpace(merchant)),
		seen:         make(map[itemKey]bool),
		items:        []receipt.Item{},
	}
	p.run()
	return p.items
}

type itemKey struct {
	desc  string
	total string
}

type itemParser struct {
	lines        []string
	cat          *categorize.Categorizer
	total        float64
	merchantNorm string
	pending      string
	items        []receipt.Item
	seen         map[itemKey]bool
}

func (p *itemParser) run() {
	for i := range p.lines {
		ln := strings.TrimSpace(p.lines[i])
		if ln == "" || itemNoise.MatchString(ln) {
			continue
		}

		// 1) "2 x 4.95": pair with pending or looked-back description.
		if m := qtyLine.FindStringSubmatch(ln); m != nil {
			qty, _ := strconv.Atoi(m[1])
			unit, err := money.Normalize(m[2])
			if err != nil || !money.IsPlausible(unit) {
				p.pending = ""
				continue
			}
			desc := p.pending
			if desc == "" {
				desc = p.findPrevDesc(i)
			}
			p.addItem(qty, desc, unit)
			p.pending = ""
			continue
		}

		// 2) "DESC .... 1.35": emit now unless the next line is a qty
		// shape with the same price, in which case defer the description
		// to it so the item is not counted twice.
		if m := inlinePrice.FindStringSubmatch(ln); m != nil && letterCount(m[1]) >= 4 {
			if i+1 < len(p.lines) {
				if mn := qtyLine.FindStringSubmatch(p.lines[i+1]); mn != nil {
					next, errN := money.Normalize(mn[2])
					cur, errC := money.Normalize(m[2])
					if errN == nil && errC == nil && math.Abs(next-cur) < 0.005 {
						p.pending = m[1]
						continue
					}
				}
			}
			if unit, err := money.Normalize(m[2]); err == nil {
				p.addItem(1, m[1], unit)
			}
			p.pending = ""
			continue
		}

		// 3) "x 1.35": quantity one, description from context.
		if m := xPrice.FindStringSubmatch(ln); m != nil {
			desc := p.pending
			if desc == "" {
				desc = p.findPrevDesc(i)
			}
			if unit, err := money.Normalize(m[1]); err == nil {
				p.addItem(1, desc, unit)
			}
			p.pending = ""
			continue
		}

		// 4) bare price, or a trailing fragment ending in a decimal point.
		rawAmount := ""
		if m := priceOnly.FindStringSubmatch(ln); m != nil {
			rawAmount = m[1]
		} else if trailingDotPrice.MatchString(ln) {
			rawAmount = ln
		}
		if rawAmount != "" {
			if dateLike.MatchString(ln) || timeLike.MatchString(ln) {
				continue
			}
			price, err := money.Normalize(rawAmount)
			if err != nil || !money.IsPlausible(price) {
				p.pending = ""
				continue
			}

			prev, next := "", ""
			if i > 0 {
				prev = p.lines[i-1]
			}
			if i+1 < len(p.lines) {
				next = p.lines[i+1]
			}

			descCandidate := p.pending
			if descCandidate == "" {
				descCandidate = p.findPrevDesc(i)
			} else if combo := p.findPrevDesc(i); len(combo) > len(p.pending) {
				// Tie-break between the pending fragment and a fresh
				// look-back: the longer text wins.
				descCandidate = combo
			}

			// A bare amount beside a summary row, with nothing describing
			// it, is the subtotal/total/cash figure, not an item.
			if (summaryNear.MatchString(prev) || summaryNear.MatchString(next)) && descCandidate == "" {
				p.pending = ""
				continue
			}
			// Same when the amount repeats the already-extracted total.
			if p.total > 0 && math.Abs(price-p.total) < 0.01 && descCandidate == "" {
				p.pending = ""
				continue
			}

			p.addItem(1, descCandidate, price)
			p.pending = ""
			continue
		}

		// 5) description waiting for a price line.
		if letterCount(ln) >= 3 && !money.Pattern.MatchString(ln) && p.isValidDesc(ln) {
			if p.pending != "" {
				p.pending = p.pending + " " + ln
			} else {
				p.pending = ln
			}
		}
	}
}

// findPrevDesc reconstructs a description for line i from up to
// lookBackWindow earlier lines. Once fragments have been collected, any
// skippable line ends the walk; fragments are joined top-to-bottom.
func (p *itemParser) findPrevDesc(i int) string {
	var fragments []string
	for back := 1; back <= lookBackWindow; back++ {
		j := i - back
		if j < 0 {
			break
		}
		cand := strings.TrimSpace(p.lines[j])
		if cand == "" {
			if len(fragments) > 0 {
				break
			}
			continue
		}
		if itemNoise.MatchString(cand) || money.Pattern.MatchString(cand) {
			if len(fragments) > 0 {
				break
			}
			continue
		}
		if !p.isValidDesc(cand) {
			if len(fragments) > 0 {
				break
			}
			continue
		}
		fragments = append(fragments, cand)
	}
	if len(fragments) == 0 {
		return ""
	}
	// Collected bottom-up; restore reading order.
	for l, r := 0, len(fragments)-1; l < r; l, r = l+1, r-1 {
		fragments[l], fragments[r] = fragments[r], fragments[l]
	}
	return strings.Join(fragments, " ")
}

// isValidDesc rejects text that cannot be an item description: too few
// letters, the merchant's own name, or header vocabulary.
func (p *itemParser) isValidDesc(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if letterCount(t) < 2 {
		return false
	}
	low := strings.ToLower(t)
	if len(p.merchantNorm) >= 4 && strings.Contains(low, p.merchantNorm) {
		return false
	}
	return !headerNoise.MatchString(low)
}

// addItem validates, cleans, de-duplicates and categorizes one candidate.
// Invalid, implausible or duplicate candidates are dropped silently; no
// partial item is ever recorded.
func (p *itemParser) addItem(qty int, desc string, unit float64) {
	if desc == "" || !money.IsPlausible(unit) || !p.isValidDesc(desc) {
		return
	}

	desc = cleanDesc(desc)
	total := money.Format(float64(qty) * unit)

	key := itemKey{desc: strings.ToLower(desc), total: total}
	if p.seen[key] {
		return
	}
	p.seen[key] = true

	p.items = append(p.items, receipt.Item{
		Qty:       qty,
		Desc:      desc,
		UnitPrice: money.Format(unit),
		Total:     total,
		Category:  p.cat.Predict(desc),
	})
}

// cleanDesc strips leading numeric item codes, collapses whitespace runs,
// drops trailing punctuation and title-cases the result.
func cleanDesc(s string) string {
	s = strings.TrimSpace(skuPrefix.ReplaceAllString(s, ""))
	s = strings.Join(strings.Fields(s), " ")
	s = trailingPunct.ReplaceAllString(s, "")
	return titleCase(s)
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word break.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
