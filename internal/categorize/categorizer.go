// Package categorize assigns spending categories to receipt item descriptions.
//
// Classification is a first-match-wins scan over an ordered rule table. Rule
// order encodes priority, not specificity: a description matching two rules
// always gets the earlier rule's category. Custom rules can be appended but
// never outrank the defaults.
package categorize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// FallbackCategory is returned when no rule matches a description.
const FallbackCategory = "Other"

type rule struct {
	pattern  *regexp.Regexp
	category string
}

// Categorizer maps item descriptions to categories via an ordered rule table.
// The table is read-only after construction apart from AddRule appends, so a
// single instance is safe for concurrent Predict calls once built.
type Categorizer struct {
	rules []rule
}

// defaultRules is the built-in taxonomy, keyed by keyword sets tuned for
// Malaysian retail receipts. Order matters.
var defaultRules = []struct {
	pattern  string
	category string
}{
	{`\b(oishi|spritzer|milo|nestl[eé]|maggi|noodles?|mee|biscuit|chips?|pan(chos)?|bread|milk|yogurt|coffee|kopi|latte|espresso|tea|teh|sugar|rice|nasi|ayam|chicken|grill|pasta|butter|buttermilk|burger|sandwich|egg|telur|snack|drink|beverage|mineral\s*water|air\s*mineral|orange|juice|family\s*mart|speed\s*mart|bungkus|coriander)\b`, "Food & Dining"},
	// Service charge and rounding rows belong with the meal they came from.
	{`\b(service\s*charge|rounding|s(?:vc)?\.?\s*chg)\b`, "Food & Dining"},
	{`\b(antabax|dettol|garnier|nivea|lifebuoy|shampoo|conditioner|toothpaste|toothbrush|soap|body\s?w(ash)?|face\s?w(ash)?|lotion|deodorant|skincare|shower\s*cream|turbolight|foam|cleanser)\b`, "Personal Care"},
	{`\b(detergent|softener|tissue|toilet\s?paper|napkin|sponge|bleach|cleaner|battery|trash\s?bag|aluminum\s?foil|plastic\s?wrap)\b`, "Household"},
	{`\b(petrol|fuel|diesel|primax|pump|parking|grab|tng|touch\s*'?n\s*go)\b`, "Transportation"},
	// No bare "tm" keyword: it collides with the "TMN" street abbreviation.
	{`\b(maxis|hotlink|unifi|tenaga|electric(ity)?|water|internet|mobile|postpaid|prepaid)\b`, "Bills & Utilities"},
	{`\b(pharmacy|clinic|hospital|vitamin|supplement)\b`, "Health & Fitness"},
	{`\b(nike|uniqlo|shopee|lazada|mr\s*diy|sephora|watsons|guardian)\b`, "Shopping"},
	{`\b(cinema|movie|spotify|netflix|voucher|top\s*up)\b`, "Entertainment & Leisure"},
}

// New builds a Categorizer with the default rule table.
func New() *Categorizer {
	c := &Categorizer{rules: make([]rule, 0, len(defaultRules))}
	for _, r := range defaultRules {
		c.rules = append(c.rules, rule{
			pattern:  regexp.MustCompile(`(?i)` + r.pattern),
			category: r.category,
		})
	}
	return c
}

// Predict returns the category of the first rule matching the description,
// or FallbackCategory when nothing matches.
func (c *Categorizer) Predict(desc string) string {
	t := strings.ToLower(desc)
	for _, r := range c.rules {
		if r.pattern.MatchString(t) {
			return r.category
		}
	}
	return FallbackCategory
}

// AddRule appends a custom rule at the end of the table, below every default.
func (c *Categorizer) AddRule(pattern, category string) error {
	rx, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return fmt.Errorf("categorize: compiling rule %q: %w", pattern, err)
	}
	c.rules = append(c.rules, rule{pattern: rx, category: category})
	return nil
}

// Categories returns the distinct configured category labels, sorted.
func (c *Categorizer) Categories() []string {
	seen := make(map[string]bool, len(c.rules))
	out := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		if !seen[r.category] {
			seen[r.category] = true
			out = append(out, r.category)
		}
	}
	sort.Strings(out)
	return out
}
