package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// brandPatterns is the ordered brand lexicon. The first pattern matching the
// lowercased full text wins and returns its canonical label. Entries include
// product vocabulary ("venti", "frappuccino") and common OCR misreads
// ("family hart" for FamilyMart).
var brandPatterns = []struct {
	rx   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)\bstarbucks?\b|frappuccino|venti|grande|macchiato`), "Starbucks"},
	{regexp.MustCompile(`(?i)\bnike\b|nike\.com|just\s*do\s*it`), "Nike"},
	{regexp.MustCompile(`(?i)\badidas\b|adidas\.com`), "Adidas"},
	{regexp.MustCompile(`(?i)\buniqlo\b|uniqlo\.com`), "UNIQLO"},
	{regexp.MustCompile(`(?i)\b7[- ]?eleven\b|7eleven`), "7-Eleven"},
	{regexp.MustCompile(`(?i)\bikea\b|ikea\.com`), "IKEA"},
	{regexp.MustCompile(`(?i)\bsephora\b`), "Sephora"},
	{regexp.MustCompile(`(?i)\bwatsons\b`), "Watsons"},
	{regexp.MustCompile(`(?i)\bguardian\b`), "Guardian"},
	{regexp.MustCompile(`(?i)\bpetronas\b`), "Petronas"},
	{regexp.MustCompile(`(?i)\bshell\b`), "Shell"},
	{regexp.MustCompile(`(?i)\bmr\.?\s*diy\b|mr[ -]?diy`), "MR DIY"},
	{regexp.MustCompile(`(?i)\bdomino'?s\b`), "Domino's"},
	{regexp.MustCompile(`(?i)\bpizza\s*h?ut\b`), "Pizza Hut"},
	{regexp.MustCompile(`(?i)\bmc\s?donald'?s\b|mcd\b`), "McDonald's"},
	{regexp.MustCompile(`(?i)\bsubway\b`), "Subway"},
	{regexp.MustCompile(`(?i)\b99\s*speed\s*mart\b|99\s*speedmart|99speedmart`), "99 Speedmart"},
	{regexp.MustCompile(`(?i)\bfamily\s*mart\b|familymart`), "FamilyMart"},
	{regexp.MustCompile(`(?i)\bfamily\s*hart\b|familyhart`), "FamilyMart"},
	{regexp.MustCompile(`(?i)\bbungkus\s+ikat\s+tepi\b`), "Bungkus Ikat Tepi"},
	{regexp.MustCompile(`(?i)\bcoriander\s*&\s*coffee\b|c\s*&\s*c\b`), "Coriander & Coffee"},
	{regexp.MustCompile(`(?i)\brosto\b`), "Rosto"},
}

// headerSkip disqualifies top lines from being a merchant-name guess.
var headerSkip = regexp.MustCompile(`(?i)(phone|tel|gst|vat|store|slip|staff|date|table|qty|card|visa|debit|credit|subtotal|tax|total|welcome)`)

var trailingPunct = regexp.MustCompile(`[:\-•]+$`)

// DetectMerchant identifies the merchant from the receipt text.
// The brand lexicon is tried first against the full text; failing that, the
// first meaningful line among the top twelve is taken as a venue-name guess.
func DetectMerchant(text string, lines []string) string {
	low := strings.ToLower(text)
	low = pathText.ReplaceAllString(low, "")

	for _, b := range brandPatterns {
		if b.rx.MatchString(low) {
			return b.name
		}
	}

	top := lines
	if len(top) > 12 {
		top = top[:12]
	}
	for _, ln := range top {
		if headerSkip.MatchString(ln) {
			continue
		}
		if letterCount(ln) < 3 {
			continue
		}
		guess := trailingPunct.ReplaceAllString(strings.TrimSpace(ln), "")
		if len([]rune(guess)) < 4 {
			continue
		}
		if isAllLower(guess) {
			continue
		}
		return guess
	}

	return ""
}

// isAllLower reports whether s has at least one letter and no uppercase,
// i.e. it reads like stray lowercase noise rather than a printed venue name.
func isAllLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
