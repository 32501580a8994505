package categorize

import "strings"

// merchantHints maps merchant-name fragments to a category used when
// item-level classification comes up empty. Ordered; first match wins.
var merchantHints = []struct {
	fragment string
	category string
}{
	{"99 speedmart", "Food & Dining"},
	{"speed mart", "Food & Dining"},
	{"familymart", "Food & Dining"},
	{"family mart", "Food & Dining"},
	{"bungkus ikat tepi", "Food & Dining"},
	{"coriander", "Food & Dining"},
	{"rosto", "Food & Dining"},
	{"petronas", "Transportation"},
	{"primax", "Transportation"},
	{"shell", "Transportation"},
}

// MerchantHint returns the category implied by a merchant name, if any.
// Matching is case-insensitive on name fragments.
func MerchantHint(merchant string) (string, bool) {
	low := strings.ToLower(strings.TrimSpace(merchant))
	if low == "" {
		return "", false
	}
	for _, h := range merchantHints {
		if strings.Contains(low, h.fragment) {
			return h.category, true
		}
	}
	return "", false
}
