package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateKind int

const (
	kindMDY dateKind = iota
	kindDMY
	kindYMD
	kindMonDY
	kindDMonY
)

// datePatterns are tried in order; the first kind that matches and yields a
// valid calendar date wins.
var datePatterns = []struct {
	rx   *regexp.Regexp
	kind dateKind
}{
	// 5/25/2025, 05-25-2025, 5/25/25
	{regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`), kindMDY},
	// 25.05.2025, 25-05-25
	{regexp.MustCompile(`\b(\d{1,2})[.-](\d{1,2})[.-](\d{2,4})\b`), kindDMY},
	// 2025/05/25
	{regexp.MustCompile(`\b(20\d{2})[/-](\d{1,2})[/-](\d{1,2})\b`), kindYMD},
	// May 25 2025 / 25 May 2025 (commas are blanked before matching)
	{regexp.MustCompile(`\b([A-Za-z]{3,9})\s+(\d{1,2})(?:,)?\s+(20\d{2})\b`), kindMonDY},
	{regexp.MustCompile(`\b(\d{1,2})\s+([A-Za-z]{3,9})\s+(20\d{2})\b`), kindDMonY},
}

var monthNames = map[string]int{
	"jan": 1, "january": 1, "feb": 2, "february": 2, "mar": 3, "march": 3,
	"apr": 4, "april": 4, "may": 5, "jun": 6, "june": 6, "jul": 7, "july": 7,
	"aug": 8, "august": 8, "sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10, "nov": 11, "november": 11, "dec": 12, "december": 12,
}

// ExtractDate finds the transaction date in the receipt text and returns it
// as YYYY-MM-DD, or "" when no pattern yields a valid calendar date.
//
// Receipts usually print the date near the bottom, so the lower half of the
// lines is searched before the full text. For the month/day/year kind, when
// both components could be a month and the text carries a ringgit marker,
// the day/month reading is preferred.
func ExtractDate(text string) string {
	text = strings.ReplaceAll(text, ",", " ")
	lines := strings.Split(text, "\n")
	searchSpace := strings.Join(lines[len(lines)/2:], "\n") + "\n" + text

	for _, p := range datePatterns {
		m := p.rx.FindStringSubmatch(searchSpace)
		if m == nil {
			continue
		}

		var year, month, day int
		ok := true
		switch p.kind {
		case kindMDY:
			month, day, year = atoi(m[1]), atoi(m[2]), atoi(m[3])
			if year < 100 {
				year += 2000
			}
			if month <= 12 && day <= 12 && ringgitMarker.MatchString(text) {
				month, day = day, month
			}
		case kindDMY:
			day, month, year = atoi(m[1]), atoi(m[2]), atoi(m[3])
			if year < 100 {
				year += 2000
			}
		case kindYMD:
			year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
		case kindMonDY:
			month, ok = monthNames[strings.ToLower(m[1])]
			day, year = atoi(m[2]), atoi(m[3])
		case kindDMonY:
			day, year = atoi(m[1]), atoi(m[3])
			month, ok = monthNames[strings.ToLower(m[2])]
		}
		if !ok || !validDate(year, month, day) {
			continue
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return ""
}

// validDate rejects calendar-impossible combinations (day 31 in a 30-day
// month, month 13) by round-tripping through time.Date, which normalizes
// out-of-range components.
func validDate(year, month, day int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
