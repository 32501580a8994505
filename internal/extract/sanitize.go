package extract

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"receipt-engine/internal/money"
)

// LooksLikeContent reports whether a raw OCR line is worth keeping.
// Money-like lines always pass, then lines with at least two digits, then
// lines of three or more characters containing at least one letter.
func LooksLikeContent(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if money.Pattern.MatchString(s) {
		return true
	}
	if digitCount(s) >= 2 {
		return true
	}
	return utf8.RuneCountInString(s) >= 3 && letterCount(s) >= 1
}

// FlattenText walks an arbitrary nested recognizer payload (the decoded
// JSON shape varies across recognizer versions) and collects every scalar
// text token that passes LooksLikeContent, in encounter order. Results are
// de-duplicated by (lowercased text, length), first occurrence winning.
//
// This adapter is the only place that tolerates the recognizer's output
// shape; everything downstream sees a flat ordered list of strings.
func FlattenText(out any) []string {
	var lines []string

	var walk func(o any)
	walk = func(o any) {
		switch v := o.(type) {
		case []any:
			for _, it := range v {
				if t, ok := detectionPairText(it); ok {
					if LooksLikeContent(t) {
						lines = append(lines, strings.TrimSpace(t))
					}
					continue
				}
				walk(it)
			}
		case map[string]any:
			for _, k := range []string{"text", "transcription", "value", "content", "sentence"} {
				if s, ok := v[k].(string); ok && LooksLikeContent(s) {
					lines = append(lines, strings.TrimSpace(s))
				}
			}
			// Sorted keys keep the walk deterministic; the dedupe pass
			// drops the re-visited text fields.
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(v[k])
			}
		case string:
			if LooksLikeContent(v) {
				lines = append(lines, strings.TrimSpace(v))
			}
		}
	}
	walk(out)

	return dedupeLines(lines)
}

// detectionPairText recognizes the classic detection-box pair shape
// [geometry, [text, confidence, ...]] and returns its text token.
func detectionPairText(it any) (string, bool) {
	pair, ok := it.([]any)
	if !ok || len(pair) < 2 {
		return "", false
	}
	inner, ok := pair[1].([]any)
	if !ok || len(inner) == 0 {
		return "", false
	}
	t, ok := inner[0].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(t), true
}

type lineKey struct {
	low string
	n   int
}

func dedupeLines(lines []string) []string {
	seen := make(map[lineKey]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		key := lineKey{low: strings.ToLower(ln), n: len(ln)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ln)
	}
	return out
}

// StripPathLines drops lines that are filesystem paths leaked from the
// recognizer boundary (drive-letter paths, rooted unix paths).
func StripPathLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if pathLine.MatchString(strings.TrimSpace(ln)) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
