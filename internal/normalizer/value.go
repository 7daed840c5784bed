// Package normalizer turns raw extracted metrics into a clean numeric dataset
// and derives comparative indicators across the whole table.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

// Scale words and stripping patterns for textual number forms.
var (
	billionPattern  = regexp.MustCompile(`(?i)billion`)
	millionPattern  = regexp.MustCompile(`(?i)million`)
	thousandPattern = regexp.MustCompile(`(?i)thousand`)
	currencyPattern = regexp.MustCompile(`[\$€¥£,\s]`)
	numericPattern  = regexp.MustCompile(`[0-9.]+`)
)

// Normalize converts a textual numeric token into a float64.
// It recognizes scale words ("2.3 Billion", "1.5 Million", "12 Thousand",
// trailing "k") and strips currency symbols, thousands separators and
// whitespace before the final parse.
//
// Empty input, "-" and unparseable text resolve to absent (ok=false); a
// failed parse is a per-value outcome, never an error for the caller.
func Normalize(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, false
	}

	multiplier := 1.0
	lower := strings.ToLower(s)

	switch {
	case strings.Contains(lower, "billion"):
		multiplier = 1e9
		s = billionPattern.ReplaceAllString(s, "")
	case strings.Contains(lower, "million"):
		multiplier = 1e6
		s = millionPattern.ReplaceAllString(s, "")
	case strings.Contains(lower, "thousand"):
		multiplier = 1e3
		s = thousandPattern.ReplaceAllString(s, "")
	case strings.HasSuffix(lower, "k"):
		multiplier = 1e3
		s = s[:len(s)-1]
	}

	s = currencyPattern.ReplaceAllString(s, "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f * multiplier, true
}

// NormalizeCount normalizes a count-like token (equipment stock numbers) and
// truncates the result toward zero.
func NormalizeCount(raw string) (int64, bool) {
	f, ok := Normalize(raw)
	if !ok {
		return 0, false
	}

	return int64(f), true
}

// ExtractNumeric pulls the first numeric literal out of loosely structured
// text ("Rank 12 of 145" -> 12). Unlike Normalize it applies no scale words
// and no currency stripping; it is the fallback for fields that no dedicated
// pattern produced.
func ExtractNumeric(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	match := numericPattern.FindString(raw)
	if match == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		// A bare run of dots matches the pattern but is not a number.
		return 0, false
	}

	return f, true
}
