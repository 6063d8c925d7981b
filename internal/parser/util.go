package parser

import (
	"regexp"
	"strings"
)

// searchFlags makes "." span line breaks and folds case for every field pattern.
const searchFlags = `(?is)`

// amountPattern captures amounts like 1,234.56: a leading digit, optional
// thousands commas and exactly two decimal places.
const amountPattern = `(\d[\d,]*\.\d{2})`

// currencyMarker is the "( ` )" unit glyph the issuer prints between a
// limit label and its value.
const currencyMarker = `\(\s*` + "`" + `\s*\)`

var (
	// DD Mon YYYY (e.g., 01 Feb 2024)
	datePattern = regexp.MustCompile(`\b\d{1,2}\s[A-Za-z]{3}\s\d{4}\b`)

	// "01 Jan 2024 to 31 Jan 2024". Both ends describe a period, not the
	// statement or due date. Dash-separated pairs are left as tokens.
	dateRangePattern = regexp.MustCompile(`(?i)\b\d{1,2}\s[A-Za-z]{3}\s\d{4}\s+to\s+\d{1,2}\s[A-Za-z]{3}\s\d{4}\b`)
)

func compileRule(pattern string) *regexp.Regexp {
	return regexp.MustCompile(searchFlags + pattern)
}

// search returns the first capture group of the leftmost match of re in
// text, normalized, or nil when there is no match.
func search(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return normalize(m[1])
}

// normalize drops thousands separators and surrounding whitespace.
// An empty result counts as not found.
func normalize(s string) *string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	return &s
}

// findDates returns every date token in document order, skipping both
// ends of any "to" range.
func findDates(text string) []string {
	masked := dateRangePattern.ReplaceAllString(text, " ")
	return datePattern.FindAllString(masked, -1)
}
