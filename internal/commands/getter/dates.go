package getter

import (
	"regexp"
	"strings"
)

const (
	englishMonths = `january|february|march|april|may|june|july|august|september|october|november|december`
	frenchMonths  = `janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre`
)

// datePatterns match the date and time notations GET DATE recognizes
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`),
	regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(` + frenchMonths + `)\s+\d{4}`),
	regexp.MustCompile(`(?i)(` + frenchMonths + `)\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(` + englishMonths + `)\s+\d{4}`),
	regexp.MustCompile(`(?i)(` + englishMonths + `)\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}`),
}

// ContainsDate reports whether text holds a recognizable date or time
func ContainsDate(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, re := range datePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
