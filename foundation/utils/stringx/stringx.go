// File: stringx.go
// Title: Core String Utility Functions
// Description: String helpers shared by the interpreter and the commands:
//              blank checks, Unicode-safe truncation, quote handling and
//              whitespace normalization.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-14 v0.1.1: Quote and whitespace helpers, case and random helpers removed

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank returns true if the string contains non-whitespace characters.
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate truncates a string to maxLen runes, adding an ellipsis if truncated.
// The ellipsis counts towards maxLen.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// Preview cuts s to maxLen runes and appends suffix when something was cut.
// Unlike Truncate the suffix is not counted.
func Preview(s string, maxLen int, suffix string) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + suffix
}

// ContainsIgnoreCase returns true if substr is within s, ignoring case.
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsQuoted reports whether s is enclosed in a matching pair of single or
// double quotes.
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == last && (first == '"' || first == '\'')
}

// TrimQuotes removes one matching pair of enclosing quotes.
func TrimQuotes(s string) string {
	if IsQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// TrimAnyQuotes strips every leading and trailing quote character, matched
// or not.
func TrimAnyQuotes(s string) string {
	return strings.Trim(s, `"'`)
}

// CollapseSpaces replaces every run of whitespace with a single space and
// trims the result.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitLines splits a string into lines, handling \n, \r\n and \r endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// FirstNonBlank returns the first non-blank string from the provided strings.
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if IsNotBlank(s) {
			return s
		}
	}
	return ""
}
