package extraction

import (
	"regexp"
	"strings"

	"github.com/msto63/grab/pkg/dom"
)

const urlChars = "[^\\s<>\"{}|\\\\^`\\[\\]]+"

var (
	numberPattern = regexp.MustCompile(`-?\d{1,3}(?:,\d{3})*(?:\.\d+)?|-?\d+(?:\.\d+)?`)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	urlPattern    = regexp.MustCompile(`https?://` + urlChars + `|ftp://` + urlChars + `|www\.` + urlChars + `\.[a-zA-Z]{2,}`)
	urlTrailing   = regexp.MustCompile(`[.,;:!?)\]}]+$`)
	linkPattern   = regexp.MustCompile(`^(https?://|ftp://|www\.|/|[a-zA-Z0-9])`)
	spaces        = regexp.MustCompile(`\s+`)
)

// emailAttributes may hold an address directly
var emailAttributes = []string{"data-email", "data-mail", "email", "mail"}

// urlAttributes may hold a link
var urlAttributes = []string{"href", "src", "action", "data-url", "data-link", "data-href", "cite", "formaction"}

var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "sms:", "data:"}

// Numbers returns every number in text with thousands separators removed
func Numbers(text string) []string {
	matches := numberPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ReplaceAll(m, ",", ""))
	}
	return out
}

// Emails returns the addresses found in text
func Emails(text string) []string {
	return emailPattern.FindAllString(text, -1)
}

// URLs returns the links written out in text, without trailing punctuation
func URLs(text string) []string {
	var out []string
	for _, m := range urlPattern.FindAllString(text, -1) {
		if u := urlTrailing.ReplaceAllString(m, ""); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// IsLink reports whether an attribute value is a followable link
func IsLink(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || strings.HasPrefix(v, "#") {
		return false
	}
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(v, scheme) {
			return false
		}
	}
	return linkPattern.MatchString(v)
}

// Clean collapses whitespace runs into single spaces
func Clean(text string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}

// mailtoAddresses returns the addresses of mailto links at or below n
func mailtoAddresses(n *dom.Node) []string {
	links, _ := n.FindAll("a[href]")
	if n.Tag() == "a" {
		links = append([]*dom.Node{n}, links...)
	}

	var out []string
	for _, a := range links {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "mailto:") {
			continue
		}
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		if strings.Contains(addr, "@") {
			out = append(out, addr)
		}
	}
	for _, name := range emailAttributes {
		if v, ok := n.Attr(name); ok && strings.Contains(v, "@") {
			out = append(out, Emails(v)...)
		}
	}
	return out
}

// attributeLinks returns the links held by attributes of n and its
// descendants
func attributeLinks(n *dom.Node) []string {
	var out []string
	collect := func(e *dom.Node) {
		for _, name := range urlAttributes {
			if v, ok := e.Attr(name); ok && IsLink(v) {
				out = append(out, strings.TrimSpace(v))
			}
		}
	}
	collect(n)
	descendants, _ := n.FindAll("*")
	for _, d := range descendants {
		collect(d)
	}
	return out
}

// unique drops repeated values, keeping the first spelling. With fold the
// comparison ignores case.
func unique(values []string, fold bool) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := v
		if fold {
			key = strings.ToLower(v)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
