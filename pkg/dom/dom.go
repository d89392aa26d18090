// ============================================================================
// grab - scraping script interpreter
// ============================================================================
//
// Package:     dom
// Description: HTML document model with CSS selector queries
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package dom provides the HTML document model used by grab commands.
// Documents are parsed with golang.org/x/net/html and queried with CSS
// selectors compiled by cascadia.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page
type Document struct {
	root *html.Node
	url  string
	size int
}

// Node is one element of a Document
type Node struct {
	raw *html.Node
}

// Searcher is implemented by Document and Node
type Searcher interface {
	FindAll(selector string) ([]*Node, error)
}

// Parse reads an HTML document. pageURL is recorded for relative link
// resolution and may be empty.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root, url: pageURL, size: len(data)}, nil
}

// ParseString parses an HTML string
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// URL returns the address the document was loaded from
func (d *Document) URL() string { return d.url }

// Size returns the length in bytes of the source HTML
func (d *Document) Size() int { return d.size }

// Root returns the document node
func (d *Document) Root() *Node { return &Node{raw: d.root} }

// FindAll returns the elements matching selector in document order
func (d *Document) FindAll(selector string) ([]*Node, error) {
	return findAll(d.root, selector)
}

// Find returns the first element matching selector, or nil
func (d *Document) Find(selector string) (*Node, error) {
	nodes, err := d.FindAll(selector)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Title returns the stripped text of the first <title> element
func (d *Document) Title() string {
	n := firstElement(d.root, atom.Title)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(textOf(n))
}

// Text returns the concatenated text of the document
func (d *Document) Text() string {
	return textOf(d.root)
}

// StrippedStrings returns every non-blank text segment, trimmed
func (d *Document) StrippedStrings() []string {
	return strippedStrings(d.root)
}

// HTML renders the document
func (d *Document) HTML() string {
	return render(d.root)
}

// BaseURL returns the origin used to resolve absolute paths: the href of
// <base>, otherwise the scheme and host of the canonical link, otherwise
// those of the document URL. Empty when none is known.
func (d *Document) BaseURL() string {
	if base := firstElement(d.root, atom.Base); base != nil {
		if href, ok := attr(base, "href"); ok && href != "" {
			return strings.TrimRight(href, "/")
		}
	}
	for _, link := range allElements(d.root, atom.Link) {
		rel, _ := attr(link, "rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			continue
		}
		if href, ok := attr(link, "href"); ok {
			if origin := originOf(href); origin != "" {
				return origin
			}
		}
	}
	return originOf(d.url)
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Wrap returns the Node for an html element
func Wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{raw: n}
}

// Raw returns the underlying html node
func (n *Node) Raw() *html.Node { return n.raw }

// Tag returns the lower-case element name
func (n *Node) Tag() string {
	if n.raw.Type != html.ElementNode {
		return ""
	}
	return n.raw.Data
}

// Attr returns the value of an attribute
func (n *Node) Attr(name string) (string, bool) {
	return attr(n.raw, name)
}

// Attrs returns the attributes in source order
func (n *Node) Attrs() []html.Attribute {
	out := make([]html.Attribute, len(n.raw.Attr))
	copy(out, n.raw.Attr)
	return out
}

// Text returns the concatenated text of the element
func (n *Node) Text() string {
	return textOf(n.raw)
}

// StrippedStrings returns every non-blank text segment below the element
func (n *Node) StrippedStrings() []string {
	return strippedStrings(n.raw)
}

// HTML renders the element and its descendants
func (n *Node) HTML() string {
	return render(n.raw)
}

// Parent returns the parent element, or nil at the top
func (n *Node) Parent() *Node {
	for p := n.raw.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Node{raw: p}
		}
	}
	return nil
}

// Children returns the direct child elements
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Node{raw: c})
		}
	}
	return out
}

// Ancestors returns the enclosing elements named tag, nearest first. An
// empty tag returns every enclosing element.
func (n *Node) Ancestors(tag string) []*Node {
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		if tag == "" || strings.EqualFold(p.Tag(), tag) {
			out = append(out, p)
		}
	}
	return out
}

// FindAll returns the descendants matching selector in document order. The
// element itself is never part of the result.
func (n *Node) FindAll(selector string) ([]*Node, error) {
	return findAll(n.raw, selector)
}

// TextHolders returns n and the elements below it that directly contain non-blank
// text, in document order. Script and style contents are ignored.
func (n *Node) TextHolders() []*Node {
	var out []*Node
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		if skipText(h) {
			return
		}
		if h.Type == html.ElementNode && holdsText(h) {
			out = append(out, &Node{raw: h})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.raw)
	return out
}

// TextHolders returns the elements of the document that directly contain
// non-blank text
func (d *Document) TextHolders() []*Node {
	return d.Root().TextHolders()
}

func holdsText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// Equal reports whether both values wrap the same element
func (n *Node) Equal(other *Node) bool {
	return n != nil && other != nil && n.raw == other.raw
}

func findAll(root *html.Node, selector string) ([]*Node, error) {
	sel, err := cascadia.Compile(strings.TrimSpace(selector))
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var out []*Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		for _, m := range sel.MatchAll(c) {
			out = append(out, &Node{raw: m})
		}
	}
	return out, nil
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func firstElement(root *html.Node, a atom.Atom) *html.Node {
	all := allElements(root, a)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func allElements(root *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// skipText reports elements whose contents are not page text
func skipText(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

func eachText(n *html.Node, fn func(string)) {
	if n.Type == html.TextNode {
		fn(n.Data)
		return
	}
	if skipText(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		eachText(c, fn)
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	eachText(n, func(s string) { b.WriteString(s) })
	return b.String()
}

func strippedStrings(n *html.Node) []string {
	var out []string
	eachText(n, func(s string) {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
