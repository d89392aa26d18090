package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	grabvalue "github.com/msto63/grab/foundation/grab/value"
	grabstringx "github.com/msto63/grab/foundation/utils/stringx"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

// pageElements are counted in the DEV view of a document
var pageElements = []string{"div", "span", "a", "p", "img", "h1", "h2", "h3"}

// Describe returns the one-line summary PRINT shows for a variable
func Describe(name string, v grabvalue.Value) string {
	switch v.Kind() {
	case grabvalue.KindDocument:
		doc, _ := v.AsDocument()
		return fmt.Sprintf("Page '%s': %s", name, titleOf(doc))
	case grabvalue.KindNodeSet:
		nodes, _ := v.AsNodes()
		if len(nodes) == 0 {
			return fmt.Sprintf("Empty result '%s': no elements", name)
		}
		return fmt.Sprintf("Result '%s': %d element(s) <%s>", name, len(nodes), nodes[0].Tag())
	case grabvalue.KindNode:
		n, _ := v.AsNode()
		return fmt.Sprintf("Element '%s': <%s> '%s'", name, tagWithClasses(n), grabstringx.Preview(cmdutil.Text(n), 50, "..."))
	case grabvalue.KindTextList:
		items, _ := v.AsTextList()
		return fmt.Sprintf("List '%s': %d item(s)", name, len(items))
	case grabvalue.KindText:
		s, _ := v.AsText()
		return fmt.Sprintf("Text '%s': '%s'", name, grabstringx.Preview(s, 100, "..."))
	default:
		return fmt.Sprintf("Variable '%s': %s = %s", name, v.Kind(), grabstringx.Preview(v.String(), 100, ""))
	}
}

// Dump returns the multi-line DEV view of a variable
func Dump(name string, v grabvalue.Value) string {
	lines := []string{fmt.Sprintf("DEV - Variable '%s' (%s):", name, v.Kind())}
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	switch v.Kind() {
	case grabvalue.KindDocument:
		doc, _ := v.AsDocument()
		add("   Type: full HTML page")
		add("   Title: %s", titleOf(doc))
		add("   Size: %d characters", utf8.RuneCountInString(doc.HTML()))
		add("   Main elements:")
		for _, tag := range pageElements {
			if nodes, _ := doc.FindAll(tag); len(nodes) > 0 {
				add("     - %s: %d", tag, len(nodes))
			}
		}

	case grabvalue.KindNodeSet:
		nodes, _ := v.AsNodes()
		add("   Type: selection result")
		add("   Element count: %d", len(nodes))
		if len(nodes) == 0 {
			break
		}
		add("   Element types:")
		var order []string
		counts := make(map[string]int)
		for _, n := range nodes {
			if counts[n.Tag()] == 0 {
				order = append(order, n.Tag())
			}
			counts[n.Tag()]++
		}
		for _, tag := range order {
			add("     - <%s>: %d", tag, counts[tag])
		}
		add("   Preview (first 3):")
		for i, n := range nodes {
			if i == 3 {
				break
			}
			add("     %d. <%s> '%s'", i+1, tagWithClasses(n), grabstringx.Preview(cmdutil.Text(n), 30, "..."))
		}

	case grabvalue.KindNode:
		n, _ := v.AsNode()
		add("   Type: single HTML element")
		add("   Tag: <%s>", n.Tag())
		if attrs := n.Attrs(); len(attrs) > 0 {
			add("   Attributes:")
			for _, a := range attrs {
				add("     - %s: %s", a.Key, grabstringx.Preview(a.Val, 50, "..."))
			}
		}
		if text := cmdutil.Text(n); text != "" {
			add("   Text: '%s'", grabstringx.Preview(text, 100, "..."))
		}
		if children := n.Children(); len(children) > 0 {
			add("   Children: %d element(s)", len(children))
		}

	case grabvalue.KindTextList:
		items, _ := v.AsTextList()
		add("   Type: list")
		add("   Item count: %d", len(items))
		if len(items) > 0 {
			add("   Item types:")
			add("     - %s: %d", grabvalue.KindText, len(items))
		}

	case grabvalue.KindText:
		s, _ := v.AsText()
		n := utf8.RuneCountInString(s)
		add("   Type: string")
		add("   Length: %d characters", n)
		if n > 200 {
			add("   Preview: '%s'", grabstringx.Preview(s, 200, "..."))
		} else {
			add("   Content: '%s'", s)
		}

	default:
		add("   Type: %s", v.Kind())
		add("   Value: %s", v.String())
	}
	return strings.Join(lines, "\n")
}

func titleOf(doc *dom.Document) string {
	if title := doc.Title(); title != "" {
		return title
	}
	return "untitled"
}

// tagWithClasses renders tag.class1.class2
func tagWithClasses(n *dom.Node) string {
	classes := cmdutil.Classes(n)
	if len(classes) == 0 {
		return n.Tag()
	}
	return n.Tag() + "." + strings.Join(classes, ".")
}
