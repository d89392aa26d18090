// Package extraction implements EXTRACT: text, numbers, e-mail addresses,
// links and regular expression matches taken from the previous result.
package extraction

import (
	"context"
	"regexp"
	"strings"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

const command = "EXTRACT"

// dedupe selects how collected values are deduplicated
type dedupe int

const (
	keepAll dedupe = iota
	exact
	foldCase
)

// input is the previous result seen as elements, or as plain text when it
// already is text
type input struct {
	elements []*dom.Node
	text     string
	isText   bool
}

// Handler dispatches EXTRACT subcommands
type Handler struct {
	logger *grablog.Logger
}

// New creates the EXTRACT handler
func New(logger *grablog.Logger) *Handler {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	return &Handler{logger: logger.WithField("component", "extract")}
}

// Execute runs EXTRACT TEXT [CLEAN], NUMBERS, EMAILS, URLS or REGEX
func (h *Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 1 {
		return grabvalue.Null(), cmdutil.ArgError(command, "missing extraction type. Available: TEXT, TEXT CLEAN, NUMBERS, EMAILS, URLS, REGEX")
	}

	sub, rest := args[0].Upper(), args[1:]
	if sub == "TEXT" && len(rest) > 0 && rest[0].Is("CLEAN") {
		sub, rest = "TEXT CLEAN", rest[1:]
	}
	label := command + " " + sub

	var (
		result grabvalue.Value
		err    error
	)
	switch sub {
	case "TEXT":
		result, err = h.text(label, rest, env, false)
	case "TEXT CLEAN":
		result, err = h.text(label, rest, env, true)
	case "NUMBERS":
		result, err = h.collect(label, rest, env, Numbers, nil, keepAll)
	case "EMAILS":
		result, err = h.collect(label, rest, env, Emails, mailtoAddresses, foldCase)
	case "URLS":
		result, err = h.collect(label, rest, env, URLs, attributeLinks, exact)
	case "REGEX":
		result, err = h.regex(label, rest, env)
	default:
		return grabvalue.Null(), cmdutil.ArgError(command, "unknown extraction type '%s'. Available: TEXT, TEXT CLEAN, NUMBERS, EMAILS, URLS, REGEX", args[0].Text)
	}
	if err != nil {
		return grabvalue.Null(), err
	}

	if n, ok := result.Len(); ok {
		h.logger.Debug("extracted", grablog.Fields{"command": label, "kind": result.Kind().String(), "count": n})
	}
	return result, nil
}

// source reads _last_result. A document is searched through its body.
func source(label string, env *grabvalue.Environment, allowText bool) (*input, error) {
	last, err := cmdutil.LastResult(label, env)
	if err != nil {
		return nil, err
	}

	switch last.Kind() {
	case grabvalue.KindNodeSet, grabvalue.KindNode:
		nodes, _ := cmdutil.Elements(label, last)
		return &input{elements: nodes}, nil
	case grabvalue.KindDocument:
		doc, _ := last.AsDocument()
		body, _ := doc.Find("body")
		if body == nil {
			body = doc.Root()
		}
		return &input{elements: []*dom.Node{body}}, nil
	case grabvalue.KindText:
		if allowText {
			s, _ := last.AsText()
			return &input{text: s, isText: true}, nil
		}
	case grabvalue.KindTextList:
		if allowText {
			items, _ := last.AsTextList()
			return &input{text: strings.Join(items, " "), isText: true}, nil
		}
	}
	return nil, cmdutil.ArgError(label, "input must be HTML elements, got %s", last.Kind())
}

// text returns one Text for a single non-empty result and a TextList for
// several
func (h *Handler) text(label string, args []grabregistry.Argument, env *grabvalue.Environment, clean bool) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 0, 0, label); err != nil {
		return grabvalue.Null(), err
	}
	in, err := source(label, env, true)
	if err != nil {
		return grabvalue.Null(), err
	}

	var texts []string
	if in.isText {
		texts = append(texts, strings.TrimSpace(in.text))
		if clean {
			texts[0] = Clean(in.text)
		}
	} else {
		for _, n := range in.elements {
			s := cmdutil.Text(n)
			if clean {
				s = Clean(n.Text())
			}
			texts = append(texts, s)
		}
	}

	out := texts[:0]
	for _, s := range texts {
		if s != "" {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return grabvalue.Null(), cmdutil.ArgError(label, "no text found in the elements")
	case 1:
		return grabvalue.Text(out[0]), nil
	default:
		return grabvalue.TextList(out), nil
	}
}

// collect applies fromText to the text of every element and fromElement,
// when set, to the element itself
func (h *Handler) collect(label string, args []grabregistry.Argument, env *grabvalue.Environment,
	fromText func(string) []string, fromElement func(*dom.Node) []string, mode dedupe) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 0, 0, label); err != nil {
		return grabvalue.Null(), err
	}
	in, err := source(label, env, true)
	if err != nil {
		return grabvalue.Null(), err
	}

	var found []string
	if in.isText {
		found = fromText(in.text)
	}
	for _, n := range in.elements {
		found = append(found, fromText(n.Text())...)
		if fromElement != nil {
			found = append(found, fromElement(n)...)
		}
	}

	if mode != keepAll {
		found = unique(found, mode == foldCase)
	}
	return grabvalue.TextList(found), nil
}

func (h *Handler) regex(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 1 {
		return grabvalue.Null(), cmdutil.ArgError(label, "pattern required. Usage: EXTRACT REGEX \"pattern\" [flags]")
	}

	re, err := Compile(label, args[0].Text, args[1:])
	if err != nil {
		return grabvalue.Null(), err
	}
	in, err := source(label, env, true)
	if err != nil {
		return grabvalue.Null(), err
	}

	var matches []string
	if in.isText {
		matches = FindMatches(re, in.text)
	}
	for _, n := range in.elements {
		matches = append(matches, FindMatches(re, n.Text())...)
	}
	return grabvalue.TextList(matches), nil
}

// Compile builds the pattern with the given flags. Flags are words or
// letters, optionally comma separated: IGNORECASE (i), MULTILINE (m),
// DOTALL (s) and ASCII (a), which is accepted and has no effect.
func Compile(label, pattern string, flags []grabregistry.Argument) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, cmdutil.ArgError(label, "empty pattern")
	}

	var prefix strings.Builder
	for _, f := range flags {
		for _, word := range strings.FieldsFunc(f.Upper(), func(r rune) bool { return r == ',' || r == ' ' }) {
			switch word {
			case "I", "IGNORECASE":
				prefix.WriteString("i")
			case "M", "MULTILINE":
				prefix.WriteString("m")
			case "S", "DOTALL":
				prefix.WriteString("s")
			case "A", "ASCII":
			default:
				return nil, cmdutil.ArgError(label, "unsupported flag '%s'. Available: IGNORECASE, MULTILINE, DOTALL, ASCII", word)
			}
		}
	}

	expr := pattern
	if prefix.Len() > 0 {
		expr = "(?" + prefix.String() + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, cmdutil.ArgError(label, "invalid regular expression '%s': %v", pattern, err)
	}
	return re, nil
}

// FindMatches returns every match of re in text. With one capture group the
// group is returned; with several the non-empty groups are joined by a
// space.
func FindMatches(re *regexp.Regexp, text string) []string {
	groups := re.NumSubexp()
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		switch groups {
		case 0:
			out = append(out, m[0])
		case 1:
			out = append(out, m[1])
		default:
			parts := make([]string, 0, groups)
			for _, g := range m[1:] {
				if g != "" {
					parts = append(parts, g)
				}
			}
			out = append(out, strings.Join(parts, " "))
		}
	}
	return out
}
