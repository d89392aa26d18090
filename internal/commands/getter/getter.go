// Package getter implements GET: element text, attribute values and
// elements holding dates.
package getter

import (
	"context"
	"strings"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/internal/commands/selection"
	"github.com/msto63/grab/pkg/dom"
)

const command = "GET"

// Subcommands are the two-word getters the resolver must keep together
var Subcommands = []string{"ATTR_FIRST", "ATTR_LAST", "ATTR_ONCE", "DATE_ONCE", "DATE_LAST"}

type subcommand func(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error)

// Handler dispatches GET subcommands
type Handler struct {
	logger *grablog.Logger
	subs   map[string]subcommand
}

// New creates the GET handler
func New(logger *grablog.Logger) *Handler {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	h := &Handler{logger: logger.WithField("component", "get")}
	h.subs = map[string]subcommand{
		"TEXT":       h.text,
		"ATTR":       h.attr,
		"ATTR_FIRST": h.attrFirst,
		"ATTR_LAST":  h.attrLast,
		"ATTR_ONCE":  h.attrOnce,
		"DATE":       h.date,
		"DATE_ONCE":  h.dateOnce,
		"DATE_LAST":  h.dateLast,
	}
	return h
}

// Execute resolves the subcommand and runs it
func (h *Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 1 {
		return grabvalue.Null(), cmdutil.ArgError(command, "missing subcommand (e.g. GET ATTR \"href\")")
	}

	name, rest := args[0].Upper(), args[1:]
	if len(args) >= 2 && !args[0].IsLiteral() && !args[1].IsLiteral() {
		if joined := name + "_" + args[1].Upper(); h.subs[joined] != nil {
			name, rest = joined, args[2:]
		}
	}

	sub, ok := h.subs[name]
	if !ok || args[0].IsLiteral() {
		return grabvalue.Null(), cmdutil.ArgError(command, "unknown subcommand '%s'. Available: ATTR, ATTR FIRST, ATTR LAST, ATTR ONCE, DATE, DATE LAST, DATE ONCE, TEXT", args[0].Text)
	}

	label := command + " " + strings.ReplaceAll(name, "_", " ")
	h.logger.Debug("dispatching", grablog.Fields{"command": label, "args": len(rest)})
	return sub(label, rest, env)
}

func (h *Handler) text(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 0, 0, label); err != nil {
		return grabvalue.Null(), err
	}
	last, err := cmdutil.LastResult(label, env)
	if err != nil {
		return grabvalue.Null(), err
	}

	var texts []string
	add := func(s string) {
		if s != "" {
			texts = append(texts, s)
		}
	}
	switch last.Kind() {
	case grabvalue.KindNodeSet, grabvalue.KindNode:
		nodes, _ := cmdutil.Elements(label, last)
		for _, n := range nodes {
			add(cmdutil.Text(n))
		}
	case grabvalue.KindDocument:
		doc, _ := last.AsDocument()
		add(strings.Join(doc.StrippedStrings(), ""))
	default:
		return grabvalue.Null(), cmdutil.ArgError(label, "unsupported input %s", last.Kind())
	}

	h.logger.Debug("texts extracted", grablog.Fields{"command": label, "count": len(texts)})
	return grabvalue.TextList(texts), nil
}

func (h *Handler) attr(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 1, 1, label+" \"attribute\""); err != nil {
		return grabvalue.Null(), err
	}
	if _, ok := env.Get(grabvalue.LastResult); !ok {
		return grabvalue.Null(), cmdutil.ArgError(label, "no element selected. Use a SELECT command first")
	}
	last := env.Lookup(grabvalue.LastResult)
	name := args[0].Text

	switch last.Kind() {
	case grabvalue.KindNode:
		n, _ := last.AsNode()
		if v, ok := AttrValue(n, name); ok {
			return grabvalue.Text(v), nil
		}
		h.logger.Debug("attribute not found", grablog.Fields{"command": label, "attribute": name})
		return grabvalue.Null(), nil
	case grabvalue.KindNodeSet:
		nodes, _ := last.AsNodes()
		values := make([]string, 0, len(nodes))
		for _, n := range nodes {
			if v, ok := AttrValue(n, name); ok {
				values = append(values, v)
			}
		}
		h.logger.Debug("attributes collected", grablog.Fields{
			"command":   label,
			"attribute": name,
			"found":     len(values),
			"of":        len(nodes),
		})
		return grabvalue.TextList(values), nil
	default:
		return grabvalue.Null(), cmdutil.ArgError(label, "unsupported input %s", last.Kind())
	}
}

func (h *Handler) attrFirst(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	return h.attrAt(label, args, env, func(nodes []*dom.Node) int { return 0 })
}

func (h *Handler) attrLast(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	return h.attrAt(label, args, env, func(nodes []*dom.Node) int { return len(nodes) - 1 })
}

// attrAt reads an attribute of the element pick chooses among the tag
// matches
func (h *Handler) attrAt(label string, args []grabregistry.Argument, env *grabvalue.Environment, pick func([]*dom.Node) int) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 2, 2, label+" \"tag\" \"attribute\""); err != nil {
		return grabvalue.Null(), err
	}
	tag, name := args[0].Text, args[1].Text

	nodes, err := h.matches(label, tag, env)
	if err != nil {
		return grabvalue.Null(), err
	}
	if len(nodes) == 0 {
		return grabvalue.Null(), cmdutil.ArgError(label, "no '%s' element found", tag)
	}
	return h.attrOf(label, nodes[pick(nodes)], name), nil
}

func (h *Handler) attrOnce(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 3, 3, label+" \"tag\" index \"attribute\""); err != nil {
		return grabvalue.Null(), err
	}
	tag, name := args[0].Text, args[2].Text
	index, err := cmdutil.Index(label, args[1], env)
	if err != nil {
		return grabvalue.Null(), err
	}

	nodes, err := h.matches(label, tag, env)
	if err != nil {
		return grabvalue.Null(), err
	}
	n, err := selection.Nth(label, nodes, index, tag)
	if err != nil {
		return grabvalue.Null(), err
	}
	return h.attrOf(label, n, name), nil
}

func (h *Handler) attrOf(label string, n *dom.Node, name string) grabvalue.Value {
	v, ok := AttrValue(n, name)
	if !ok {
		h.logger.Debug("attribute not found", grablog.Fields{"command": label, "attribute": name, "tag": n.Tag()})
		return grabvalue.Null()
	}
	return grabvalue.Text(v)
}

func (h *Handler) date(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 0, 1, label+" [\"tag\"]"); err != nil {
		return grabvalue.Null(), err
	}
	src, err := cmdutil.RequireSource(label, env)
	if err != nil {
		return grabvalue.Null(), err
	}

	var candidates []*dom.Node
	if len(args) == 1 {
		candidates, err = selection.Find(label, src, args[0].Text)
		if err != nil {
			return grabvalue.Null(), err
		}
	} else {
		switch s := src.(type) {
		case *dom.Document:
			candidates = s.TextHolders()
		case *dom.Node:
			candidates = s.TextHolders()
		}
	}

	var dated []*dom.Node
	for _, n := range candidates {
		if ContainsDate(cmdutil.Text(n)) {
			dated = append(dated, n)
		}
	}
	h.logger.Debug("dated elements found", grablog.Fields{"command": label, "count": len(dated), "of": len(candidates)})
	return grabvalue.NodeSet(dated), nil
}

func (h *Handler) dateOnce(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 2, 2, label+" \"tag\" index"); err != nil {
		return grabvalue.Null(), err
	}
	tag := args[0].Text
	index, err := cmdutil.Index(label, args[1], env)
	if err != nil {
		return grabvalue.Null(), err
	}

	nodes, err := h.matches(label, tag, env)
	if err != nil {
		return grabvalue.Null(), err
	}
	n, err := selection.Nth(label, nodes, index, tag)
	if err != nil {
		return grabvalue.Null(), err
	}
	if !ContainsDate(cmdutil.Text(n)) {
		return grabvalue.Null(), cmdutil.ArgError(label, "element '%s' at index %d does not contain a date", tag, index)
	}
	return grabvalue.Node(n), nil
}

func (h *Handler) dateLast(label string, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 1, 1, label+" \"tag\""); err != nil {
		return grabvalue.Null(), err
	}
	tag := args[0].Text

	nodes, err := h.matches(label, tag, env)
	if err != nil {
		return grabvalue.Null(), err
	}
	if len(nodes) == 0 {
		return grabvalue.Null(), cmdutil.ArgError(label, "no '%s' element found", tag)
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		if ContainsDate(cmdutil.Text(nodes[i])) {
			return grabvalue.Node(nodes[i]), nil
		}
	}
	return grabvalue.Null(), cmdutil.ArgError(label, "no '%s' element containing a date found", tag)
}

func (h *Handler) matches(label, tag string, env *grabvalue.Environment) ([]*dom.Node, error) {
	src, err := cmdutil.RequireSource(label, env)
	if err != nil {
		return nil, err
	}
	return selection.Find(label, src, tag)
}

// AttrValue returns an attribute of n. Class lists are normalized to single
// spaces.
func AttrValue(n *dom.Node, name string) (string, bool) {
	v, ok := n.Attr(name)
	if ok && strings.EqualFold(name, "class") {
		v = strings.Join(strings.Fields(v), " ")
	}
	return v, ok
}
