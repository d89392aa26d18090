// Package selection implements SELECT: ALL, FIRST, LAST and ONCE queries
// against the loaded page.
package selection

import (
	"context"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

const command = "SELECT"

// Handler dispatches SELECT subcommands
type Handler struct {
	logger *grablog.Logger
}

// New creates the SELECT handler
func New(logger *grablog.Logger) *Handler {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	return &Handler{logger: logger.WithField("component", "select")}
}

// Execute runs SELECT ALL sel, FIRST sel, LAST sel or ONCE sel n
func (h *Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 1 {
		return grabvalue.Null(), cmdutil.ArgError(command, "missing subcommand (e.g. SELECT ALL \"div\")")
	}

	sub := args[0].Upper()
	rest := args[1:]
	if sub != "ALL" && sub != "FIRST" && sub != "LAST" && sub != "ONCE" {
		return grabvalue.Null(), cmdutil.ArgError(command, "unknown subcommand '%s'. Available: ALL, FIRST, LAST, ONCE", args[0].Text)
	}

	src, err := cmdutil.RequireSource(command, env)
	if err != nil {
		return grabvalue.Null(), err
	}
	switch s := src.(type) {
	case *dom.Document:
		env.Set(grabvalue.CurrentSoup, grabvalue.Document(s))
	case *dom.Node:
		env.Set(grabvalue.CurrentSoup, grabvalue.Node(s))
	}

	label := command + " " + sub
	switch sub {
	case "ALL":
		return h.all(label, rest, src)
	case "FIRST":
		return h.edge(label, rest, src, true)
	case "LAST":
		return h.edge(label, rest, src, false)
	default:
		return h.once(label, rest, src, env)
	}
}

func (h *Handler) all(label string, args []grabregistry.Argument, src dom.Searcher) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 1, 1, label+" \"selector\""); err != nil {
		return grabvalue.Null(), err
	}
	nodes, err := Find(label, src, args[0].Text)
	if err != nil {
		return grabvalue.Null(), err
	}
	h.logger.Debug("elements selected", grablog.Fields{
		"command":  label,
		"selector": args[0].Text,
		"count":    len(nodes),
	})
	return grabvalue.NodeSet(nodes), nil
}

func (h *Handler) edge(label string, args []grabregistry.Argument, src dom.Searcher, first bool) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 1, 1, label+" \"selector\""); err != nil {
		return grabvalue.Null(), err
	}
	selector := args[0].Text
	nodes, err := Find(label, src, selector)
	if err != nil {
		return grabvalue.Null(), err
	}
	if len(nodes) == 0 {
		return grabvalue.Null(), cmdutil.ArgError(label, "no '%s' element found", selector)
	}

	n := nodes[len(nodes)-1]
	if first {
		n = nodes[0]
	}
	h.logger.Debug("element selected", grablog.Fields{
		"command":  label,
		"selector": selector,
		"of":       len(nodes),
	})
	return grabvalue.Node(n), nil
}

func (h *Handler) once(label string, args []grabregistry.Argument, src dom.Searcher, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(label, args, 2, 2, label+" \"selector\" index"); err != nil {
		return grabvalue.Null(), err
	}
	selector := args[0].Text
	index, err := cmdutil.Index(label, args[1], env)
	if err != nil {
		return grabvalue.Null(), err
	}

	nodes, err := Find(label, src, selector)
	if err != nil {
		return grabvalue.Null(), err
	}
	n, err := Nth(label, nodes, index, selector)
	if err != nil {
		return grabvalue.Null(), err
	}
	h.logger.Debug("element selected", grablog.Fields{
		"command":  label,
		"selector": selector,
		"index":    index,
		"of":       len(nodes),
	})
	return grabvalue.Node(n), nil
}

// Nth returns the 1-based index-th element of nodes
func Nth(label string, nodes []*dom.Node, index int, selector string) (*dom.Node, error) {
	if len(nodes) == 0 {
		return nil, cmdutil.ArgError(label, "no '%s' element found", selector)
	}
	if index > len(nodes) {
		return nil, cmdutil.ArgError(label, "index %d too high. There are only %d '%s' element(s)", index, len(nodes), selector)
	}
	return nodes[index-1], nil
}

// Find runs selector against src, reporting invalid selectors as argument
// errors of label
func Find(label string, src dom.Searcher, selector string) ([]*dom.Node, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, cmdutil.ArgError(label, "empty selector")
	}
	nodes, err := src.FindAll(selector)
	if err != nil {
		return nil, graberror.Wrap(err, label+": invalid selector").
			WithCode(graberror.CodeCommandArgument).
			WithOperation(label).
			WithDetail("selector", selector)
	}
	return nodes, nil
}
