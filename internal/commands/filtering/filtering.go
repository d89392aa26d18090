// Package filtering implements FILTER, which narrows the previous result
// to the elements satisfying a WHERE condition.
package filtering

import (
	"context"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

const (
	command = "FILTER"
	usage   = "FILTER [ALL|FIRST|LAST] WHERE condition or FILTER ONCE index WHERE condition"
)

// Handler dispatches FILTER subcommands
type Handler struct {
	logger *grablog.Logger
}

// New creates the FILTER handler
func New(logger *grablog.Logger) *Handler {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	return &Handler{logger: logger.WithField("component", "filter")}
}

// Execute runs FILTER ALL|FIRST|LAST WHERE cond or FILTER ONCE n WHERE cond
// over the elements in _last_result
func (h *Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 3 {
		return grabvalue.Null(), cmdutil.ArgError(command, "a subcommand and a condition are required (e.g. FILTER ALL WHERE class CONTAINS \"active\")")
	}

	sub := args[0].Upper()
	label := command + " " + sub

	var index int
	var condArgs []grabregistry.Argument
	switch sub {
	case "ONCE":
		if len(args) < 5 || !args[2].Is("WHERE") {
			return grabvalue.Null(), cmdutil.ArgError(label, "invalid syntax. Usage: FILTER ONCE index WHERE condition")
		}
		n, err := cmdutil.Index(label, args[1], env)
		if err != nil {
			return grabvalue.Null(), err
		}
		index = n
		condArgs = args[3:]
	case "ALL", "FIRST", "LAST":
		if !args[1].Is("WHERE") {
			return grabvalue.Null(), cmdutil.ArgError(command, "invalid syntax. Usage: %s", usage)
		}
		condArgs = args[2:]
	default:
		return grabvalue.Null(), cmdutil.ArgError(command, "unknown subcommand '%s'. Available: ALL, FIRST, LAST, ONCE", args[0].Text)
	}

	cond, err := ParseCondition(label, condArgs)
	if err != nil {
		return grabvalue.Null(), err
	}

	if _, ok := env.Get(grabvalue.LastResult); !ok {
		return grabvalue.Null(), cmdutil.ArgError(command, "no element selected. Use a SELECT command first")
	}
	elements, err := cmdutil.Elements(label, env.Lookup(grabvalue.LastResult))
	if err != nil {
		return grabvalue.Null(), err
	}

	matched := Apply(cond, elements)
	h.logger.Debug("elements filtered", grablog.Fields{
		"command":   label,
		"condition": grabregistry.Join(condArgs),
		"matched":   len(matched),
		"of":        len(elements),
	})

	switch sub {
	case "ALL":
		return grabvalue.NodeSet(matched), nil
	case "FIRST":
		if len(matched) == 0 {
			return grabvalue.Null(), cmdutil.ArgError(label, "no element matches the condition")
		}
		return grabvalue.Node(matched[0]), nil
	case "LAST":
		if len(matched) == 0 {
			return grabvalue.Null(), cmdutil.ArgError(label, "no element matches the condition")
		}
		return grabvalue.Node(matched[len(matched)-1]), nil
	default:
		return once(label, matched, index)
	}
}

// once returns the index-th match. A single match is returned whatever the
// index.
func once(label string, matched []*dom.Node, index int) (grabvalue.Value, error) {
	switch {
	case len(matched) == 0:
		return grabvalue.Null(), cmdutil.ArgError(label, "no element matches the condition")
	case len(matched) == 1:
		return grabvalue.Node(matched[0]), nil
	case index > len(matched):
		return grabvalue.Null(), cmdutil.ArgError(label, "index %d too high. Only %d element(s) match", index, len(matched))
	default:
		return grabvalue.Node(matched[index-1]), nil
	}
}

// Apply returns the elements satisfying cond, keeping their order
func Apply(cond *Condition, elements []*dom.Node) []*dom.Node {
	out := make([]*dom.Node, 0, len(elements))
	for _, n := range elements {
		if cond.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
