// Package utilities implements SAVE, USE, COUNT and JSON, the commands that
// manage variables rather than query pages.
package utilities

import (
	"context"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
)

const command = "UTILITIES"

// Handler serves the UTILITIES family. Its aliases pass their own name as
// the first argument.
type Handler struct {
	json   *JSONWriter
	logger *grablog.Logger
}

// New creates the utilities handler. JSON files are written below
// outputDir.
func New(outputDir string, logger *grablog.Logger) *Handler {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	logger = logger.WithField("component", "utilities")
	return &Handler{json: NewJSONWriter(outputDir, logger), logger: logger}
}

// Execute dispatches on the leading command name
func (h *Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) < 1 {
		return grabvalue.Null(), cmdutil.ArgError(command, "missing command. Available: COUNT, JSON, SAVE, USE")
	}

	name, rest := args[0].Upper(), args[1:]
	switch name {
	case "SAVE":
		return h.save(rest, env)
	case "USE":
		return h.use(rest, env)
	case "COUNT":
		return h.count(rest, env)
	case "JSON":
		return h.json.Write(rest, env)
	default:
		return grabvalue.Null(), cmdutil.ArgError(command, "unknown command '%s'. Available: COUNT, JSON, SAVE, USE", args[0].Text)
	}
}

// save copies _last_result into a variable
func (h *Handler) save(args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity("SAVE", args, 1, 1, "SAVE name"); err != nil {
		return grabvalue.Null(), err
	}
	if args[0].IsLiteral() {
		return grabvalue.Null(), cmdutil.ArgError("SAVE", "variable name must not be quoted")
	}
	last, err := cmdutil.LastResult("SAVE", env)
	if err != nil {
		return grabvalue.Null(), err
	}

	env.Set(args[0].Text, last)
	h.logger.Debug("result saved", grablog.Fields{"variable": args[0].Text, "kind": last.Kind().String()})
	return grabvalue.Null(), nil
}

// use makes a variable the current result. A page becomes the document
// later selections search.
func (h *Handler) use(args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity("USE", args, 1, 1, "USE name"); err != nil {
		return grabvalue.Null(), err
	}
	name := args[0].Text
	v, err := cmdutil.Variable("USE", name, env)
	if err != nil {
		return grabvalue.Null(), err
	}

	if v.Kind() == grabvalue.KindDocument {
		env.Set(grabvalue.OriginalHTML, v)
	} else if !env.Has(grabvalue.OriginalHTML) {
		for _, other := range env.UserNames() {
			if doc := env.Lookup(other); doc.Kind() == grabvalue.KindDocument {
				env.Set(grabvalue.OriginalHTML, doc)
				h.logger.Debug("page context restored", grablog.Fields{"from": other})
				break
			}
		}
	}

	h.logger.Debug("variable in use", grablog.Fields{"variable": name, "kind": v.Kind().String()})
	return v, nil
}

// count measures a variable, or _last_result without arguments
func (h *Handler) count(args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity("COUNT", args, 0, 1, "COUNT [name]"); err != nil {
		return grabvalue.Null(), err
	}

	var v grabvalue.Value
	var err error
	if len(args) == 0 {
		v, err = cmdutil.LastResult("COUNT", env)
	} else {
		v, err = cmdutil.Variable("COUNT", args[0].Text, env)
	}
	if err != nil {
		return grabvalue.Null(), err
	}
	return grabvalue.Int(Count(v)), nil
}

// Count returns the size of a value: items of lists, runes of text, 0 for
// Null and 1 for anything else
func Count(v grabvalue.Value) int {
	if v.IsNull() {
		return 0
	}
	if n, ok := v.Len(); ok {
		return n
	}
	return 1
}
