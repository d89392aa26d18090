// Package cmdutil holds the argument and environment helpers shared by the
// built-in command families.
package cmdutil

import (
	"strconv"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/pkg/dom"
)

// ArgError reports a malformed or unusable command argument
func ArgError(command, format string, args ...interface{}) *graberror.Error {
	return graberror.Newf(command+": "+format, args...).
		WithCode(graberror.CodeCommandArgument).
		WithOperation(command).
		WithDetail("command", command)
}

// Unbound reports a variable that is not in the environment, listing the
// user variables that are
func Unbound(command, name string, env *grabvalue.Environment) *graberror.Error {
	available := env.UserNames()
	msg := command + ": variable '" + name + "' not found"
	if len(available) > 0 {
		msg += ". Available: " + strings.Join(available, ", ")
	} else {
		msg += ". No variables defined"
	}
	return graberror.New(msg).
		WithCode(graberror.CodeUnboundVariable).
		WithOperation(command).
		WithDetail("command", command).
		WithDetail("variable", name).
		WithDetail("available", available)
}

// Arity checks the number of arguments; max < 0 means unbounded
func Arity(command string, args []grabregistry.Argument, min, max int, usage string) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return ArgError(command, "wrong number of arguments (%d). Usage: %s", len(args), usage)
	}
	return nil
}

// Variable returns the value bound to name
func Variable(command, name string, env *grabvalue.Environment) (grabvalue.Value, error) {
	v, ok := env.Get(name)
	if !ok {
		return grabvalue.Null(), Unbound(command, name, env)
	}
	return v, nil
}

// Resolve returns a literal argument as Text and looks a bare word up as a
// variable
func Resolve(command string, arg grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if arg.IsLiteral() {
		return grabvalue.Text(arg.Text), nil
	}
	return Variable(command, arg.Text, env)
}

// LastResult returns _last_result or an error naming command
func LastResult(command string, env *grabvalue.Environment) (grabvalue.Value, error) {
	v, ok := env.Get(grabvalue.LastResult)
	if !ok || v.IsNull() {
		return grabvalue.Null(), ArgError(command, "no previous result to work on")
	}
	return v, nil
}

// Source returns the document commands search: the loaded page, otherwise
// a document or element left in _last_result
func Source(env *grabvalue.Environment) (dom.Searcher, bool) {
	if doc, ok := env.Lookup(grabvalue.OriginalHTML).AsDocument(); ok {
		return doc, true
	}
	return env.Lookup(grabvalue.LastResult).Searcher()
}

// RequireSource is Source with a descriptive error
func RequireSource(command string, env *grabvalue.Environment) (dom.Searcher, error) {
	src, ok := Source(env)
	if !ok {
		return nil, ArgError(command, "no page loaded. Use LOAD URL first")
	}
	return src, nil
}

// Elements returns the elements of a NodeSet or Node value
func Elements(command string, v grabvalue.Value) ([]*dom.Node, error) {
	switch v.Kind() {
	case grabvalue.KindNodeSet:
		nodes, _ := v.AsNodes()
		return nodes, nil
	case grabvalue.KindNode:
		n, _ := v.AsNode()
		return []*dom.Node{n}, nil
	default:
		return nil, ArgError(command, "expected HTML elements, got %s", v.Kind())
	}
}

// Index parses a 1-based position from a number or from a variable holding
// one
func Index(command string, arg grabregistry.Argument, env *grabvalue.Environment) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg.Text))
	if err != nil && !arg.IsLiteral() {
		if v, ok := env.Get(arg.Text); ok {
			if i, ok := v.AsInt(); ok {
				n, err = i, nil
			}
		}
	}
	if err != nil {
		return 0, ArgError(command, "index must be an integer, got '%s'", arg.Text)
	}
	if n < 1 {
		return 0, ArgError(command, "index must be greater than 0, got %d", n)
	}
	return n, nil
}

// Text returns the text of an element with each segment trimmed and
// concatenated
func Text(n *dom.Node) string {
	return strings.Join(n.StrippedStrings(), "")
}

// Classes returns the class attribute as a space separated list
func Classes(n *dom.Node) []string {
	class, _ := n.Attr("class")
	return strings.Fields(class)
}
