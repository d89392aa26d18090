// File: command.go
// Title: Command Contract
// Description: Defines the interface every script command implements and
//              the typed arguments the executor passes to it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial command contract

package registry

import (
	"context"
	"strconv"
	"strings"

	grabvalue "github.com/msto63/grab/foundation/grab/value"
)

// Command is a registered script operation. A command may read and write
// the environment directly; _last_result is written by the executor only.
type Command interface {
	Execute(ctx context.Context, args []Argument, env *grabvalue.Environment) (grabvalue.Value, error)
}

// CommandFunc adapts a function to the Command interface
type CommandFunc func(ctx context.Context, args []Argument, env *grabvalue.Environment) (grabvalue.Value, error)

// Execute calls f
func (f CommandFunc) Execute(ctx context.Context, args []Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	return f(ctx, args, env)
}

// ArgKind tells how an argument was written in the script
type ArgKind int

const (
	ArgString     ArgKind = iota // quoted literal
	ArgIdentifier                // bare word: subcommand, variable name or number
	ArgOperator                  // operator keyword such as WHERE
)

// String returns the kind name
func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgIdentifier:
		return "identifier"
	case ArgOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Argument is one command argument in its original surface form
type Argument struct {
	Kind ArgKind
	Text string
	Line int
}

// Literal creates a string literal argument
func Literal(text string) Argument { return Argument{Kind: ArgString, Text: text} }

// Ident creates a bare word argument
func Ident(text string) Argument { return Argument{Kind: ArgIdentifier, Text: text} }

// Operator creates an operator argument
func Operator(text string) Argument { return Argument{Kind: ArgOperator, Text: text} }

// IsLiteral reports whether the argument was quoted
func (a Argument) IsLiteral() bool { return a.Kind == ArgString }

// Upper returns the upper-cased text
func (a Argument) Upper() string { return strings.ToUpper(a.Text) }

// Is reports whether the argument is the bare word kw, ignoring case
func (a Argument) Is(kw string) bool {
	return !a.IsLiteral() && strings.EqualFold(a.Text, kw)
}

// String renders the argument as written; literals are quoted
func (a Argument) String() string {
	if a.IsLiteral() {
		return strconv.Quote(a.Text)
	}
	return a.Text
}

// Texts returns the text of each argument
func Texts(args []Argument) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Text
	}
	return out
}

// Join renders arguments separated by spaces
func Join(args []Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
