// File: condition.go
// Title: Condition Evaluator
// Description: Interprets the raw text of IF and WHILE conditions. The
//              grammar is a fixed, ordered list of suffix and infix
//              operators matched on substrings; the first match wins and
//              text matching no form evaluates to false.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial evaluator

package condition

import (
	"strconv"
	"strings"
	"unicode/utf8"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
)

// Op is a condition operator
type Op string

const (
	OpNone      Op = ""
	OpNotExists Op = "NOT EXISTS"
	OpExists    Op = "EXISTS"
	OpNotEmpty  Op = "NOT EMPTY"
	OpEmpty     Op = "EMPTY"
	OpEquals    Op = "EQUALS"
	OpContains  Op = "CONTAINS"
	OpGreater   Op = "GREATER"
	OpLess      Op = "LESS"
)

// Suffix forms in match order. NOT EXISTS and NOT EMPTY come before their
// shorter counterparts.
var suffixOps = []Op{OpNotExists, OpExists, OpNotEmpty, OpEmpty}

// Infix forms in match order
var infixOps = []Op{OpEquals, OpContains, OpGreater, OpLess}

// Expr is one recognized condition form
type Expr struct {
	Op    Op
	Left  string // variable name
	Right string // literal, quotes stripped; empty for suffix forms
}

// Evaluator evaluates condition text against an environment
type Evaluator struct {
	logger *grablog.Logger
}

// New creates an evaluator. A nil logger discards output.
func New(logger *grablog.Logger) *Evaluator {
	if logger == nil {
		logger = grablog.Discard()
	}
	return &Evaluator{logger: logger.WithField("component", "grab-condition")}
}

// Parse returns the first suffix form matching text, or the infix forms
// that split it, in match order. Infix candidates are returned all at once
// because the choice among them depends on which left side is bound.
func Parse(text string) []Expr {
	cond := strings.TrimSpace(text)

	for _, op := range suffixOps {
		if suffix := " " + string(op); strings.HasSuffix(cond, suffix) {
			return []Expr{{Op: op, Left: strings.TrimSpace(strings.TrimSuffix(cond, suffix))}}
		}
	}

	var out []Expr
	for _, op := range infixOps {
		left, right, found := strings.Cut(cond, " "+string(op)+" ")
		if !found {
			continue
		}
		out = append(out, Expr{
			Op:    op,
			Left:  strings.TrimSpace(left),
			Right: strings.Trim(strings.TrimSpace(right), `"'`),
		})
	}
	return out
}

// Evaluate reports whether the condition holds. Unrecognized text is false.
func (e *Evaluator) Evaluate(text string, env *grabvalue.Environment) bool {
	for _, expr := range Parse(text) {
		if result, ok := e.eval(expr, env); ok {
			e.logger.Trace("condition evaluated", grablog.Fields{
				"condition": text,
				"op":        string(expr.Op),
				"result":    result,
			})
			return result
		}
	}

	e.logger.Debug("condition not recognized, evaluating to false", grablog.Fields{
		"condition": text,
	})
	return false
}

// eval applies one form. ok is false when an infix form does not apply
// because its left side is unbound.
func (e *Evaluator) eval(expr Expr, env *grabvalue.Environment) (result, ok bool) {
	v, bound := env.Get(expr.Left)

	switch expr.Op {
	case OpNotExists:
		return !bound, true
	case OpExists:
		return bound, true
	case OpNotEmpty:
		return bound && nonEmpty(v), true
	case OpEmpty:
		return !bound || !nonEmpty(v), true
	}

	if !bound {
		return false, false
	}

	left := v.String()
	switch expr.Op {
	case OpEquals:
		return left == expr.Right, true
	case OpContains:
		return strings.Contains(left, expr.Right), true
	case OpGreater:
		return compare(v, expr.Right) > 0, true
	case OpLess:
		return compare(v, expr.Right) < 0, true
	default:
		return false, false
	}
}

func nonEmpty(v grabvalue.Value) bool {
	if n, ok := v.Len(); ok {
		return n > 0
	}
	return v.Truthy()
}

// compare orders numerically when both sides are numbers, otherwise by the
// rune length of their string forms
func compare(v grabvalue.Value, right string) int {
	l, lok := v.AsNumber()
	r, err := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if lok && err == nil {
		switch {
		case l > r:
			return 1
		case l < r:
			return -1
		default:
			return 0
		}
	}
	return utf8.RuneCountInString(v.String()) - utf8.RuneCountInString(right)
}
