package filtering

import (
	"regexp"
	"strings"

	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

// Op is a filter comparison
type Op int

const (
	OpContains Op = iota + 1
	OpMatches
	OpEquals
	OpNotEquals
	OpNull
	OpNotNull
)

// String returns the script spelling of the operator
func (o Op) String() string {
	switch o {
	case OpContains:
		return "CONTAINS"
	case OpMatches:
		return "MATCHES"
	case OpEquals:
		return "="
	case OpNotEquals:
		return "!="
	case OpNull:
		return "NULL"
	case OpNotNull:
		return "NOT NULL"
	default:
		return "?"
	}
}

// Condition is one parsed WHERE clause
type Condition struct {
	Field     string // class, text, id or an attribute name
	ParentTag string // set for parent conditions
	Op        Op
	Value     string
	pattern   *regexp.Regexp
}

// ParseCondition reads the arguments following WHERE:
//
//	field OP value
//	attr NAME OP value
//	parent TAG FIELD OP value
//
// NULL and NOT NULL take no value.
func ParseCondition(label string, args []grabregistry.Argument) (*Condition, error) {
	if len(args) < 2 {
		return nil, cmdutil.ArgError(label, "incomplete condition. Examples: class CONTAINS \"active\", text MATCHES \"^[0-9]+$\"")
	}

	c := &Condition{}
	field := strings.ToLower(args[0].Text)
	rest := args[1:]

	switch {
	case field == "parent" && !args[0].IsLiteral():
		if len(rest) < 3 {
			return nil, cmdutil.ArgError(label, "incomplete parent condition. Usage: parent TAG FIELD OP value")
		}
		c.ParentTag = strings.ToLower(rest[0].Text)
		field = strings.ToLower(rest[1].Text)
		rest = rest[2:]
	case field == "attr" && !args[0].IsLiteral():
		if len(rest) < 2 {
			return nil, cmdutil.ArgError(label, "incomplete attr condition. Usage: attr NAME OP value")
		}
		field = strings.ToLower(rest[0].Text)
		rest = rest[1:]
	}
	c.Field = field

	op := rest[0].Upper()
	switch op {
	case "CONTAINS":
		c.Op = OpContains
	case "MATCHES":
		c.Op = OpMatches
	case "=", "==", "EQUALS":
		c.Op = OpEquals
	case "!=":
		c.Op = OpNotEquals
	case "NULL":
		c.Op = OpNull
	case "NOT":
		if len(rest) < 2 || !rest[1].Is("NULL") {
			return nil, cmdutil.ArgError(label, "NOT must be followed by NULL")
		}
		c.Op = OpNotNull
		rest = rest[1:]
	default:
		return nil, cmdutil.ArgError(label, "unknown operator '%s'. Available: CONTAINS, MATCHES, =, !=, NULL, NOT NULL", rest[0].Text)
	}
	rest = rest[1:]

	if c.Op == OpNull || c.Op == OpNotNull {
		if len(rest) > 0 {
			return nil, cmdutil.ArgError(label, "%s takes no value", c.Op)
		}
		return c, nil
	}

	if len(rest) != 1 {
		return nil, cmdutil.ArgError(label, "%s needs exactly one value", c.Op)
	}
	c.Value = rest[0].Text
	if c.Op == OpMatches {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return nil, cmdutil.ArgError(label, "invalid pattern '%s': %v", c.Value, err)
		}
		c.pattern = re
	}
	return c, nil
}

// Match reports whether n satisfies the condition. A parent condition holds
// when any enclosing element with the tag does.
func (c *Condition) Match(n *dom.Node) bool {
	if c.ParentTag == "" {
		return c.test(fieldOf(n, c.Field))
	}
	for _, p := range n.Ancestors(c.ParentTag) {
		if c.test(fieldOf(p, c.Field)) {
			return true
		}
	}
	return false
}

func (c *Condition) test(value string, present bool) bool {
	switch c.Op {
	case OpNull:
		return !present
	case OpNotNull:
		return present
	case OpNotEquals:
		return !present || value == "" || value != c.Value
	}

	if !present || value == "" {
		return false
	}
	switch c.Op {
	case OpContains:
		needle := strings.Trim(c.Value, `"'`)
		return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
	case OpMatches:
		return c.pattern.MatchString(value)
	case OpEquals:
		return value == c.Value
	default:
		return false
	}
}

// fieldOf returns the value a condition field names. class and text are
// always present.
func fieldOf(n *dom.Node, field string) (string, bool) {
	switch field {
	case "class":
		return strings.Join(cmdutil.Classes(n), " "), true
	case "text":
		return cmdutil.Text(n), true
	default:
		return n.Attr(field)
	}
}
