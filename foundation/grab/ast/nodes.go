// File: nodes.go
// Title: Script Abstract Syntax Tree
// Description: Defines the AST produced by the parser. A single generic Node
//              type carries a kind, an optional value, ordered children and
//              the source line it came from; helpers give typed access to
//              the children of each statement kind.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial AST for the scraping script language

package ast

import (
	"fmt"
	"strings"
)

// Kind identifies the syntactic role of a Node
type Kind int

const (
	KindProgram Kind = iota
	KindCommand
	KindIf
	KindFor
	KindWhile
	KindBlock
	KindCondition
	KindForCondition
	KindStringLiteral
	KindIdentifier
	KindOperator
	KindRange
	KindVariableRef
	// KindElif and KindElse hold branches attached to an IF. They are kept
	// in the tree but not executed.
	KindElif
	KindElse
)

var kindNames = map[Kind]string{
	KindProgram:       "Program",
	KindCommand:       "Command",
	KindIf:            "IfStatement",
	KindFor:           "ForStatement",
	KindWhile:         "WhileStatement",
	KindBlock:         "Block",
	KindCondition:     "Condition",
	KindForCondition:  "ForCondition",
	KindStringLiteral: "StringLiteral",
	KindIdentifier:    "Identifier",
	KindOperator:      "Operator",
	KindRange:         "Range",
	KindVariableRef:   "VariableRef",
	KindElif:          "ElifClause",
	KindElse:          "ElseClause",
}

// String returns the name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind name in JSON and YAML dumps
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", text)
}

// IsStatement reports whether nodes of this kind can appear in a Block
func (k Kind) IsStatement() bool {
	switch k {
	case KindCommand, KindIf, KindFor, KindWhile:
		return true
	default:
		return false
	}
}

// Node is one element of the syntax tree
type Node struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Value    string  `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Line     int     `json:"line" yaml:"line"`
}

// New creates a node
func New(kind Kind, value string, line int, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Line: line, Children: children}
}

// Append adds children and returns the node
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the i-th child or nil
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// FirstOf returns the first child of the given kind or nil
func (n *Node) FirstOf(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Condition returns the condition of an IF, ELIF or WHILE node, or the
// ForCondition of a FOR node
func (n *Node) Condition() *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindFor {
		return n.FirstOf(KindForCondition)
	}
	return n.FirstOf(KindCondition)
}

// Body returns the block of a control statement or clause
func (n *Node) Body() *Node {
	return n.FirstOf(KindBlock)
}

// Arguments returns the argument nodes of a Command
func (n *Node) Arguments() []*Node {
	if n == nil || n.Kind != KindCommand {
		return nil
	}
	return n.Children
}

// String renders the node in a compact single-line form
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindStringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case KindIdentifier, KindOperator, KindVariableRef:
		return n.Value
	case KindRange:
		return "RANGE " + n.Value
	case KindCommand:
		parts := []string{n.Value}
		for _, c := range n.Children {
			parts = append(parts, c.String())
		}
		return strings.Join(parts, " ")
	case KindCondition:
		return n.Value
	case KindForCondition:
		parts := make([]string, 0, len(n.Children)+1)
		for i, c := range n.Children {
			if i == 1 {
				parts = append(parts, "IN")
			}
			parts = append(parts, c.String())
		}
		return strings.Join(parts, " ")
	case KindIf, KindWhile, KindFor, KindElif:
		return fmt.Sprintf("%s %s { ... }", strings.ToUpper(n.keyword()), n.Condition())
	case KindElse:
		return "ELSE { ... }"
	case KindBlock:
		return fmt.Sprintf("{ %d statement(s) }", len(n.Children))
	default:
		return fmt.Sprintf("%s(%d)", n.Kind, len(n.Children))
	}
}

func (n *Node) keyword() string {
	switch n.Kind {
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	case KindFor:
		return "for"
	case KindElif:
		return "elif"
	default:
		return n.Kind.String()
	}
}

// Dump renders the tree with one node per line, indented by depth
func (n *Node) Dump() string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if n.Value != "" {
		fmt.Fprintf(b, " %q", n.Value)
	}
	fmt.Fprintf(b, " @%d\n", n.Line)
	for _, c := range n.Children {
		dump(b, c, depth+1)
	}
}
