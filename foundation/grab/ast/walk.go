// File: walk.go
// Title: AST Traversal
// Description: Depth-first traversal helpers over the syntax tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial implementation

package ast

// Visitor is called for every node in pre-order. Returning false skips the
// children of the node.
type Visitor func(n *Node, depth int) bool

// Walk traverses the tree rooted at n
func Walk(n *Node, visit Visitor) {
	walk(n, 0, visit)
}

func walk(n *Node, depth int, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, visit)
	}
}

// Stats summarizes a program
type Stats struct {
	Statements int
	Commands   int
	Controls   int
	MaxDepth   int
}

// Collect computes statistics over the tree rooted at n
func Collect(n *Node) Stats {
	var s Stats
	Walk(n, func(node *Node, depth int) bool {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		switch node.Kind {
		case KindCommand:
			s.Statements++
			s.Commands++
		case KindIf, KindFor, KindWhile:
			s.Statements++
			s.Controls++
		}
		return true
	})
	return s
}
