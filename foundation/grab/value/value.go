// File: value.go
// Title: Script Runtime Values
// Description: Defines Value, the closed variant stored in the script
//              environment: documents, element sets, single elements,
//              text, text lists, numbers, booleans and null.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial value model

package value

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msto63/grab/pkg/dom"
)

// Kind identifies the shape of a Value
type Kind int

const (
	KindNull Kind = iota
	KindDocument
	KindNodeSet
	KindNode
	KindText
	KindTextList
	KindNumber
	KindBoolean
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindDocument:
		return "Document"
	case KindNodeSet:
		return "NodeSet"
	case KindNode:
		return "Node"
	case KindText:
		return "Text"
	case KindTextList:
		return "TextList"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Value is an immutable tagged value. The zero Value is Null.
type Value struct {
	kind  Kind
	doc   *dom.Document
	nodes []*dom.Node
	node  *dom.Node
	text  string
	list  []string
	num   float64
	flag  bool
}

// Null returns the null value
func Null() Value { return Value{} }

// Document wraps a parsed page. A nil document yields Null.
func Document(d *dom.Document) Value {
	if d == nil {
		return Null()
	}
	return Value{kind: KindDocument, doc: d}
}

// NodeSet wraps a list of elements; the slice is copied
func NodeSet(nodes []*dom.Node) Value {
	out := make([]*dom.Node, len(nodes))
	copy(out, nodes)
	return Value{kind: KindNodeSet, nodes: out}
}

// Node wraps a single element. A nil node yields Null.
func Node(n *dom.Node) Value {
	if n == nil {
		return Null()
	}
	return Value{kind: KindNode, node: n}
}

// Text wraps a string
func Text(s string) Value { return Value{kind: KindText, text: s} }

// TextList wraps a list of strings; the slice is copied
func TextList(items []string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{kind: KindTextList, list: out}
}

// Number wraps a float
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int wraps an integer as a Number
func Int(i int) Value { return Number(float64(i)) }

// Boolean wraps a bool
func Boolean(b bool) Value { return Value{kind: KindBoolean, flag: b} }

// Kind returns the kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is Null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsDocument returns the wrapped document
func (v Value) AsDocument() (*dom.Document, bool) { return v.doc, v.kind == KindDocument }

// AsNodes returns the wrapped element list
func (v Value) AsNodes() ([]*dom.Node, bool) { return v.nodes, v.kind == KindNodeSet }

// AsNode returns the wrapped element
func (v Value) AsNode() (*dom.Node, bool) { return v.node, v.kind == KindNode }

// AsText returns the wrapped string
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsTextList returns the wrapped strings
func (v Value) AsTextList() ([]string, bool) { return v.list, v.kind == KindTextList }

// AsBool returns the wrapped boolean
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBoolean }

// AsNumber returns the numeric value of a Number, or of a Text holding a
// number
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt returns the value as an integer when it holds a whole number
func (v Value) AsInt() (int, bool) {
	f, ok := v.AsNumber()
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Searcher returns the value as a document or element that can be queried
func (v Value) Searcher() (dom.Searcher, bool) {
	switch v.kind {
	case KindDocument:
		return v.doc, true
	case KindNode:
		return v.node, true
	default:
		return nil, false
	}
}

// Len returns the length of sized values: element and text lists by item
// count, text by rune count. Other kinds have no length.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindNodeSet:
		return len(v.nodes), true
	case KindTextList:
		return len(v.list), true
	case KindText:
		return utf8.RuneCountInString(v.text), true
	default:
		return 0, false
	}
}

// Truthy reports the boolean sense of a value
func (v Value) Truthy() bool {
	if n, ok := v.Len(); ok {
		return n > 0
	}
	switch v.kind {
	case KindNull:
		return false
	case KindNumber:
		return v.num != 0
	case KindBoolean:
		return v.flag
	default:
		return true
	}
}

// Items returns the elements a FOR loop visits. Element sets and text lists
// yield their members; any other value, Null included, is a single item.
func (v Value) Items() []Value {
	switch v.kind {
	case KindNodeSet:
		out := make([]Value, len(v.nodes))
		for i, n := range v.nodes {
			out[i] = Node(n)
		}
		return out
	case KindTextList:
		out := make([]Value, len(v.list))
		for i, s := range v.list {
			out[i] = Text(s)
		}
		return out
	default:
		return []Value{v}
	}
}

// String returns the textual form used by conditions and output
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindDocument:
		return v.doc.HTML()
	case KindNode:
		return v.node.HTML()
	case KindNodeSet:
		parts := make([]string, len(v.nodes))
		for i, n := range v.nodes {
			parts[i] = n.HTML()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindText:
		return v.text
	case KindTextList:
		parts := make([]string, len(v.list))
		for i, s := range v.list {
			parts[i] = "'" + s + "'"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindNumber:
		return FormatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// FormatNumber prints integral values without a fraction
func FormatNumber(f float64) string {
	if math.Abs(f) < 1e15 && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Native returns the value as plain Go data for serialization: nil, string,
// []string, float64 or bool. Documents and elements return themselves.
func (v Value) Native() interface{} {
	switch v.kind {
	case KindDocument:
		return v.doc
	case KindNodeSet:
		return v.nodes
	case KindNode:
		return v.node
	case KindText:
		return v.text
	case KindTextList:
		return v.list
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.flag
	default:
		return nil
	}
}
