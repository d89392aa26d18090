// File: value_test.go
// Title: Value and Environment Tests
// Description: Tests for value kinds, lengths, truthiness, iteration,
//              string forms and environment bookkeeping.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial tests

package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/grab/pkg/dom"
)

func sampleNodes(t *testing.T) []*dom.Node {
	t.Helper()
	doc, err := dom.ParseString(`<ul><li>a</li><li>b</li></ul>`, "")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	nodes, err := doc.FindAll("li")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	return nodes
}

func TestValueString(t *testing.T) {
	nodes := sampleNodes(t)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"zero value", Value{}, "null"},
		{"integral number", Int(3), "3"},
		{"fraction", Number(2.5), "2.5"},
		{"negative", Number(-4), "-4"},
		{"true", Boolean(true), "true"},
		{"false", Boolean(false), "false"},
		{"text", Text("hello"), "hello"},
		{"text list", TextList([]string{"a", "b"}), "['a', 'b']"},
		{"empty list", TextList(nil), "[]"},
		{"node", Node(nodes[0]), "<li>a</li>"},
		{"node set", NodeSet(nodes), "[<li>a</li>, <li>b</li>]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueLenAndTruthy(t *testing.T) {
	nodes := sampleNodes(t)

	tests := []struct {
		name       string
		v          Value
		wantLen    int
		wantSized  bool
		wantTruthy bool
	}{
		{"null", Null(), 0, false, false},
		{"empty text", Text(""), 0, true, false},
		{"text counts runes", Text("été"), 3, true, true},
		{"node set", NodeSet(nodes), 2, true, true},
		{"empty node set", NodeSet(nil), 0, true, false},
		{"text list", TextList([]string{"x"}), 1, true, true},
		{"zero", Int(0), 0, false, false},
		{"number", Int(7), 0, false, true},
		{"false", Boolean(false), 0, false, false},
		{"node", Node(nodes[0]), 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, sized := tt.v.Len()
			if n != tt.wantLen || sized != tt.wantSized {
				t.Errorf("Len() = %d, %v, want %d, %v", n, sized, tt.wantLen, tt.wantSized)
			}
			if got := tt.v.Truthy(); got != tt.wantTruthy {
				t.Errorf("Truthy() = %v, want %v", got, tt.wantTruthy)
			}
		})
	}
}

func TestValueItems(t *testing.T) {
	nodes := sampleNodes(t)

	items := NodeSet(nodes).Items()
	if len(items) != 2 || items[1].Kind() != KindNode {
		t.Fatalf("NodeSet.Items() = %v", items)
	}

	texts := TextList([]string{"a", "b", "c"}).Items()
	got := make([]string, len(texts))
	for i, it := range texts {
		got[i] = it.String()
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("TextList.Items() mismatch (-want +got):\n%s", diff)
	}

	for _, v := range []Value{Null(), Text("abc"), Int(4), Node(nodes[0])} {
		items := v.Items()
		if len(items) != 1 || items[0].Kind() != v.Kind() {
			t.Errorf("%v.Items() = %d items, want the value itself", v.Kind(), len(items))
		}
	}
}

func TestValueNumbers(t *testing.T) {
	tests := []struct {
		v      Value
		want   float64
		wantOK bool
	}{
		{Int(5), 5, true},
		{Text(" 12 "), 12, true},
		{Text("1.5"), 1.5, true},
		{Text("abc"), 0, false},
		{Boolean(true), 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.v.AsNumber()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("AsNumber(%v) = %v, %v, want %v, %v", tt.v, got, ok, tt.want, tt.wantOK)
		}
	}

	if _, ok := Text("2.5").AsInt(); ok {
		t.Error("AsInt(2.5) ok = true, want false")
	}
	if n, ok := Text("3").AsInt(); !ok || n != 3 {
		t.Errorf("AsInt(3) = %d, %v", n, ok)
	}
}

func TestValueConstructorsNil(t *testing.T) {
	if !Document(nil).IsNull() {
		t.Error("Document(nil) is not Null")
	}
	if !Node(nil).IsNull() {
		t.Error("Node(nil) is not Null")
	}
}

func TestValueCopiesSlices(t *testing.T) {
	items := []string{"a"}
	v := TextList(items)
	items[0] = "changed"
	if list, _ := v.AsTextList(); list[0] != "a" {
		t.Errorf("TextList shares its input slice")
	}
}

func TestSearcher(t *testing.T) {
	doc, _ := dom.ParseString(`<p>x</p>`, "")
	if _, ok := Document(doc).Searcher(); !ok {
		t.Error("Document.Searcher() ok = false")
	}
	if _, ok := Text("x").Searcher(); ok {
		t.Error("Text.Searcher() ok = true")
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()
	if env.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", env.Len())
	}

	env.Set("title", Text("t"))
	env.Set(LastResult, Int(1))
	env.Set("count", Int(2))

	if !env.Has("title") || env.Has("missing") {
		t.Error("Has() returned wrong result")
	}
	if v, ok := env.Get("count"); !ok || v.String() != "2" {
		t.Errorf("Get(count) = %v, %v", v, ok)
	}
	if !env.Lookup("missing").IsNull() {
		t.Error("Lookup(missing) is not Null")
	}

	if diff := cmp.Diff([]string{LastResult, "count", "title"}, env.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"count", "title"}, env.UserNames()); diff != "" {
		t.Errorf("UserNames() mismatch (-want +got):\n%s", diff)
	}

	env.Delete("title")
	if env.Has("title") || env.Len() != 2 {
		t.Errorf("Delete() left %v", env.Names())
	}
}
