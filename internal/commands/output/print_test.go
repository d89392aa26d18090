package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/style"
	"github.com/msto63/grab/pkg/dom"
)

const page = `<html><head><title>Shop</title></head><body>
<div class="item new">First item</div>
<div class="item">Second item</div>
<span>Third</span>
</body></html>`

func parse(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page, "https://shop.example/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestDescribe(t *testing.T) {
	doc := parse(t)
	divs, _ := doc.FindAll("div")

	tests := []struct {
		name  string
		value grabvalue.Value
		want  string
	}{
		{"document", grabvalue.Document(doc), "Page 'page': Shop"},
		{"node set", grabvalue.NodeSet(divs), "Result 'page': 2 element(s) <div>"},
		{"empty node set", grabvalue.NodeSet(nil), "Empty result 'page': no elements"},
		{"node", grabvalue.Node(divs[0]), "Element 'page': <div.item.new> 'First item'"},
		{"text list", grabvalue.TextList([]string{"a", "b"}), "List 'page': 2 item(s)"},
		{"text", grabvalue.Text("hello"), "Text 'page': 'hello'"},
		{"long text", grabvalue.Text(strings.Repeat("x", 120)), "Text 'page': '" + strings.Repeat("x", 100) + "...'"},
		{"number", grabvalue.Int(7), "Variable 'page': Number = 7"},
		{"boolean", grabvalue.Boolean(true), "Variable 'page': Boolean = true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe("page", tt.value); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	doc := parse(t)
	divs, _ := doc.FindAll("div")

	t.Run("node set", func(t *testing.T) {
		got := strings.Split(Dump("items", grabvalue.NodeSet(divs)), "\n")
		want := []string{
			"DEV - Variable 'items' (NodeSet):",
			"   Type: selection result",
			"   Element count: 2",
			"   Element types:",
			"     - <div>: 2",
			"   Preview (first 3):",
			"     1. <div.item.new> 'First item'",
			"     2. <div.item> 'Second item'",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("document", func(t *testing.T) {
		got := Dump("page", grabvalue.Document(doc))
		for _, line := range []string{"   Type: full HTML page", "   Title: Shop", "     - div: 2", "     - span: 1"} {
			if !strings.Contains(got, line) {
				t.Errorf("Dump() missing %q in:\n%s", line, got)
			}
		}
		if strings.Contains(got, "     - img:") {
			t.Errorf("Dump() lists absent elements:\n%s", got)
		}
	})

	t.Run("node", func(t *testing.T) {
		got := Dump("el", grabvalue.Node(divs[0]))
		for _, line := range []string{"   Tag: <div>", "     - class: item new", "   Text: 'First item'"} {
			if !strings.Contains(got, line) {
				t.Errorf("Dump() missing %q in:\n%s", line, got)
			}
		}
	})

	t.Run("text", func(t *testing.T) {
		want := "DEV - Variable 's' (Text):\n   Type: string\n   Length: 5 characters\n   Content: 'hello'"
		if got := Dump("s", grabvalue.Text("hello")); got != want {
			t.Errorf("Dump() = %q, want %q", got, want)
		}
	})
}

func TestPrint(t *testing.T) {
	doc := parse(t)

	tests := []struct {
		name string
		args []grabregistry.Argument
		want string
	}{
		{"literal", []grabregistry.Argument{grabregistry.Literal("Hello page")}, "[PRINT] Hello page\n"},
		{"variable", []grabregistry.Argument{grabregistry.Ident("title")}, "[PRINT] Text 'title': 'Shop'\n"},
		{"dev view", []grabregistry.Argument{grabregistry.Ident("dev"), grabregistry.Ident("page")}, "[PRINT] DEV - Variable 'page' (Document):\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			env := grabvalue.NewEnvironment()
			env.Set("title", grabvalue.Text("Shop"))
			env.Set("page", grabvalue.Document(doc))

			p := NewPrint(&buf, style.New(&buf, true), grablog.Discard())
			got, err := p.Execute(context.Background(), tt.args, env)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !got.IsNull() {
				t.Errorf("Execute() = %v, want Null", got.Kind())
			}
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Errorf("output = %q, want prefix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintErrors(t *testing.T) {
	tests := []struct {
		name string
		args []grabregistry.Argument
		code graberror.Code
	}{
		{"unbound variable", []grabregistry.Argument{grabregistry.Ident("missing")}, graberror.CodeUnboundVariable},
		{"no arguments", nil, graberror.CodeCommandArgument},
		{"bad format", []grabregistry.Argument{grabregistry.Ident("FULL"), grabregistry.Ident("x")}, graberror.CodeCommandArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrint(&buf, nil, grablog.Discard())
			_, err := p.Execute(context.Background(), tt.args, grabvalue.NewEnvironment())
			if !graberror.HasCode(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %v", err, tt.code)
			}
			if buf.Len() != 0 {
				t.Errorf("output = %q, want nothing", buf.String())
			}
		})
	}
}
