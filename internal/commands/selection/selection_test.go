package selection

import (
	"context"
	"testing"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/pkg/dom"
)

const page = `<html><body>
<ul>
  <li class="item">one</li>
  <li class="item active">two</li>
  <li class="item">three</li>
</ul>
<p>text</p>
</body></html>`

func newEnv(t *testing.T) *grabvalue.Environment {
	t.Helper()
	doc, err := dom.ParseString(page, "https://example.org/")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	env := grabvalue.NewEnvironment()
	env.Set(grabvalue.OriginalHTML, grabvalue.Document(doc))
	return env
}

func args(words ...string) []grabregistry.Argument {
	out := make([]grabregistry.Argument, len(words))
	for i, w := range words {
		out[i] = grabregistry.Ident(w)
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		args     []grabregistry.Argument
		wantKind grabvalue.Kind
		wantLen  int    // NodeSet length
		wantText string // Node text
		wantErr  bool
	}{
		{"all", []grabregistry.Argument{grabregistry.Ident("ALL"), grabregistry.Literal("li.item")}, grabvalue.KindNodeSet, 3, "", false},
		{"all empty", args("ALL", "table"), grabvalue.KindNodeSet, 0, "", false},
		{"first", args("FIRST", "li"), grabvalue.KindNode, 0, "one", false},
		{"last", args("LAST", "li"), grabvalue.KindNode, 0, "three", false},
		{"once", args("ONCE", "li", "2"), grabvalue.KindNode, 0, "two", false},
		{"lower case subcommand", args("first", "p"), grabvalue.KindNode, 0, "text", false},
		{"first none", args("FIRST", "table"), grabvalue.KindNull, 0, "", true},
		{"once too high", args("ONCE", "li", "4"), grabvalue.KindNull, 0, "", true},
		{"once zero", args("ONCE", "li", "0"), grabvalue.KindNull, 0, "", true},
		{"once not a number", args("ONCE", "li", "x"), grabvalue.KindNull, 0, "", true},
		{"unknown subcommand", args("SOME", "li"), grabvalue.KindNull, 0, "", true},
		{"missing selector", args("ALL"), grabvalue.KindNull, 0, "", true},
		{"invalid selector", []grabregistry.Argument{grabregistry.Ident("ALL"), grabregistry.Literal("li[")}, grabvalue.KindNull, 0, "", true},
	}

	h := New(grablog.Discard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			got, err := h.Execute(context.Background(), tt.args, env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !graberror.HasCode(err, graberror.CodeCommandArgument) {
					t.Errorf("Execute() code = %v, want %v", graberror.GetCode(err), graberror.CodeCommandArgument)
				}
				return
			}
			if got.Kind() != tt.wantKind {
				t.Fatalf("Execute() kind = %v, want %v", got.Kind(), tt.wantKind)
			}
			switch got.Kind() {
			case grabvalue.KindNodeSet:
				if n, _ := got.Len(); n != tt.wantLen {
					t.Errorf("Execute() len = %d, want %d", n, tt.wantLen)
				}
			case grabvalue.KindNode:
				n, _ := got.AsNode()
				if n.Text() != tt.wantText {
					t.Errorf("Execute() text = %q, want %q", n.Text(), tt.wantText)
				}
			}
		})
	}
}

func TestSelectSetsCurrentSoup(t *testing.T) {
	env := newEnv(t)
	if _, err := New(grablog.Discard()).Execute(context.Background(), args("ALL", "li"), env); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if env.Lookup(grabvalue.CurrentSoup).Kind() != grabvalue.KindDocument {
		t.Errorf("_current_soup kind = %v, want Document", env.Lookup(grabvalue.CurrentSoup).Kind())
	}
}

func TestSelectFromElementResult(t *testing.T) {
	doc, _ := dom.ParseString(page, "")
	ul, _ := doc.Find("ul")

	env := grabvalue.NewEnvironment()
	env.Set(grabvalue.LastResult, grabvalue.Node(ul))

	got, err := New(grablog.Discard()).Execute(context.Background(), args("ALL", "li"), env)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if n, _ := got.Len(); n != 3 {
		t.Errorf("Execute() len = %d, want 3", n)
	}
}

func TestSelectWithoutPage(t *testing.T) {
	env := grabvalue.NewEnvironment()
	env.Set(grabvalue.LastResult, grabvalue.Text("not a page"))

	_, err := New(grablog.Discard()).Execute(context.Background(), args("ALL", "li"), env)
	if err == nil {
		t.Fatal("Execute() without a page should fail")
	}
}
