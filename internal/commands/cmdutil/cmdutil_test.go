package cmdutil

import (
	"strings"
	"testing"

	graberror "github.com/msto63/grab/foundation/core/error"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/pkg/dom"
)

func TestUnboundListsUserVariables(t *testing.T) {
	env := grabvalue.NewEnvironment()
	env.Set("b", grabvalue.Text("x"))
	env.Set("a", grabvalue.Int(1))
	env.Set(grabvalue.LastResult, grabvalue.Int(2))

	err := Unbound("PRINT", "missing", env)
	if !graberror.HasCode(err, graberror.CodeUnboundVariable) {
		t.Errorf("Unbound() code = %v, want %v", graberror.GetCode(err), graberror.CodeUnboundVariable)
	}
	want := "PRINT: variable 'missing' not found. Available: a, b"
	if err.Error() != want {
		t.Errorf("Unbound() = %q, want %q", err.Error(), want)
	}

	empty := Unbound("USE", "x", grabvalue.NewEnvironment())
	if !strings.Contains(empty.Error(), "No variables defined") {
		t.Errorf("Unbound() on empty env = %q, want mention of no variables", empty.Error())
	}
}

func TestArity(t *testing.T) {
	args := []grabregistry.Argument{grabregistry.Ident("a"), grabregistry.Ident("b")}
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{"exact", 2, 2, false},
		{"unbounded", 1, -1, false},
		{"too few", 3, 3, true},
		{"too many", 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Arity("X", args, tt.min, tt.max, "X a b")
			if (err != nil) != tt.wantErr {
				t.Errorf("Arity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !graberror.HasCode(err, graberror.CodeCommandArgument) {
				t.Errorf("Arity() code = %v, want %v", graberror.GetCode(err), graberror.CodeCommandArgument)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	env := grabvalue.NewEnvironment()
	env.Set("url", grabvalue.Text("https://example.org"))

	v, err := Resolve("X", grabregistry.Literal("url"), env)
	if err != nil || v.String() != "url" {
		t.Errorf("Resolve(literal) = %v, %v, want url", v, err)
	}
	v, err = Resolve("X", grabregistry.Ident("url"), env)
	if err != nil || v.String() != "https://example.org" {
		t.Errorf("Resolve(ident) = %v, %v, want https://example.org", v, err)
	}
	if _, err := Resolve("X", grabregistry.Ident("nope"), env); !graberror.HasCode(err, graberror.CodeUnboundVariable) {
		t.Errorf("Resolve(unbound) error = %v, want unbound variable", err)
	}
}

func TestIndex(t *testing.T) {
	env := grabvalue.NewEnvironment()
	env.Set("n", grabvalue.Int(3))
	env.Set("half", grabvalue.Number(1.5))

	tests := []struct {
		name    string
		arg     grabregistry.Argument
		want    int
		wantErr bool
	}{
		{"number", grabregistry.Ident("2"), 2, false},
		{"quoted number", grabregistry.Literal("4"), 4, false},
		{"variable", grabregistry.Ident("n"), 3, false},
		{"zero", grabregistry.Ident("0"), 0, true},
		{"negative", grabregistry.Ident("-1"), 0, true},
		{"fraction variable", grabregistry.Ident("half"), 0, true},
		{"word", grabregistry.Ident("abc"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Index("SELECT ONCE", tt.arg, env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Index() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Index() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSource(t *testing.T) {
	page, err := dom.ParseString(`<div><p>x</p></div>`, "")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	other, _ := dom.ParseString(`<span>y</span>`, "")

	env := grabvalue.NewEnvironment()
	if _, ok := Source(env); ok {
		t.Error("Source() on empty env should fail")
	}
	if _, err := RequireSource("SELECT", env); err == nil {
		t.Error("RequireSource() on empty env should fail")
	}

	env.Set(grabvalue.LastResult, grabvalue.Document(other))
	src, ok := Source(env)
	if !ok || src != dom.Searcher(other) {
		t.Error("Source() should fall back to a document in _last_result")
	}

	env.Set(grabvalue.OriginalHTML, grabvalue.Document(page))
	src, ok = Source(env)
	if !ok || src != dom.Searcher(page) {
		t.Error("Source() should prefer _original_html")
	}
}

func TestTextAndClasses(t *testing.T) {
	doc, _ := dom.ParseString(`<div class=" a  b "> Hello <b>big</b>
	world </div>`, "")
	n, _ := doc.Find("div")

	if got := Text(n); got != "Hellobigworld" {
		t.Errorf("Text() = %q, want %q", got, "Hellobigworld")
	}
	if got := strings.Join(Classes(n), ","); got != "a,b" {
		t.Errorf("Classes() = %q, want %q", got, "a,b")
	}
}
