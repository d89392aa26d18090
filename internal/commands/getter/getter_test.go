package getter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/pkg/dom"
)

const page = `<html><body>
<a href="/one" class="nav  main">One</a>
<a href="/two">Two</a>
<a name="anchor">Three</a>
<p class="meta">Published 12/03/2024</p>
<p class="meta">No date here</p>
<p class="meta">Updated March 5, 2025</p>
<span>  </span>
</body></html>`

func newEnv(t *testing.T) (*grabvalue.Environment, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseString(page, "")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	env := grabvalue.NewEnvironment()
	env.Set(grabvalue.OriginalHTML, grabvalue.Document(doc))
	return env, doc
}

func words(ws ...string) []grabregistry.Argument {
	out := make([]grabregistry.Argument, len(ws))
	for i, w := range ws {
		out[i] = grabregistry.Ident(w)
	}
	return out
}

func run(t *testing.T, env *grabvalue.Environment, args ...string) (grabvalue.Value, error) {
	t.Helper()
	return New(grablog.Discard()).Execute(context.Background(), words(args...), env)
}

func TestGetText(t *testing.T) {
	env, doc := newEnv(t)
	links, _ := doc.FindAll("a")
	env.Set(grabvalue.LastResult, grabvalue.NodeSet(links))

	got, err := run(t, env, "TEXT")
	if err != nil {
		t.Fatalf("GET TEXT error = %v", err)
	}
	list, _ := got.AsTextList()
	if diff := cmp.Diff([]string{"One", "Two", "Three"}, list); diff != "" {
		t.Errorf("GET TEXT mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, env, "TEXT", "extra"); err == nil {
		t.Error("GET TEXT with arguments should fail")
	}
}

func TestGetAttr(t *testing.T) {
	env, doc := newEnv(t)
	links, _ := doc.FindAll("a")

	env.Set(grabvalue.LastResult, grabvalue.NodeSet(links))
	got, err := run(t, env, "ATTR", "href")
	if err != nil {
		t.Fatalf("GET ATTR error = %v", err)
	}
	list, _ := got.AsTextList()
	if diff := cmp.Diff([]string{"/one", "/two"}, list); diff != "" {
		t.Errorf("GET ATTR on NodeSet mismatch (-want +got):\n%s", diff)
	}

	env.Set(grabvalue.LastResult, grabvalue.Node(links[0]))
	got, err = run(t, env, "ATTR", "class")
	if err != nil {
		t.Fatalf("GET ATTR error = %v", err)
	}
	if s, _ := got.AsText(); s != "nav main" {
		t.Errorf("GET ATTR class = %q, want %q", s, "nav main")
	}

	env.Set(grabvalue.LastResult, grabvalue.Node(links[2]))
	got, err = run(t, env, "ATTR", "href")
	if err != nil || !got.IsNull() {
		t.Errorf("GET ATTR on missing attribute = %v, %v, want Null", got, err)
	}

	env.Set(grabvalue.LastResult, grabvalue.Text("x"))
	if _, err := run(t, env, "ATTR", "href"); err == nil {
		t.Error("GET ATTR on text should fail")
	}
}

func TestGetAttrPositional(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		wantNull bool
		wantErr  bool
	}{
		{"first", []string{"ATTR", "FIRST", "a", "href"}, "/one", false, false},
		{"last missing attribute", []string{"ATTR", "LAST", "a", "href"}, "", true, false},
		{"once", []string{"ATTR", "ONCE", "a", "2", "href"}, "/two", false, false},
		{"once too high", []string{"ATTR", "ONCE", "a", "9", "href"}, "", false, true},
		{"first no element", []string{"ATTR", "FIRST", "table", "id"}, "", false, true},
		{"first wrong arity", []string{"ATTR", "FIRST", "a"}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := newEnv(t)
			got, err := run(t, env, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.IsNull() != tt.wantNull {
				t.Fatalf("Execute() = %v, wantNull %v", got, tt.wantNull)
			}
			if s, _ := got.AsText(); !tt.wantNull && s != tt.want {
				t.Errorf("Execute() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestGetDate(t *testing.T) {
	env, _ := newEnv(t)

	got, err := run(t, env, "DATE", "p")
	if err != nil {
		t.Fatalf("GET DATE error = %v", err)
	}
	if n, _ := got.Len(); n != 2 {
		t.Errorf("GET DATE p = %d elements, want 2", n)
	}

	got, err = run(t, env, "DATE")
	if err != nil {
		t.Fatalf("GET DATE error = %v", err)
	}
	if n, _ := got.Len(); n != 2 {
		t.Errorf("GET DATE = %d elements, want 2", n)
	}

	last, err := run(t, env, "DATE", "LAST", "p")
	if err != nil {
		t.Fatalf("GET DATE LAST error = %v", err)
	}
	if n, _ := last.AsNode(); n.Text() != "Updated March 5, 2025" {
		t.Errorf("GET DATE LAST = %q", n.Text())
	}

	if _, err := run(t, env, "DATE", "ONCE", "p", "1"); err != nil {
		t.Errorf("GET DATE ONCE p 1 error = %v", err)
	}
	if _, err := run(t, env, "DATE", "ONCE", "p", "2"); err == nil {
		t.Error("GET DATE ONCE on an element without a date should fail")
	}
	if _, err := run(t, env, "DATE", "LAST", "a"); err == nil {
		t.Error("GET DATE LAST without dated elements should fail")
	}
}

func TestContainsDate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"12/03/2024", true},
		{"2024-3-1", true},
		{"1 janvier 2024", true},
		{"Décembre 24, 2023", true},
		{"on 5 May 2021", true},
		{"ISO 2024-01-31", true},
		{"at 10:15:00", true},
		{"version 1.2.3", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsDate(tt.text); got != tt.want {
			t.Errorf("ContainsDate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestUnknownSubcommand(t *testing.T) {
	env, _ := newEnv(t)
	if _, err := run(t, env, "COLOR"); err == nil {
		t.Error("GET COLOR should fail")
	}
	if _, err := New(grablog.Discard()).Execute(context.Background(), nil, env); err == nil {
		t.Error("GET without subcommand should fail")
	}
}
