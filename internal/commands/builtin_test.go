package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	"github.com/msto63/grab/foundation/grab"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/fetch"
)

const shopPage = `<html><head><title>Shop</title></head><body>
<div class="item">Apple</div>
<div class="item sale">Pear</div>
<div class="item sale">Plum</div>
<a href="/about">About</a>
</body></html>`

type pageFetcher map[string]string

func (f pageFetcher) Fetch(ctx context.Context, url string) (*fetch.Response, error) {
	body, ok := f[url]
	if !ok {
		return nil, graberror.Newf("HTTP 404 for %s", url).WithCode(graberror.CodeFetch)
	}
	return &fetch.Response{RequestURL: url, URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func newInterpreter(t *testing.T, out *bytes.Buffer, dir string) *grab.Interpreter {
	t.Helper()
	reg := grabregistry.New(grabregistry.Options{Logger: grablog.Discard()})
	err := Register(reg, Deps{
		Fetcher:   pageFetcher{"https://shop.example/": shopPage},
		Out:       out,
		OutputDir: dir,
		Logger:    grablog.Discard(),
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	interp, err := grab.New(grab.Options{Logger: grablog.Discard(), Registry: reg})
	if err != nil {
		t.Fatalf("grab.New() error = %v", err)
	}
	return interp
}

func TestRegisterAliases(t *testing.T) {
	reg := grabregistry.New(grabregistry.Options{Logger: grablog.Discard()})
	if err := Register(reg, Deps{Logger: grablog.Discard()}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	want := map[string]string{
		"SELECT":  "SELECTION",
		"GET":     "GETTER",
		"FILTER":  "FILTERING",
		"EXTRACT": "EXTRACTION",
		"SAVE":    "UTILITIES",
		"USE":     "UTILITIES",
		"COUNT":   "UTILITIES",
		"JSON":    "UTILITIES",
	}
	if diff := cmp.Diff(want, reg.Aliases()); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}

	res, err := reg.Resolve("SAVE", []grabregistry.Argument{grabregistry.Ident("x")})
	if err != nil {
		t.Fatalf("Resolve(SAVE) error = %v", err)
	}
	if diff := cmp.Diff([]string{"SAVE", "x"}, grabregistry.Texts(res.Args)); diff != "" {
		t.Errorf("SAVE args mismatch (-want +got):\n%s", diff)
	}

	res, err = reg.Resolve("LOAD", []grabregistry.Argument{grabregistry.Ident("URL"), grabregistry.Literal("https://x/")})
	if err != nil {
		t.Fatalf("Resolve(LOAD URL) error = %v", err)
	}
	if res.Key != "LOAD_URL" || res.Rule != grabregistry.RuleComposite {
		t.Errorf("LOAD URL resolved to %s via %s, want LOAD_URL via composite", res.Key, res.Rule)
	}

	res, err = reg.Resolve("GET", []grabregistry.Argument{grabregistry.Ident("ATTR"), grabregistry.Ident("FIRST")})
	if err != nil {
		t.Fatalf("Resolve(GET ATTR FIRST) error = %v", err)
	}
	if res.Rule != grabregistry.RuleGetter {
		t.Errorf("GET ATTR FIRST rule = %s, want getter", res.Rule)
	}

	if err := Register(reg, Deps{Logger: grablog.Discard()}); err == nil {
		t.Error("second Register() error = nil, want duplicate key error")
	}
}

func TestScript(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	interp := newInterpreter(t, &out, dir)

	script := strings.Join([]string{
		`# pick the discounted items`,
		`LOAD URL "https://shop.example/"`,
		`SELECT ALL "div.item"`,
		`SAVE items`,
		`COUNT`,
		`SAVE total`,
		`FOR item IN items {`,
		`  PRINT item`,
		`}`,
		`IF total GREATER 2 { PRINT "many" }`,
		`USE items`,
		`FILTER ALL WHERE class CONTAINS "sale"`,
		`EXTRACT TEXT`,
		`JSON "sale"`,
	}, "\n")

	result, err := interp.Run(context.Background(), script, "shop.grab")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Run() warnings = %v, want none", result.Warnings)
	}

	total, _ := interp.Get("total")
	if n, ok := total.AsInt(); !ok || n != 3 {
		t.Errorf("total = %v, want 3", total.String())
	}

	wantOut := []string{
		"[PRINT] Element 'item': <div.item> 'Apple'",
		"[PRINT] Element 'item': <div.item.sale> 'Pear'",
		"[PRINT] Element 'item': <div.item.sale> 'Plum'",
		"[PRINT] many",
	}
	if diff := cmp.Diff(wantOut, strings.Split(strings.TrimSpace(out.String()), "\n")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	wantPath, _ := filepath.Abs(filepath.Join(dir, "sale.json"))
	last, _ := interp.Get(grabvalue.LastResult)
	if path, _ := last.AsText(); path != wantPath {
		t.Errorf("_last_result = %q, want %q", path, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `["Pear","Plum"]` {
		t.Errorf("sale.json = %s, want %s", data, `["Pear","Plum"]`)
	}
}

func TestScriptStopsAtFailingLine(t *testing.T) {
	var out bytes.Buffer
	interp := newInterpreter(t, &out, t.TempDir())

	script := "PRINT \"start\"\nLOAD URL \"https://missing.example/\"\nPRINT \"never\""
	_, err := interp.Run(context.Background(), script, "broken.grab")
	if err == nil {
		t.Fatal("Run() error = nil, want fetch error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Run() error = %q, want it to name line 2", err.Error())
	}
	if !graberror.HasCode(err, graberror.CodeFetch) {
		t.Errorf("Run() code = %v, want %v", graberror.GetCode(err), graberror.CodeFetch)
	}
	if got := strings.TrimSpace(out.String()); got != "[PRINT] start" {
		t.Errorf("output = %q, want only the first line", got)
	}
}
