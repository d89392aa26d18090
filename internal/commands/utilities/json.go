package utilities

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/foundation/utils/filex"
	grabstringx "github.com/msto63/grab/foundation/utils/stringx"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/pkg/dom"
)

const jsonUsage = `JSON [name] [PRETTY|ARRAY|OBJECT] [file]`

// JSONWriter serializes variables to files
type JSONWriter struct {
	dir    string
	logger *grablog.Logger
}

// NewJSONWriter creates a writer placing files in dir, the working
// directory when empty
func NewJSONWriter(dir string, logger *grablog.Logger) *JSONWriter {
	if dir == "" {
		dir = "."
	}
	return &JSONWriter{dir: dir, logger: logger}
}

type jsonOptions struct {
	pretty      bool
	forceArray  bool
	forceObject bool
}

// Write handles JSON [name] [flags] [file] and returns the absolute path of
// the written file. A quoted first argument names the file and the
// previous result is written.
func (w *JSONWriter) Write(args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	var opts jsonOptions
	var rest []grabregistry.Argument
	for _, a := range args {
		switch {
		case a.Is("PRETTY"):
			opts.pretty = true
		case a.Is("ARRAY"):
			opts.forceArray = true
		case a.Is("OBJECT"):
			opts.forceObject = true
		default:
			rest = append(rest, a)
		}
	}
	if len(rest) > 2 {
		return grabvalue.Null(), cmdutil.ArgError("JSON", "too many arguments. Usage: %s", jsonUsage)
	}
	if opts.forceArray && opts.forceObject {
		return grabvalue.Null(), cmdutil.ArgError("JSON", "ARRAY and OBJECT cannot be combined")
	}

	varName := grabvalue.LastResult
	var fileArg *grabregistry.Argument
	switch {
	case len(rest) == 1 && rest[0].IsLiteral():
		fileArg = &rest[0]
	case len(rest) >= 1:
		varName = rest[0].Text
		if len(rest) == 2 {
			fileArg = &rest[1]
		}
	}

	filename, err := fileName(varName, fileArg, env)
	if err != nil {
		return grabvalue.Null(), err
	}

	data, ok := env.Get(varName)
	if !ok {
		if varName == grabvalue.LastResult {
			return grabvalue.Null(), cmdutil.ArgError("JSON", "no previous result to write")
		}
		return grabvalue.Null(), cmdutil.Unbound("JSON", varName, env)
	}

	encoded, err := Encode(data, opts.pretty, opts.forceArray, opts.forceObject)
	if err != nil {
		return grabvalue.Null(), graberror.Wrap(err, "JSON: cannot encode "+varName).
			WithCode(graberror.CodeExecution).
			WithOperation("JSON")
	}

	path, err := filepath.Abs(filepath.Join(w.dir, filename))
	if err != nil {
		return grabvalue.Null(), graberror.Wrap(err, "JSON: invalid output path").
			WithCode(graberror.CodeIO).
			WithOperation("JSON")
	}
	if err := filex.WriteFileAtomic(path, encoded, 0o644); err != nil {
		return grabvalue.Null(), graberror.Wrap(err, "JSON: cannot write file '"+filename+"'").
			WithCode(graberror.CodeIO).
			WithOperation("JSON").
			WithDetail("path", path)
	}

	w.logger.Debug("json written", grablog.Fields{
		"variable": varName,
		"path":     path,
		"bytes":    len(encoded),
	})
	return grabvalue.Text(path), nil
}

// fileName returns the target file name: a literal as written, a variable's
// text, otherwise the variable name. Spaces become underscores and .json is
// appended when missing.
func fileName(varName string, arg *grabregistry.Argument, env *grabvalue.Environment) (string, error) {
	name := varName
	if varName == grabvalue.LastResult {
		name = "output"
	}
	if arg != nil {
		if arg.IsLiteral() {
			name = arg.Text
		} else {
			v, ok := env.Get(arg.Text)
			if !ok {
				return "", cmdutil.Unbound("JSON", arg.Text, env)
			}
			name = v.String()
		}
	}

	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if grabstringx.IsBlank(name) {
		return "", cmdutil.ArgError("JSON", "empty file name")
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name, nil
}

// Encode converts a value to JSON. ARRAY wraps single values in an array;
// OBJECT turns lists into objects keyed by position. HTML characters are
// written unescaped.
func Encode(v grabvalue.Value, pretty, forceArray, forceObject bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(structure(v, forceArray, forceObject)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func structure(v grabvalue.Value, forceArray, forceObject bool) interface{} {
	var items []interface{}
	isList := true

	switch v.Kind() {
	case grabvalue.KindNull:
		return nil
	case grabvalue.KindNodeSet:
		nodes, _ := v.AsNodes()
		items = make([]interface{}, len(nodes))
		for i, n := range nodes {
			items[i] = element(n)
		}
	case grabvalue.KindTextList:
		list, _ := v.AsTextList()
		items = make([]interface{}, len(list))
		for i, s := range list {
			items[i] = s
		}
	default:
		isList = false
	}

	if !isList {
		single := scalar(v)
		if forceArray {
			return []interface{}{single}
		}
		return single
	}
	if forceObject {
		obj := make(map[string]interface{}, len(items))
		for i, item := range items {
			obj[strconv.Itoa(i)] = item
		}
		return obj
	}
	return items
}

func scalar(v grabvalue.Value) interface{} {
	switch v.Kind() {
	case grabvalue.KindDocument:
		doc, _ := v.AsDocument()
		return document(doc)
	case grabvalue.KindNode:
		n, _ := v.AsNode()
		return element(n)
	default:
		return v.Native()
	}
}

func element(n *dom.Node) map[string]interface{} {
	out := map[string]interface{}{
		"tag":  n.Tag(),
		"text": cmdutil.Text(n),
	}
	if attrs := n.Attrs(); len(attrs) > 0 {
		m := make(map[string]interface{}, len(attrs))
		for _, a := range attrs {
			if a.Key == "class" {
				m[a.Key] = strings.Fields(a.Val)
				continue
			}
			m[a.Key] = a.Val
		}
		out["attributes"] = m
	}
	if href, ok := n.Attr("href"); ok && n.Tag() == "a" && href != "" {
		out["href"] = href
	}
	if src, ok := n.Attr("src"); ok && n.Tag() == "img" && src != "" {
		out["src"] = src
	}
	return out
}

func document(doc *dom.Document) map[string]interface{} {
	title := doc.Title()
	if title == "" {
		title = "untitled"
	}
	return map[string]interface{}{
		"document_title": title,
		"content_length": len([]rune(doc.HTML())),
		"text_content":   grabstringx.Preview(strings.Join(doc.StrippedStrings(), ""), 500, "..."),
	}
}
