// Package load implements LOAD URL, which fetches a page and binds the
// parsed document.
package load

import (
	"bytes"
	"context"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/internal/fetch"
	"github.com/msto63/grab/pkg/dom"
)

const command = "LOAD URL"

const usage = `LOAD URL "url", LOAD URL var, LOAD URL name "url" or LOAD URL name var`

// Fetcher retrieves a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

// URLCommand is bound to LOAD_URL
type URLCommand struct {
	fetcher Fetcher
	logger  *grablog.Logger
}

// NewURL creates the LOAD URL command
func NewURL(fetcher Fetcher, logger *grablog.Logger) *URLCommand {
	if logger == nil {
		logger = grablog.GetDefault()
	}
	return &URLCommand{fetcher: fetcher, logger: logger.WithField("component", "load")}
}

// Execute fetches the page and binds it to the given name, or to
// _original_html when no name is given
func (c *URLCommand) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(command, args, 1, 2, usage); err != nil {
		return grabvalue.Null(), err
	}
	if c.fetcher == nil {
		return grabvalue.Null(), graberror.New(command + ": no fetcher configured").
			WithCode(graberror.CodeInternal).
			WithOperation(command)
	}

	var name string
	source := args[0]
	if len(args) == 2 {
		if args[0].IsLiteral() {
			return grabvalue.Null(), cmdutil.ArgError(command, "variable name must not be quoted. Usage: %s", usage)
		}
		name = args[0].Text
		source = args[1]
	}

	url, err := ResolveURL(source, env)
	if err != nil {
		return grabvalue.Null(), err
	}

	timer := c.logger.StartTimer("load url").WithField("url", url)
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		timer.WithField("success", false).Stop()
		return grabvalue.Null(), graberror.Wrap(err, "error loading URL "+url).
			WithCode(graberror.CodeFetch).
			WithOperation(command).
			WithDetail("url", url)
	}

	doc, err := dom.Parse(bytes.NewReader(resp.Body), resp.URL)
	if err != nil {
		timer.WithField("success", false).Stop()
		return grabvalue.Null(), graberror.Wrap(err, "error parsing HTML from "+url).
			WithCode(graberror.CodeExecution).
			WithOperation(command).
			WithDetail("url", url)
	}
	timer.WithField("bytes", len(resp.Body)).WithField("source", resp.Source.String()).Stop()

	page := grabvalue.Document(doc)
	target := grabvalue.OriginalHTML
	if name != "" {
		target = name
	}
	env.Set(target, page)

	title := doc.Title()
	if title == "" {
		title = "untitled"
	}
	c.logger.Debug("page loaded", grablog.Fields{
		"url":      resp.URL,
		"variable": target,
		"title":    title,
		"status":   resp.StatusCode,
	})
	return page, nil
}

// ResolveURL returns the address a LOAD URL argument names. Literals are
// used as written. A variable must hold text; values starting with "/" are
// resolved against the base of _current_soup and bare host names get an
// https scheme.
func ResolveURL(arg grabregistry.Argument, env *grabvalue.Environment) (string, error) {
	if arg.IsLiteral() {
		if strings.TrimSpace(arg.Text) == "" {
			return "", cmdutil.ArgError(command, "empty URL")
		}
		return arg.Text, nil
	}

	name := arg.Text
	v, ok := env.Get(name)
	if !ok {
		return "", cmdutil.Unbound(command, name, env)
	}
	raw, ok := v.AsText()
	if !ok {
		return "", cmdutil.ArgError(command, "variable '%s' must hold a URL (text), found %s", name, v.Kind())
	}

	url := strings.TrimSpace(raw)
	if url == "" || url == "/" || strings.HasPrefix(url, "#") {
		return "", cmdutil.ArgError(command, "variable '%s' holds a relative or invalid URL: '%s'", name, url)
	}

	if strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//") {
		current, ok := env.Get(grabvalue.CurrentSoup)
		if !ok {
			return "", cmdutil.ArgError(command, "relative URL '%s' without a base page", url)
		}
		doc, isDoc := current.AsDocument()
		base := ""
		if isDoc {
			base = doc.BaseURL()
		}
		if base == "" {
			return "", cmdutil.ArgError(command, "relative URL '%s' without a base domain", url)
		}
		url = base + url
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		if strings.Contains(url, ".") && !strings.Contains(url, " ") && !strings.HasPrefix(url, "/") {
			url = "https://" + url
		} else {
			return "", cmdutil.ArgError(command, "variable '%s' does not hold a valid URL: '%s'", name, url)
		}
	}
	return url, nil
}

// Handler serves the LOAD family key. Only URL is supported; LOAD URL
// itself resolves to the composite key.
type Handler struct{}

// Execute reports the missing LOAD subcommand
func (Handler) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if len(args) == 0 {
		return grabvalue.Null(), cmdutil.ArgError("LOAD", "missing subcommand. Usage: %s", usage)
	}
	return grabvalue.Null(), cmdutil.ArgError("LOAD", "unknown subcommand '%s'. Available: URL", args[0].Text)
}
