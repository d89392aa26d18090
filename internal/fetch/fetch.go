// Package fetch retrieves pages for LOAD URL. Responses are served from a
// memory tier, then an optional sqlite store, then the network.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	"github.com/msto63/grab/pkg/core/cache"
)

const (
	// DefaultTimeout bounds one request
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the bytes read from one response
	DefaultMaxBodySize = 32 << 20

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Source tells where a response came from
type Source int

const (
	SourceNetwork Source = iota
	SourceMemory
	SourceStore
)

// String returns the source name
func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceStore:
		return "store"
	default:
		return "network"
	}
}

// Response is a retrieved page
type Response struct {
	RequestURL  string
	URL         string // after redirects
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	Source      Source
}

// Options configures a Fetcher
type Options struct {
	Logger      *grablog.Logger
	Timeout     time.Duration // DefaultTimeout when zero
	UserAgent   string
	Store       *Store        // optional persistent tier
	MemoryItems int           // zero disables the memory tier
	TTL         time.Duration // maximum age of cached pages, zero for no limit
	MaxBodySize int64         // DefaultMaxBodySize when zero
	Client      *http.Client  // built from Timeout when nil
}

// Fetcher retrieves pages through the cache tiers
type Fetcher struct {
	client  *http.Client
	memory  *cache.Cache[*Response]
	store   *Store
	logger  *grablog.Logger
	options Options
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	f := &Fetcher{
		client:  client,
		store:   opts.Store,
		logger:  opts.Logger.WithField("component", "grab-fetch"),
		options: opts,
	}
	if opts.MemoryItems > 0 {
		f.memory = cache.New[*Response](cache.Config{
			MaxItems:        opts.MemoryItems,
			TTL:             opts.TTL,
			CleanupInterval: time.Minute,
		})
	}
	return f
}

// Fetch returns the page at rawURL. A status of 400 or above is a
// FETCH_ERROR and is never cached.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if f.memory != nil {
		if resp, ok := f.memory.Get(rawURL); ok {
			f.logger.Debug("page served from memory", grablog.Fields{"url": rawURL})
			return resp.from(SourceMemory), nil
		}
	}

	if f.store != nil {
		resp, ok, err := f.store.Get(ctx, rawURL, f.options.TTL)
		if err != nil {
			f.logger.WarnWithErr("page store lookup failed", err, grablog.Fields{"url": rawURL})
		} else if ok {
			f.logger.Debug("page served from store", grablog.Fields{"url": rawURL})
			f.remember(resp)
			return resp.from(SourceStore), nil
		}
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.remember(resp)
	if f.store != nil {
		if err := f.store.Put(ctx, resp); err != nil {
			f.logger.WarnWithErr("page store write failed", err, grablog.Fields{"url": rawURL})
		}
	}
	return resp, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*Response, error) {
	timer := f.logger.StartTimer("fetch").WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fetchError(err, "invalid request", rawURL)
	}
	if f.options.UserAgent != "" {
		req.Header.Set("User-Agent", f.options.UserAgent)
	}
	req.Header.Set("Accept", acceptHeader)

	httpResp, err := f.client.Do(req)
	if err != nil {
		timer.WithField("success", false).Stop()
		return nil, fetchError(err, "request failed", rawURL)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, f.options.MaxBodySize+1))
	if err != nil {
		timer.WithField("success", false).Stop()
		return nil, fetchError(err, "reading response failed", rawURL)
	}
	if int64(len(body)) > f.options.MaxBodySize {
		timer.WithField("success", false).Stop()
		return nil, graberror.Newf("response for %s exceeds %d bytes", rawURL, f.options.MaxBodySize).
			WithCode(graberror.CodeFetch).
			WithOperation("fetch").
			WithDetail("url", rawURL).
			WithDetail("limit", f.options.MaxBodySize)
	}

	timer.WithField("status", httpResp.StatusCode).WithField("bytes", len(body)).Stop()

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, graberror.Newf("HTTP %d for %s", httpResp.StatusCode, rawURL).
			WithCode(graberror.CodeFetch).
			WithOperation("fetch").
			WithDetail("url", rawURL).
			WithDetail("status", httpResp.StatusCode)
	}

	return &Response{
		RequestURL:  rawURL,
		URL:         httpResp.Request.URL.String(),
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
		Source:      SourceNetwork,
	}, nil
}

func (f *Fetcher) remember(resp *Response) {
	if f.memory != nil {
		f.memory.Set(resp.RequestURL, resp)
	}
}

// Close releases the memory tier. The store belongs to the caller.
func (f *Fetcher) Close() error {
	if f.memory != nil {
		f.memory.Close()
	}
	return nil
}

// from returns a copy tagged with its source
func (r *Response) from(src Source) *Response {
	out := *r
	out.Source = src
	return &out
}

func fetchError(err error, msg, rawURL string) error {
	return graberror.Wrap(err, fmt.Sprintf("%s: %s", msg, rawURL)).
		WithCode(graberror.CodeFetch).
		WithOperation("fetch").
		WithDetail("url", rawURL)
}
