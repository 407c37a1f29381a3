// Package fetch loads the page to simplify, either over HTTP or from a
// local file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gaurav-prasanna/pagesimplify/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "PageSimplify/1.0 (https://github.com/gaurav-prasanna/pagesimplify)"
	maxBodyBytes     = 10 << 20
)

// ErrNotHTML is returned when the response is not an HTML document.
var ErrNotHTML = errors.New("response is not HTML")

// HTTPFetcher loads pages over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) { f.userAgent = ua }
}

// New creates an HTTPFetcher with a 30 second timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the page at url. The returned URL is the final one after
// redirects; bodies past 10 MiB are truncated.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTML(ct) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotHTML, url, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &core.FetchResult{
		URL:        final,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// IsURL reports whether source is an http(s) URL rather than a file path.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load fetches source with f when it is a URL and reads it from disk
// otherwise.
func Load(ctx context.Context, f core.Fetcher, source string) (*core.FetchResult, error) {
	if IsURL(source) {
		return f.Fetch(ctx, source)
	}
	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return &core.FetchResult{URL: source, HTML: string(raw)}, nil
}
