package rod

import (
	"context"
	"time"

	"github.com/fwojciec/artpdf"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default time allowed for one page load.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements artpdf.Fetcher at compile time.
var _ artpdf.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Use it for article pages whose content is assembled by JavaScript.
type Fetcher struct {
	browser *Browser
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each Fetch call.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher on top of a launched browser. The
// Fetcher owns the browser and closes it on Close.
func NewFetcher(browser *Browser, opts ...Option) *Fetcher {
	f := &Fetcher{
		browser: browser,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.browser.Closed() {
		return "", artpdf.Errorf(artpdf.EINVALID, "fetcher is closed")
	}

	// Check context before starting
	if err := ctx.Err(); err != nil {
		return "", artpdf.WrapError(artpdf.EFETCH, err, "fetching %s", url)
	}

	b := f.browser.live()
	if b == nil {
		return "", artpdf.Errorf(artpdf.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", artpdf.WrapError(artpdf.EFETCH, err, "opening page for %s", url)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", artpdf.WrapError(artpdf.EFETCH, err, "navigating to %s", url)
	}

	if err := page.WaitLoad(); err != nil {
		return "", artpdf.WrapError(artpdf.EFETCH, err, "loading %s", url)
	}

	html, err := page.HTML()
	if err != nil {
		return "", artpdf.WrapError(artpdf.EFETCH, err, "reading %s", url)
	}

	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
