// Package pipeline turns an article URL into a saved, printable document.
// It sequences fetch, extract, name, render and persist, stopping at the
// first failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/artpdf"
)

// Pipeline converts one article per Run. Stages run strictly in sequence
// and nothing is retried. A Pipeline holds no state between runs.
type Pipeline struct {
	Fetcher   artpdf.Fetcher
	Extractor artpdf.Extractor
	Renderer  artpdf.Renderer
	Store     artpdf.Store

	// Layout is passed to the renderer. Zero value means
	// artpdf.DefaultPageLayout.
	Layout artpdf.PageLayout

	// Host, if set, restricts input URLs to this domain and its subdomains.
	Host string

	// Unique appends a hash of the URL to the document name so articles
	// with colliding titles do not overwrite each other.
	Unique bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result describes a saved document.
type Result struct {
	URL     string
	Title   string
	Path    string
	Bytes   int
	Removed []string
	Elapsed time.Duration
}

// Run fetches the article at rawURL, extracts and renders it, and saves the
// document. On any error no file is written.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (*Result, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	begin := now()

	u, err := artpdf.ParseArticleURL(rawURL, p.Host)
	if err != nil {
		return nil, err
	}
	url := u.String()

	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.EFETCH, err, "fetching %s", url)
	}

	article, err := p.Extractor.Extract(html)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.EINTERNAL, err, "extracting article from %s", url)
	}

	name := p.name(article.Title, url)

	data, err := p.render(ctx, article.ContentHTML)
	if err != nil {
		return nil, err
	}

	path, err := p.Store.Save(ctx, name, data)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.EPERSIST, err, "saving %s", name)
	}

	return &Result{
		URL:     url,
		Title:   article.Title,
		Path:    path,
		Bytes:   len(data),
		Removed: article.Removed,
		Elapsed: now().Sub(begin),
	}, nil
}

// render acquires a rendering context, renders html, and releases the
// context on every path.
func (p *Pipeline) render(ctx context.Context, html string) (data []byte, err error) {
	session, err := p.Renderer.Open(ctx)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "acquiring rendering context")
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			data = nil
			err = artpdf.WrapError(artpdf.ERENDER, cerr, "releasing rendering context")
		}
	}()

	data, err = session.Render(ctx, html, p.layout())
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "rendering article")
	}
	return data, nil
}

func (p *Pipeline) layout() artpdf.PageLayout {
	if p.Layout == (artpdf.PageLayout{}) {
		return artpdf.DefaultPageLayout()
	}
	return p.Layout
}

func (p *Pipeline) name(title, url string) string {
	ext := p.Renderer.Extension()
	if p.Unique {
		return UniqueName(title, ext, url)
	}
	return artpdf.NormalizeFilename(title, ext)
}

// UniqueName is NormalizeFilename with the first 8 hex digits of the xxhash
// of key inserted before the extension. Using the article URL as key keeps
// the name stable across runs of the same article.
func UniqueName(title, ext, key string) string {
	sum := fmt.Sprintf("%016x", xxhash.Sum64String(key))
	return artpdf.NormalizeFilename(title, "-"+sum[:8]+ext)
}
