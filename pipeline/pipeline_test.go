package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/artpdf"
	"github.com/fwojciec/artpdf/fs"
	"github.com/fwojciec/artpdf/goquery"
	arthttp "github.com/fwojciec/artpdf/http"
	"github.com/fwojciec/artpdf/mock"
	"github.com/fwojciec/artpdf/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleURL = "https://www.businessinsider.com/great-article-2024-1"

func page(title, article string) string {
	return `<!DOCTYPE html><html><head><title>` + title + `</title></head><body>` +
		`<header>Site header</header><div id="l-content">` + article + `</div></body></html>`
}

// renderRecorder is a renderer whose sessions echo the markup they receive
// and record how often they were opened and closed.
type renderRecorder struct {
	opened    int
	closed    int
	html      string
	layout    artpdf.PageLayout
	renderErr error
	closeErr  error
}

func (r *renderRecorder) renderer() *mock.Renderer {
	return &mock.Renderer{
		OpenFn: func(_ context.Context) (artpdf.RenderSession, error) {
			r.opened++
			return &mock.RenderSession{
				RenderFn: func(_ context.Context, html string, layout artpdf.PageLayout) ([]byte, error) {
					r.html = html
					r.layout = layout
					if r.renderErr != nil {
						return nil, r.renderErr
					}
					return []byte("%PDF-" + html), nil
				},
				CloseFn: func() error {
					r.closed++
					return r.closeErr
				},
			}, nil
		},
		ExtensionFn: func() string { return ".pdf" },
	}
}

func newExtractor(t *testing.T) *goquery.Extractor {
	t.Helper()
	ext, err := goquery.NewExtractor(artpdf.DefaultSiteSelectors())
	require.NoError(t, err)
	return ext
}

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves document named after the stripped title", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "articles")
		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("  My   Great Article  ", `<article><div class="aspect-ratio"></div><p>Body</p></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(dir),
		}

		result, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "my-great-article.pdf"), result.Path)
		assert.Equal(t, "My Great Article", result.Title)
		assert.FileExists(t, result.Path)
	})

	t.Run("aborts without writing when the article root is absent", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.pdf"), []byte("old"), 0644))
		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(`<html><head><title>No Article</title></head><body><div id="main"><article><p>x</p></article></div></body></html>`),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(dir),
		}

		result, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, artpdf.ENOTFOUND, artpdf.ErrorCode(err))
		assert.Equal(t, []string{"existing.pdf"}, dirEntries(t, dir))
		assert.Zero(t, rec.opened, "renderer must not be acquired")
	})

	t.Run("clears only the media style when no widgets are present", func(t *testing.T) {
		t.Parallel()

		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Clean", `<article><h1>Clean</h1><div class="aspect-ratio" style="padding-top:50%"><span>m</span></div><p>Text</p></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(t.TempDir()),
		}

		result, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, `<h1>Clean</h1><div class="aspect-ratio" style=""><span>m</span></div><p>Text</p>`, rec.html)
		assert.Empty(t, result.Removed)
	})

	t.Run("aborts with EFETCH on HTTP 404 before extraction", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		extracted := false
		rec := &renderRecorder{}
		dir := filepath.Join(t.TempDir(), "articles")
		p := &pipeline.Pipeline{
			Fetcher: arthttp.NewFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*artpdf.Article, error) {
					extracted = true
					return nil, errors.New("should not be called")
				},
			},
			Renderer: rec.renderer(),
			Store:    fs.NewStore(dir),
		}

		_, err := p.Run(context.Background(), server.URL+"/missing")

		require.Error(t, err)
		assert.Equal(t, artpdf.EFETCH, artpdf.ErrorCode(err))
		assert.Contains(t, artpdf.ErrorMessage(err), "404")
		assert.False(t, extracted)
		assert.Zero(t, rec.opened)
		assert.NoDirExists(t, dir)
	})

	t.Run("strips widgets before rendering", func(t *testing.T) {
		t.Parallel()

		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher: staticFetcher(page("Widgets", `<article><div class="aspect-ratio"></div><p>Keep</p>`+
				`<div class="popular-video">Videos</div><div class="post-content-bottom">Bottom</div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(t.TempDir()),
		}

		result, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.NotContains(t, rec.html, "Videos")
		assert.NotContains(t, rec.html, "Bottom")
		assert.Equal(t, []string{"popular-video", "bottom"}, result.Removed)
	})

	t.Run("passes A4 layout with 1cm margins by default", func(t *testing.T) {
		t.Parallel()

		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Layout", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(t.TempDir()),
		}

		_, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, artpdf.DefaultPageLayout(), rec.layout)
	})

	t.Run("reports elapsed time and size", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		calls := 0
		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Timed", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store: &mock.Store{
				SaveFn: func(_ context.Context, name string, _ []byte) (string, error) {
					return "articles/" + name, nil
				},
			},
			Now: func() time.Time {
				calls++
				return start.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
			},
		}

		result, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, result.Elapsed)
		assert.Equal(t, "articles/timed.pdf", result.Path)
		assert.Equal(t, articleURL, result.URL)
		assert.Positive(t, result.Bytes)
	})

	t.Run("appends URL hash when unique names are requested", func(t *testing.T) {
		t.Parallel()

		var saved string
		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Same Title", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store: &mock.Store{
				SaveFn: func(_ context.Context, name string, _ []byte) (string, error) {
					saved = name
					return name, nil
				},
			},
			Unique: true,
		}

		_, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, pipeline.UniqueName("Same Title", ".pdf", articleURL), saved)
	})
}

func TestPipeline_Run_RenderingContext(t *testing.T) {
	t.Parallel()

	t.Run("releases context after successful render", func(t *testing.T) {
		t.Parallel()

		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Ok", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(t.TempDir()),
		}

		_, err := p.Run(context.Background(), articleURL)

		require.NoError(t, err)
		assert.Equal(t, 1, rec.opened)
		assert.Equal(t, 1, rec.closed)
	})

	t.Run("releases context when rendering fails", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "articles")
		rec := &renderRecorder{renderErr: errors.New("page crashed")}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Crash", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(dir),
		}

		_, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Equal(t, artpdf.ERENDER, artpdf.ErrorCode(err))
		assert.Equal(t, 1, rec.closed)
		assert.NoDirExists(t, dir)
	})

	t.Run("fails when the context cannot be released", func(t *testing.T) {
		t.Parallel()

		saved := false
		rec := &renderRecorder{closeErr: errors.New("browser hung")}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Hung", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store: &mock.Store{
				SaveFn: func(_ context.Context, name string, _ []byte) (string, error) {
					saved = true
					return name, nil
				},
			},
		}

		_, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Equal(t, artpdf.ERENDER, artpdf.ErrorCode(err))
		assert.False(t, saved)
	})

	t.Run("does not release a context that was never acquired", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("NoBrowser", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer: &mock.Renderer{
				OpenFn: func(_ context.Context) (artpdf.RenderSession, error) {
					return nil, errors.New("chrome not found")
				},
				ExtensionFn: func() string { return ".pdf" },
			},
			Store: fs.NewStore(t.TempDir()),
		}

		_, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Equal(t, artpdf.ERENDER, artpdf.ErrorCode(err))
		assert.Contains(t, err.Error(), "chrome not found")
	})
}

func TestPipeline_Run_Failures(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid URL before fetching", func(t *testing.T) {
		t.Parallel()

		fetched := false
		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetched = true
					return "", nil
				},
			},
			Host: "businessinsider.com",
		}

		_, err := p.Run(context.Background(), "https://example.com/story")

		require.Error(t, err)
		assert.Equal(t, artpdf.EINVALID, artpdf.ErrorCode(err))
		assert.False(t, fetched)
	})

	t.Run("classifies uncoded fetch errors as EFETCH", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", context.DeadlineExceeded
				},
			},
		}

		_, err := p.Run(context.Background(), articleURL)

		assert.Equal(t, artpdf.EFETCH, artpdf.ErrorCode(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("aborts when the media container is missing", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "articles")
		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("No Media", `<article><p>Text</p></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store:     fs.NewStore(dir),
		}

		_, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Equal(t, artpdf.EMISSING, artpdf.ErrorCode(err))
		assert.Zero(t, rec.opened)
		assert.NoDirExists(t, dir)
	})

	t.Run("classifies uncoded store errors as EPERSIST", func(t *testing.T) {
		t.Parallel()

		rec := &renderRecorder{}
		p := &pipeline.Pipeline{
			Fetcher:   staticFetcher(page("Disk", `<article><div class="aspect-ratio"></div></article>`)),
			Extractor: newExtractor(t),
			Renderer:  rec.renderer(),
			Store: &mock.Store{
				SaveFn: func(_ context.Context, _ string, _ []byte) (string, error) {
					return "", errors.New("disk full")
				},
			},
		}

		_, err := p.Run(context.Background(), articleURL)

		require.Error(t, err)
		assert.Equal(t, artpdf.EPERSIST, artpdf.ErrorCode(err))
		assert.Equal(t, 1, rec.closed)
	})
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	t.Run("is stable for the same key", func(t *testing.T) {
		t.Parallel()

		a := pipeline.UniqueName("Title", ".pdf", "https://a.example/1")
		b := pipeline.UniqueName("Title", ".pdf", "https://a.example/1")

		assert.Equal(t, a, b)
	})

	t.Run("differs for different keys with the same title", func(t *testing.T) {
		t.Parallel()

		a := pipeline.UniqueName("Title", ".pdf", "https://a.example/1")
		b := pipeline.UniqueName("title", ".pdf", "https://a.example/2")

		assert.NotEqual(t, a, b)
	})

	t.Run("keeps the hash when the title is too long", func(t *testing.T) {
		t.Parallel()

		name := pipeline.UniqueName(strings.Repeat("long ", 80), ".pdf", "k")

		assert.Len(t, name, artpdf.MaxNameBytes)
		assert.Regexp(t, `-[0-9a-f]{8}\.pdf$`, name)
	})

	t.Run("keeps normalized title and extension", func(t *testing.T) {
		t.Parallel()

		name := pipeline.UniqueName("My Title", ".pdf", "k")

		assert.Regexp(t, `^my-title-[0-9a-f]{8}\.pdf$`, name)
	})
}
