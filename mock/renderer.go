package mock

import (
	"context"

	"github.com/fwojciec/artpdf"
)

var _ artpdf.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of artpdf.Renderer.
type Renderer struct {
	OpenFn      func(ctx context.Context) (artpdf.RenderSession, error)
	ExtensionFn func() string
}

func (r *Renderer) Open(ctx context.Context) (artpdf.RenderSession, error) {
	return r.OpenFn(ctx)
}

func (r *Renderer) Extension() string {
	return r.ExtensionFn()
}

var _ artpdf.RenderSession = (*RenderSession)(nil)

// RenderSession is a mock implementation of artpdf.RenderSession.
type RenderSession struct {
	RenderFn func(ctx context.Context, html string, layout artpdf.PageLayout) ([]byte, error)
	CloseFn  func() error
}

func (s *RenderSession) Render(ctx context.Context, html string, layout artpdf.PageLayout) ([]byte, error) {
	return s.RenderFn(ctx, html, layout)
}

func (s *RenderSession) Close() error {
	return s.CloseFn()
}
