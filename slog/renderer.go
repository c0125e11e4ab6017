package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/artpdf"
)

// Ensure LoggingRenderer implements artpdf.Renderer.
var _ artpdf.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging. Sessions it opens are
// wrapped as well so render and release are logged individually.
type LoggingRenderer struct {
	next   artpdf.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next artpdf.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Open delegates to the wrapped renderer and logs acquisition of the
// rendering context.
func (r *LoggingRenderer) Open(ctx context.Context) (session artpdf.RenderSession, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render open",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	session, err = r.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{next: session, logger: r.logger}, nil
}

// Extension delegates to the wrapped renderer.
func (r *LoggingRenderer) Extension() string {
	return r.next.Extension()
}

type loggingSession struct {
	next   artpdf.RenderSession
	logger *slog.Logger
}

func (s *loggingSession) Render(ctx context.Context, html string, layout artpdf.PageLayout) (doc []byte, err error) {
	defer func(begin time.Time) {
		s.logger.Info("render",
			"input", len(html),
			"bytes", len(doc),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Render(ctx, html, layout)
}

func (s *loggingSession) Close() (err error) {
	defer func(begin time.Time) {
		s.logger.Info("render close",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Close()
}
