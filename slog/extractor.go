package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/artpdf"
)

// Ensure LoggingExtractor implements artpdf.Extractor.
var _ artpdf.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   artpdf.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next artpdf.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the title, the size of
// the isolated content and the widgets that were stripped.
func (e *LoggingExtractor) Extract(html string) (article *artpdf.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var size int
		var removed []string
		if article != nil {
			title = article.Title
			size = len(article.ContentHTML)
			removed = article.Removed
		}
		e.logger.Info("extract",
			"title", title,
			"bytes", size,
			"removed", removed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
