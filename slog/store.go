package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/artpdf"
)

// Ensure LoggingStore implements artpdf.Store.
var _ artpdf.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging.
type LoggingStore struct {
	next   artpdf.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next artpdf.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Save(ctx context.Context, name string, data []byte) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("save",
			"name", name,
			"path", path,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, name, data)
}
