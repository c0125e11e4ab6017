package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/artpdf"
)

// ConvertCmd saves one article.
type ConvertCmd struct {
	URL string
}

// Run executes the conversion and reports the outcome.
func (c *ConvertCmd) Run(ctx context.Context, deps *Dependencies, stdout, stderr io.Writer) error {
	result, err := deps.Pipeline.Run(ctx, c.URL)
	if err != nil {
		errorColor.Fprintf(stderr, "error: %s\n", artpdf.ErrorMessage(err))
		return fmt.Errorf("%w: %w", errReported, err)
	}

	reportColor.Fprintf(stdout, "[%.3fs]: Article saved to %s\n", result.Elapsed.Seconds(), result.Path)
	return nil
}
