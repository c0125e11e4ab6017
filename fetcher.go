package artpdf

import "context"

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	// Fetch performs a single request for the URL and returns the body.
	// Non-success responses and transport failures return EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
