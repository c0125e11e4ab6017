package mock

import "github.com/fwojciec/artpdf"

var _ artpdf.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of artpdf.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*artpdf.Article, error)
}

func (e *Extractor) Extract(html string) (*artpdf.Article, error) {
	return e.ExtractFn(html)
}
