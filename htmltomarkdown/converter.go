// Package htmltomarkdown renders article markup to Markdown with
// github.com/JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"context"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/artpdf"
)

// Extension is the file extension of Markdown output.
const Extension = ".md"

// Ensure Converter implements artpdf.Renderer at compile time.
var _ artpdf.Renderer = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// It satisfies artpdf.Renderer so an article can be saved as Markdown
// instead of PDF; page layout does not apply.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", artpdf.Errorf(artpdf.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", artpdf.WrapError(artpdf.ERENDER, err, "converting to markdown")
	}

	return result, nil
}

// Open returns the converter itself; it holds no external resources.
func (c *Converter) Open(ctx context.Context) (artpdf.RenderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return session{c}, nil
}

// Extension returns ".md".
func (c *Converter) Extension() string {
	return Extension
}

type session struct {
	c *Converter
}

func (s session) Render(ctx context.Context, html string, _ artpdf.PageLayout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	md, err := s.c.Convert(html)
	if err != nil {
		return nil, err
	}
	return []byte(md + "\n"), nil
}

func (s session) Close() error {
	return nil
}
