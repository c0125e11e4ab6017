// Package gofpdf renders article markup to PDF with github.com/jung-kurt/gofpdf.
//
// The output is text only: headings, paragraphs, list items and quotes in
// document order. It needs no browser, which makes it the fallback when
// Chrome is unavailable.
package gofpdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artpdf"
	"github.com/jung-kurt/gofpdf"
)

// Ensure Renderer implements artpdf.Renderer at compile time.
var _ artpdf.Renderer = (*Renderer)(nil)

// blocks are the elements laid out as separate paragraphs.
const blocks = "h1, h2, h3, h4, h5, h6, p, li, blockquote, figcaption, pre"

// Renderer produces simple text PDFs.
type Renderer struct {
	family string
}

// NewRenderer creates a new Renderer using the core Helvetica font.
func NewRenderer() *Renderer {
	return &Renderer{family: "Helvetica"}
}

// Open returns a session. gofpdf holds no external resources, so the
// session only tracks whether it has been closed.
func (r *Renderer) Open(ctx context.Context) (artpdf.RenderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{family: r.family}, nil
}

// Extension returns ".pdf".
func (r *Renderer) Extension() string {
	return artpdf.DefaultExtension
}

type session struct {
	family string
	closed bool
}

func (s *session) Render(ctx context.Context, html string, layout artpdf.PageLayout) ([]byte, error) {
	if s.closed {
		return nil, artpdf.Errorf(artpdf.EINVALID, "render session is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, artpdf.Errorf(artpdf.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, artpdf.Errorf(artpdf.EINVALID, "failed to parse HTML: %v", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: layout.PaperWidth, Ht: layout.PaperHeight},
	})
	margin := layout.MarginInches()
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps UTF-8 text onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	n := 0
	doc.Find(blocks).Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks (a <p> inside an <li>) are written with their parent.
		if sel.ParentsFiltered(blocks).Length() > 0 {
			return
		}
		text := collapse(sel.Text())
		if text == "" {
			return
		}
		s.writeBlock(pdf, goquery.NodeName(sel), tr(text))
		n++
	})
	if n == 0 {
		if text := collapse(doc.Text()); text != "" {
			s.writeBlock(pdf, "p", tr(text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "writing PDF")
	}
	return buf.Bytes(), nil
}

func (s *session) Close() error {
	s.closed = true
	return nil
}

// writeBlock writes one paragraph-level element. Sizes are in points,
// line heights in inches.
func (s *session) writeBlock(pdf *gofpdf.Fpdf, tag, text string) {
	switch tag {
	case "h1":
		pdf.SetFont(s.family, "B", 20)
		pdf.MultiCell(0, 0.32, text, "", "L", false)
		pdf.Ln(0.12)
	case "h2", "h3":
		pdf.SetFont(s.family, "B", 15)
		pdf.MultiCell(0, 0.25, text, "", "L", false)
		pdf.Ln(0.08)
	case "h4", "h5", "h6":
		pdf.SetFont(s.family, "B", 12)
		pdf.MultiCell(0, 0.2, text, "", "L", false)
		pdf.Ln(0.06)
	case "li":
		pdf.SetFont(s.family, "", 11)
		pdf.MultiCell(0, 0.19, "\x95 "+text, "", "L", false)
		pdf.Ln(0.04)
	case "blockquote", "figcaption":
		pdf.SetFont(s.family, "I", 11)
		pdf.MultiCell(0, 0.19, text, "", "L", false)
		pdf.Ln(0.1)
	case "pre":
		pdf.SetFont("Courier", "", 10)
		pdf.MultiCell(0, 0.17, text, "", "L", false)
		pdf.Ln(0.1)
	default:
		pdf.SetFont(s.family, "", 11)
		pdf.MultiCell(0, 0.19, text, "", "L", false)
		pdf.Ln(0.1)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
