package rod

import (
	"context"
	"io"

	"github.com/fwojciec/artpdf"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Renderer implements artpdf.Renderer at compile time.
var _ artpdf.Renderer = (*Renderer)(nil)

// Ensure Session implements artpdf.RenderSession at compile time.
var _ artpdf.RenderSession = (*Session)(nil)

// Renderer prints markup to PDF with headless Chrome. Every Open launches
// a dedicated browser so no state leaks between documents.
type Renderer struct {
	opts []LaunchOption
}

// NewRenderer creates a new Renderer. Chrome is not started until Open.
func NewRenderer(opts ...LaunchOption) *Renderer {
	return &Renderer{opts: opts}
}

// Open launches a browser for a single rendering.
func (r *Renderer) Open(ctx context.Context) (artpdf.RenderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := Launch(r.opts...)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "starting browser")
	}
	return &Session{browser: b}, nil
}

// Extension returns ".pdf".
func (r *Renderer) Extension() string {
	return artpdf.DefaultExtension
}

// Session is a launched browser used to render one document.
type Session struct {
	browser *Browser
}

// Render loads html into a blank page and prints it to PDF.
func (s *Session) Render(ctx context.Context, html string, layout artpdf.PageLayout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := s.browser.live()
	if b == nil {
		return nil, artpdf.Errorf(artpdf.EINVALID, "render session is closed")
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "opening page")
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "loading article markup")
	}

	// Images referenced by the article must finish loading before printing.
	if err := page.WaitLoad(); err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "waiting for page load")
	}

	stream, err := page.PDF(printOptions(layout))
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "printing PDF")
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.ERENDER, err, "reading PDF stream")
	}
	return data, nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	return s.browser.Close()
}

// LauncherPID exposes the browser process for cleanup tests.
func (s *Session) LauncherPID() int {
	return s.browser.LauncherPID()
}

// printOptions converts a layout to CDP print parameters. CDP measures
// paper and margins in inches.
func printOptions(layout artpdf.PageLayout) *proto.PagePrintToPDF {
	margin := layout.MarginInches()
	return &proto.PagePrintToPDF{
		PrintBackground: layout.PrintBackground,
		PaperWidth:      float(layout.PaperWidth),
		PaperHeight:     float(layout.PaperHeight),
		MarginTop:       float(margin),
		MarginRight:     float(margin),
		MarginBottom:    float(margin),
		MarginLeft:      float(margin),
	}
}

func float(f float64) *float64 {
	return &f
}
