package artpdf

import "context"

// Paper sizes in inches.
const (
	A4Width  = 8.27
	A4Height = 11.69
)

// CentimetersPerInch converts layout margins to the renderer's unit.
const CentimetersPerInch = 2.54

// PageLayout describes the paginated output.
type PageLayout struct {
	// PaperWidth and PaperHeight are in inches.
	PaperWidth  float64
	PaperHeight float64

	// Margin applies to all four sides, in centimeters.
	Margin float64

	// PrintBackground keeps background colors and images.
	PrintBackground bool
}

// DefaultPageLayout returns an A4 layout with 1cm margins and backgrounds.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		PaperWidth:      A4Width,
		PaperHeight:     A4Height,
		Margin:          1,
		PrintBackground: true,
	}
}

// MarginInches returns the margin converted to inches.
func (l PageLayout) MarginInches() float64 {
	return l.Margin / CentimetersPerInch
}

// Renderer acquires isolated rendering contexts.
type Renderer interface {
	// Open acquires a rendering context. The caller must Close the
	// returned session on every exit path.
	Open(ctx context.Context) (RenderSession, error)

	// Extension is the file extension of rendered output, including the dot.
	Extension() string
}

// RenderSession is a single acquired rendering context.
type RenderSession interface {
	// Render lays out html and returns the paginated document bytes.
	Render(ctx context.Context, html string, layout PageLayout) ([]byte, error)

	// Close releases the rendering context.
	Close() error
}
