package artpdf

// Article is the editorial content isolated from a fetched page.
type Article struct {
	// Title is the raw text of the page's <title> element.
	// It is never empty for a successfully extracted article.
	Title string

	// ContentHTML is the inner markup of the article root with every
	// disallowed substructure removed.
	ContentHTML string

	// Removed lists the roles of the optional substructures that were
	// found and stripped, in selector order.
	Removed []string
}

// Extractor isolates the article from raw page markup.
type Extractor interface {
	// Extract parses html and returns the cleaned article.
	// Returns ENOTFOUND if the article root is absent and EMISSING if a
	// mandatory element inside it is absent.
	Extract(html string) (*Article, error)
}
