// Package goquery isolates article content from raw page markup using CSS
// selectors evaluated by github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/artpdf"
	"golang.org/x/net/html"
)

// Ensure Extractor implements artpdf.Extractor at compile time.
var _ artpdf.Extractor = (*Extractor)(nil)

// Extractor isolates the article root described by a selector set and
// strips the disallowed substructures inside it.
// Extractor is safe for concurrent use; each call parses its own document.
type Extractor struct {
	selectors *artpdf.SiteSelectors
}

// NewExtractor creates a new Extractor for the given selector set.
// Returns EINVALID if the set is incomplete or a selector does not compile.
func NewExtractor(selectors *artpdf.SiteSelectors) (*Extractor, error) {
	if err := ValidateSelectors(selectors); err != nil {
		return nil, err
	}
	return &Extractor{selectors: selectors}, nil
}

// ValidateSelectors checks the selector set and compiles every selector.
func ValidateSelectors(s *artpdf.SiteSelectors) error {
	if s == nil {
		return artpdf.Errorf(artpdf.EINVALID, "selector set required")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	check := func(role, sel string) error {
		if _, err := cascadia.Compile(sel); err != nil {
			return artpdf.Errorf(artpdf.EINVALID, "%s selector %q: %v", role, sel, err)
		}
		return nil
	}
	if err := check("root", s.Root); err != nil {
		return err
	}
	if err := check("media", s.Media); err != nil {
		return err
	}
	for _, r := range s.Removals {
		if err := check(r.Role, r.Selector); err != nil {
			return err
		}
	}
	return nil
}

// Parse builds a navigable document from raw markup.
func Parse(rawHTML string) (*goquery.Document, error) {
	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, artpdf.Errorf(artpdf.EINVALID, "failed to parse HTML: %v", err)
	}
	return goquery.NewDocumentFromNode(node), nil
}

// Extract parses rawHTML and returns the cleaned article.
//
// Every mandatory lookup (root, title, media container) is resolved before
// the document is touched, so a failed extraction never mutates it.
func (e *Extractor) Extract(rawHTML string) (*artpdf.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, artpdf.Errorf(artpdf.EINVALID, "empty HTML input")
	}

	doc, err := Parse(rawHTML)
	if err != nil {
		return nil, err
	}

	title := documentTitle(doc)

	root := find(doc.Selection, "root", e.selectors.Root, artpdf.Mandatory)
	if !root.found() {
		return nil, artpdf.Errorf(artpdf.ENOTFOUND, "could not find the article on the page (%s)", e.selectors.Root)
	}
	if title == "" {
		return nil, artpdf.Errorf(artpdf.EMISSING, "article page has no title")
	}

	media := find(root.sel, "media", e.selectors.Media, artpdf.Mandatory)
	if !media.found() {
		return nil, artpdf.Errorf(artpdf.EMISSING, "%s %s element %q missing from article", media.presence, media.role, media.selector)
	}

	media.sel.SetAttr("style", "")

	var removed []string
	for _, r := range e.selectors.Removals {
		scope := root.sel
		if r.Scope == artpdf.ScopeDocument {
			scope = doc.Selection
		}
		l := findAll(scope, r.Role, r.Selector, artpdf.Optional)
		if !l.found() {
			continue
		}
		l.sel.Remove()
		removed = append(removed, l.role)
	}

	content, err := root.sel.Html()
	if err != nil {
		return nil, artpdf.Errorf(artpdf.EINTERNAL, "failed to serialize article: %v", err)
	}

	return &artpdf.Article{
		Title:       title,
		ContentHTML: content,
		Removed:     removed,
	}, nil
}

// documentTitle returns the text of the first <title> element with ASCII
// whitespace stripped and collapsed, matching a browser's document.title.
func documentTitle(doc *goquery.Document) string {
	raw := doc.Find("title").First().Text()
	return strings.Join(strings.FieldsFunc(raw, isASCIISpace), " ")
}

func isASCIISpace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// lookup is the typed result of matching one structural role.
type lookup struct {
	role     string
	selector string
	presence artpdf.Presence
	sel      *goquery.Selection
}

func (l lookup) found() bool {
	return l.sel.Length() > 0
}

// find returns the first match of selector below scope.
func find(scope *goquery.Selection, role, selector string, presence artpdf.Presence) lookup {
	return lookup{role: role, selector: selector, presence: presence, sel: scope.Find(selector).First()}
}

// findAll returns every match of selector below scope.
func findAll(scope *goquery.Selection, role, selector string, presence artpdf.Presence) lookup {
	return lookup{role: role, selector: selector, presence: presence, sel: scope.Find(selector)}
}
