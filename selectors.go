package artpdf

import "fmt"

// Presence classifies a structural lookup.
type Presence int

const (
	// Optional elements are removed when found; absence is not an error.
	Optional Presence = iota

	// Mandatory elements fail extraction when absent.
	Mandatory
)

// String returns the presence name used in logs and error messages.
func (p Presence) String() string {
	switch p {
	case Mandatory:
		return "mandatory"
	case Optional:
		return "optional"
	default:
		return fmt.Sprintf("Presence(%d)", int(p))
	}
}

// Scope controls where a removal selector is matched.
type Scope string

// Scope constants for Removal.
const (
	// ScopeRoot matches only inside the article root.
	ScopeRoot Scope = "root"

	// ScopeDocument matches anywhere in the page.
	ScopeDocument Scope = "document"
)

// Removal names a substructure that must not reach the rendered document.
type Removal struct {
	Role     string `yaml:"role"`
	Selector string `yaml:"selector"`
	Scope    Scope  `yaml:"scope,omitempty"`
}

// SiteSelectors maps the logical roles of one site's page structure to CSS
// selectors. The extraction algorithm reads only this mapping, so it can be
// exercised against synthetic documents.
type SiteSelectors struct {
	// Host is the domain the selectors were written for.
	Host string `yaml:"host"`

	// Root locates the article root. Mandatory.
	Root string `yaml:"root"`

	// Media locates the aspect-ratio container inside the root whose inline
	// style is cleared. Mandatory.
	Media string `yaml:"media"`

	// Removals are optional substructures stripped before rendering.
	Removals []Removal `yaml:"removals"`
}

// DefaultSiteSelectors returns the selector set for Business Insider
// article pages.
func DefaultSiteSelectors() *SiteSelectors {
	return &SiteSelectors{
		Host:  "businessinsider.com",
		Root:  "#l-content article",
		Media: ".aspect-ratio",
		Removals: []Removal{
			{Role: "more-content", Selector: ".post-content-more", Scope: ScopeRoot},
			{Role: "notification-prompt", Selector: ".notification-prompt-wrapper", Scope: ScopeRoot},
			{Role: "popular-video", Selector: ".popular-video", Scope: ScopeRoot},
			{Role: "category", Selector: ".post-content-category", Scope: ScopeRoot},
			{Role: "bottom", Selector: ".post-content-bottom", Scope: ScopeRoot},
			{Role: "refresh-player", Selector: ".the-refresh-player-wrapper", Scope: ScopeDocument},
		},
	}
}

// Validate returns an error if the selector set cannot drive an extraction.
func (s *SiteSelectors) Validate() error {
	if s.Root == "" {
		return Errorf(EINVALID, "root selector required")
	}
	if s.Media == "" {
		return Errorf(EINVALID, "media selector required")
	}
	seen := make(map[string]bool, len(s.Removals))
	for i, r := range s.Removals {
		if r.Role == "" {
			return Errorf(EINVALID, "removal %d: role required", i)
		}
		if r.Selector == "" {
			return Errorf(EINVALID, "removal %q: selector required", r.Role)
		}
		if seen[r.Role] {
			return Errorf(EINVALID, "removal %q: duplicate role", r.Role)
		}
		seen[r.Role] = true
		switch r.Scope {
		case "", ScopeRoot, ScopeDocument:
		default:
			return Errorf(EINVALID, "removal %q: unknown scope %q", r.Role, r.Scope)
		}
	}
	return nil
}
