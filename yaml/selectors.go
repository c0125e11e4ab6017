// Package yaml loads site selector sets from YAML files with gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"io"
	"os"

	"github.com/fwojciec/artpdf"
	"gopkg.in/yaml.v3"
)

// LoadSiteSelectors reads and validates a selector set from path.
func LoadSiteSelectors(path string) (*artpdf.SiteSelectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, artpdf.WrapError(artpdf.EINVALID, err, "reading selector file %s", path)
	}
	return DecodeSiteSelectors(bytes.NewReader(data))
}

// DecodeSiteSelectors decodes a selector set. Unknown keys are rejected so
// a misspelled role does not silently disable a removal.
func DecodeSiteSelectors(r io.Reader) (*artpdf.SiteSelectors, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s artpdf.SiteSelectors
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, artpdf.Errorf(artpdf.EINVALID, "selector file is empty")
		}
		return nil, artpdf.Errorf(artpdf.EINVALID, "decoding selectors: %v", err)
	}
	for i := range s.Removals {
		if s.Removals[i].Scope == "" {
			s.Removals[i].Scope = artpdf.ScopeRoot
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeSiteSelectors writes s as YAML, e.g. to print the built-in set as a
// starting point for a custom file.
func EncodeSiteSelectors(w io.Writer, s *artpdf.SiteSelectors) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
