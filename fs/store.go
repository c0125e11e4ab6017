// Package fs persists rendered documents to the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/artpdf"
	"github.com/google/uuid"
)

// DefaultDir is the output container used when none is configured.
const DefaultDir = "articles"

// Ensure Store implements artpdf.Store at compile time.
var _ artpdf.Store = (*Store)(nil)

// Store writes documents into a single output directory.
// Each file is written to a hidden temporary name and renamed into place,
// so readers never observe a partial document and a failed Save leaves
// nothing behind. An existing file with the same name is replaced.
type Store struct {
	dir string
}

// NewStore creates a new Store that writes to dir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data to dir/name, creating dir if it does not exist.
func (s *Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", artpdf.WrapError(artpdf.EPERSIST, err, "creating output directory %s", s.dir)
	}

	path := filepath.Join(s.dir, name)
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return "", artpdf.WrapError(artpdf.EPERSIST, err, "writing %s", path)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", artpdf.WrapError(artpdf.EPERSIST, err, "writing %s", path)
	}

	return path, nil
}

// validateName rejects names that are not a single directory entry.
func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return artpdf.Errorf(artpdf.EINVALID, "invalid document name %q", name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return artpdf.Errorf(artpdf.EINVALID, "document name %q must not contain path separators", name)
	}
	return nil
}
