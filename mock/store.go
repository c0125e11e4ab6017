package mock

import (
	"context"

	"github.com/fwojciec/artpdf"
)

var _ artpdf.Store = (*Store)(nil)

// Store is a mock implementation of artpdf.Store.
type Store struct {
	SaveFn func(ctx context.Context, name string, data []byte) (string, error)
}

func (s *Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	return s.SaveFn(ctx, name, data)
}
