package artpdf

import "context"

// Store persists rendered documents.
type Store interface {
	// Save writes data under name inside the output container, creating
	// the container if needed, and returns the final path.
	// A failed Save leaves no file behind.
	Save(ctx context.Context, name string, data []byte) (path string, err error)
}
