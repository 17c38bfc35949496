// Package imagestore abstracts the external image hosting collaborator:
// binary uploads in, stable URLs out, deletion by URL.
package imagestore

import (
	"context"
	"io"
)

// ImageStore accepts image uploads and serves them back under stable URLs.
type ImageStore interface {
	// Upload stores the image content and returns the URL it will be
	// served from. The original filename is only used for its extension.
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete removes a previously uploaded image identified by the URL
	// Upload returned. Deleting an empty or foreign URL is a no-op.
	Delete(ctx context.Context, url string) error
}
