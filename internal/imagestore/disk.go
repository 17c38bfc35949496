package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiskStore stores images on the local filesystem and serves them under a
// base URL path (the HTTP server exposes the directory statically).
type DiskStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewDiskStore creates a DiskStore rooted at dir. Uploaded files are
// addressed as baseURL + "/" + filename.
func NewDiskStore(dir, baseURL string, logger *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload writes the image to disk under a unique name and returns its URL
func (s *DiskStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	target := filepath.Join(s.dir, name)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	url := s.baseURL + "/" + name
	s.logger.Debug("Image stored", zap.String("file", name), zap.String("url", url))

	return url, nil
}

// Delete removes the stored file behind a URL previously returned by
// Upload. The object name is extracted from the URL the same way the
// hosted-service identifier would be: path base, query stripped.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	name := objectName(url)
	if name == "" {
		s.logger.Warn("Could not extract object name from image URL", zap.String("url", url))
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// objectName extracts the stored filename from an image URL
func objectName(url string) string {
	trimmed := url
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}

	name := path.Base(trimmed)
	if name == "." || name == "/" {
		return ""
	}

	return name
}
