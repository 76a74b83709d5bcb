// Package storage abstracts the cloud object stores that hold project
// thumbnails. The provider is chosen once at startup from configuration and
// reused for the process lifetime.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/sceneforge/scene-backend/config"
)

var (
	// ErrUnsupportedProvider is returned at construction time for a
	// provider name outside the known set.
	ErrUnsupportedProvider = errors.New("unsupported storage provider")

	// ErrObjectNotFound is returned by Delete when the key does not exist.
	ErrObjectNotFound = errors.New("storage object not found")
)

type Kind int

const (
	KindS3 Kind = iota + 1
	KindGCS
)

func (k Kind) String() string {
	switch k {
	case KindS3:
		return "s3"
	case KindGCS:
		return "gcs"
	}
	return "unknown"
}

// ParseKind maps a configured provider name onto the closed set of
// provider kinds.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "aws", "s3":
		return KindS3, nil
	case "gcp", "google":
		return KindGCS, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Provider is the uniform contract over interchangeable object stores.
// Delete is best-effort from the caller's point of view: record-deletion
// flows must not fail because cleanup failed.
type Provider interface {
	Upload(ctx context.Context, data []byte, contentType, originalName, folder string) (UploadResult, error)
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// New resolves the configured provider name and constructs the single
// process-wide provider. Fails fast on an unknown name.
func New(ctx context.Context, cfg *config.StorageConfig) (Provider, error) {
	kind, err := ParseKind(cfg.Provider)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindS3:
		return newS3Provider(ctx, cfg)
	case KindGCS:
		return newGCSProvider(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
}

// NewKey generates a unique object key scoped to folder, keeping the
// original file's extension.
func NewKey(folder, originalName string) string {
	ext := path.Ext(originalName)
	return folder + "/" + uuid.NewString() + ext
}

// KeyFromURL derives the storage key from a stored public URL: the last
// two path segments (folder/file). Returns "" if the URL has fewer.
func KeyFromURL(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
