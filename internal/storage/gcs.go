package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/sceneforge/scene-backend/config"
)

type gcsProvider struct {
	client *gcs.Client
	bucket string
}

func newGCSProvider(ctx context.Context, cfg *config.StorageConfig) (*gcsProvider, error) {
	if cfg.GCPBucket == "" {
		return nil, fmt.Errorf("GCP_STORAGE_BUCKET is required for the gcs provider")
	}

	var opts []option.ClientOption
	if cfg.GCPKeyFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPKeyFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	return &gcsProvider{client: client, bucket: cfg.GCPBucket}, nil
}

func (p *gcsProvider) Upload(ctx context.Context, data []byte, contentType, originalName, folder string) (UploadResult, error) {
	key := NewKey(folder, originalName)
	obj := p.client.Bucket(p.bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return UploadResult{}, fmt.Errorf("gcs write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("gcs write object: %w", err)
	}

	// Thumbnails are served directly from the bucket.
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return UploadResult{}, fmt.Errorf("gcs make public: %w", err)
	}

	return UploadResult{URL: p.FileURL(key), Key: key}, nil
}

func (p *gcsProvider) Delete(ctx context.Context, key string) error {
	err := p.client.Bucket(p.bucket).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("gcs delete object: %w", err)
	}
	return nil
}

func (p *gcsProvider) FileURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", p.bucket, key)
}
