package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithy "github.com/aws/smithy-go"

	"github.com/sceneforge/scene-backend/config"
)

type s3Provider struct {
	client *s3.Client
	bucket string
	region string
}

func newS3Provider(ctx context.Context, cfg *config.StorageConfig) (*s3Provider, error) {
	if cfg.AWSBucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required for the s3 provider")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}

	return &s3Provider{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSBucket,
		region: cfg.AWSRegion,
	}, nil
}

func (p *s3Provider) Upload(ctx context.Context, data []byte, contentType, originalName, folder string) (UploadResult, error) {
	key := NewKey(folder, originalName)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("s3 put object: %w", err)
	}

	return UploadResult{URL: p.FileURL(key), Key: key}, nil
}

func (p *s3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NoSuchKey", "NotFound":
				return ErrObjectNotFound
			}
		}
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

func (p *s3Provider) FileURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
