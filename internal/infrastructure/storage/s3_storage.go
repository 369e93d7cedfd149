package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/sangkips/hotelpos-api/internal/config"
)

// ObjectStorage stores public assets such as business logos.
type ObjectStorage interface {
	// PutLogo uploads a logo for the business and returns its public URL.
	PutLogo(ctx context.Context, businessID uuid.UUID, data []byte, contentType string) (string, error)
}

type s3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Storage creates an S3 backed store. A custom endpoint enables
// S3-compatible services such as MinIO.
func NewS3Storage(ctx context.Context, cfg *config.StorageConfig) (ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	opts := []func(*aws_config.LoadOptions) error{
		aws_config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase(cfg),
	}, nil
}

func (s *s3Storage) PutLogo(ctx context.Context, businessID uuid.UUID, data []byte, contentType string) (string, error) {
	key := LogoKey(businessID, uuid.NewString())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// LogoKey is the object key of a logo upload.
func LogoKey(businessID uuid.UUID, name string) string {
	return fmt.Sprintf("logos/%s/%s.png", businessID, name)
}

func publicBase(cfg *config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
