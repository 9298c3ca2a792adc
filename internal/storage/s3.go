package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/salonpuntos/loyalty-scheduler/internal/config"
)

// MediaStore uploads reward and logo images to an S3-compatible bucket.
type MediaStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
	region   string
}

func NewMediaStore(cfg *config.Config) *MediaStore {
	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	// Custom endpoint supports MinIO and friends in development.
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &MediaStore{
		client:   s3.New(opts),
		bucket:   cfg.S3Bucket,
		endpoint: cfg.S3Endpoint,
		region:   cfg.S3Region,
	}
}

// Upload stores the bytes under key and returns the public URL.
func (m *MediaStore) Upload(
	ctx context.Context,
	key string,
	data []byte,
	contentType string,
) (string, error) {

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return m.publicURL(key), nil
}

func (m *MediaStore) publicURL(key string) string {
	if m.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(m.endpoint, "/"), m.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}
