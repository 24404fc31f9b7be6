package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"alcyxob/workout-tracker/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3Source reads import files from an S3-compatible bucket.
type s3Source struct {
	client     *s3.Client
	bucketName string
}

// NewS3Source creates an import source for the configured bucket.
func NewS3Source(ctx context.Context, cfg config.S3Config) (Source, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket_name is not configured")
	}

	opts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(cfg.Region)}
	// Without static keys the default chain (env, shared config, instance role) applies.
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := EndpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// MinIO and most S3-compatible services need path-style addressing.
			o.UsePathStyle = true
		}
	})

	slog.Info("s3 import source initialized", "endpoint", endpoint, "bucket", cfg.BucketName)
	return &s3Source{client: client, bucketName: cfg.BucketName}, nil
}

// EndpointURL adds a scheme to a bare host[:port] endpoint. Endpoints that
// already carry a scheme are returned unchanged.
func EndpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *s3Source) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrObjectNotFound, s.bucketName, key)
		}
		slog.Error("failed to get s3 object", "bucket", s.bucketName, "key", key, "error", err)
		return nil, fmt.Errorf("get s3 object %s: %w", key, err)
	}
	return out.Body, nil
}
