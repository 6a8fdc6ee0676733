package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sqlgen/internal/domain"
)

var _ Fetcher = (*S3Fetcher)(nil)

// S3Fetcher reads objects from S3 or an S3-compatible store. Path-style
// addressing is used so custom endpoints (MinIO, Hetzner) work unchanged.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher creates an S3 client from static credentials.
func NewS3Fetcher(opts Options) (*S3Fetcher, error) {
	if opts.S3KeyID == "" || opts.S3Secret == "" {
		return nil, fmt.Errorf("S3 credentials are not configured (S3_KEY_ID, S3_SECRET)")
	}

	region := opts.S3Region
	if region == "" {
		region = "us-east-1"
	}

	s3opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.S3KeyID, opts.S3Secret, "",
		),
		UsePathStyle: true,
	}
	if opts.S3Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(endpointURL(opts.S3Endpoint))
	}

	return &S3Fetcher{client: s3.New(s3opts)}, nil
}

// endpointURL adds https:// to a bare host.
func endpointURL(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

// Fetch implements Fetcher for s3://bucket/key URIs.
func (f *S3Fetcher) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, bucket, key, err := ParseObjectURI(uri)
	if err != nil {
		return nil, err
	}
	if scheme != "s3" {
		return nil, fmt.Errorf("expected s3:// scheme, got %q in %q", scheme, uri)
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, domain.ErrNotFound("object %q not found", uri)
		}
		return nil, fmt.Errorf("get object %q: %w", uri, err)
	}
	return out.Body, nil
}
