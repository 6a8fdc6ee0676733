package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"sqlgen/internal/domain"
)

var _ Fetcher = (*GCSFetcher)(nil)

// GCSFetcher reads objects from Google Cloud Storage.
type GCSFetcher struct {
	client *storage.Client
}

// NewGCSFetcher creates a GCS client. With no key file the client falls back
// to application default credentials.
func NewGCSFetcher(ctx context.Context, opts Options) (*GCSFetcher, error) {
	var clientOpts []option.ClientOption
	if opts.GCSKeyFile != "" {
		clientOpts = append(clientOpts, option.WithAuthCredentialsFile(option.ServiceAccount, opts.GCSKeyFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSFetcher{client: client}, nil
}

// Fetch implements Fetcher for gs://bucket/object URIs.
func (f *GCSFetcher) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	_, bucket, object, err := ParseObjectURI(uri)
	if err != nil {
		return nil, err
	}

	r, err := f.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, domain.ErrNotFound("object %q not found", uri)
		}
		return nil, fmt.Errorf("read object %q: %w", uri, err)
	}
	return r, nil
}
