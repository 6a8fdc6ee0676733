// Package storage reads metadata documents from local disk or object storage.
//
// Supported URIs:
//
//	path/to/file.yaml, file:///abs/path.yaml
//	s3://bucket/key
//	az://container/blob (also azure://)
//	gs://bucket/object
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"sync"

	"sqlgen/internal/domain"
)

// Fetcher opens the object named by uri for reading.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Options carries object storage credentials.
type Options struct {
	S3KeyID    string
	S3Secret   string
	S3Endpoint string
	S3Region   string

	AzureConnectionString string

	GCSKeyFile string
}

// Scheme returns the lower-cased URI scheme, or "" for plain paths.
// Single-letter schemes are treated as Windows drive letters.
func Scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(uri[:i])
}

// ParseObjectURI splits scheme://bucket/key into its parts.
func ParseObjectURI(uri string) (scheme, bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", "", fmt.Errorf("parse object URI %q: %w", uri, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", "", fmt.Errorf("object URI %q must look like scheme://bucket/key", uri)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", "", fmt.Errorf("empty key in object URI %q", uri)
	}
	return strings.ToLower(u.Scheme), u.Host, key, nil
}

// Local reads files from the local filesystem.
type Local struct{}

// Fetch implements Fetcher for plain paths and file:// URIs.
func (Local) Fetch(_ context.Context, uri string) (io.ReadCloser, error) {
	path := uri
	if Scheme(uri) == "file" {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse file URI %q: %w", uri, err)
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound("metadata file %q not found", path)
		}
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}

// Router dispatches on the URI scheme. Remote clients are created on first
// use so a missing credential only fails the schemes that need it.
type Router struct {
	opts  Options
	local Local

	mu    sync.Mutex
	s3    *S3Fetcher
	azure *AzureFetcher
	gcs   *GCSFetcher
}

// NewRouter creates a Router using the given credentials.
func NewRouter(opts Options) *Router {
	return &Router{opts: opts}
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	var f Fetcher
	var err error
	switch scheme := Scheme(uri); scheme {
	case "", "file":
		f = r.local
	case "s3":
		f, err = r.s3Fetcher()
	case "az", "azure":
		f, err = r.azureFetcher()
	case "gs":
		f, err = r.gcsFetcher(ctx)
	default:
		return nil, domain.ErrValidation("unsupported storage scheme %q in %q", scheme, uri)
	}
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, uri)
}

func (r *Router) s3Fetcher() (*S3Fetcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3 == nil {
		f, err := NewS3Fetcher(r.opts)
		if err != nil {
			return nil, err
		}
		r.s3 = f
	}
	return r.s3, nil
}

func (r *Router) azureFetcher() (*AzureFetcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.azure == nil {
		f, err := NewAzureFetcher(r.opts)
		if err != nil {
			return nil, err
		}
		r.azure = f
	}
	return r.azure, nil
}

func (r *Router) gcsFetcher(ctx context.Context) (*GCSFetcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gcs == nil {
		f, err := NewGCSFetcher(ctx, r.opts)
		if err != nil {
			return nil, err
		}
		r.gcs = f
	}
	return r.gcs, nil
}
