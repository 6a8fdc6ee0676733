package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"sqlgen/internal/domain"
)

var _ Fetcher = (*AzureFetcher)(nil)

// AzureFetcher reads blobs from Azure Blob Storage.
type AzureFetcher struct {
	client *azblob.Client
}

// NewAzureFetcher creates a blob client from a storage connection string.
func NewAzureFetcher(opts Options) (*AzureFetcher, error) {
	if opts.AzureConnectionString == "" {
		return nil, fmt.Errorf("Azure storage is not configured (AZURE_STORAGE_CONNECTION_STRING)")
	}
	client, err := azblob.NewClientFromConnectionString(opts.AzureConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureFetcher{client: client}, nil
}

// Fetch implements Fetcher for az://container/blob URIs.
func (f *AzureFetcher) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	_, container, blob, err := ParseObjectURI(uri)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, domain.ErrNotFound("blob %q not found", uri)
		}
		return nil, fmt.Errorf("download blob %q: %w", uri, err)
	}
	return resp.Body, nil
}
