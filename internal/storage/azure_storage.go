package storage

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureImageFetcher decodes images stored as Azure blobs. Refs take the
// form "container/path/to/blob.png".
type AzureImageFetcher struct {
	client *azblob.Client
}

// NewAzureImageFetcher creates a blob-backed fetcher with shared key
// credentials.
func NewAzureImageFetcher(accountName, accountKey string) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &AzureImageFetcher{client: client}, nil
}

// FetchImage downloads and decodes the blob named by ref.
func (s *AzureImageFetcher) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	container, blob, ok := strings.Cut(strings.TrimPrefix(ref, "/"), "/")
	if !ok || container == "" || blob == "" {
		return nil, fmt.Errorf("invalid blob ref %q (want container/blob)", ref)
	}

	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("blob download failed: %w", err)
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob image: %w", err)
	}
	return img, nil
}
