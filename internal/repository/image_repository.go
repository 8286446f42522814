package repository

import (
	"context"
	"image"

	"go-channel-histogram/internal/storage"
	"go-channel-histogram/pkg/models"
)

// fetcherImageRepository implements ImageRepository over a storage fetcher.
type fetcherImageRepository struct {
	fetcher storage.ImageFetcher
}

// NewImageRepository creates a repository backed by the given fetcher.
func NewImageRepository(fetcher storage.ImageFetcher) ImageRepository {
	return &fetcherImageRepository{fetcher: fetcher}
}

// FetchImage retrieves a decoded image for the given ref.
func (r *fetcherImageRepository) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, ErrInvalidImageRef
	}
	return r.fetcher.FetchImage(ctx, ref)
}

// GetImageMetadata reads header-level metadata. Local fetchers can decode
// just the header; other backends fall back to a full fetch.
func (r *fetcherImageRepository) GetImageMetadata(ctx context.Context, ref string) (*models.ImageMetadata, error) {
	if ref == "" {
		return nil, ErrInvalidImageRef
	}

	if local, ok := r.fetcher.(*storage.LocalImageFetcher); ok {
		cfg, format, err := local.DecodeConfig(ref)
		if err != nil {
			return nil, err
		}
		return &models.ImageMetadata{
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: format,
		}, nil
	}

	img, err := r.fetcher.FetchImage(ctx, ref)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &models.ImageMetadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
