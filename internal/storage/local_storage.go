package storage

import (
	"context"
	"fmt"
	"image"
	"os"
)

// LocalImageFetcher decodes images from the local filesystem. The gallery
// carousel always loads through this fetcher, whatever the configured
// remote backend is.
type LocalImageFetcher struct{}

// NewLocalImageFetcher creates a filesystem-backed fetcher.
func NewLocalImageFetcher() ImageFetcher {
	return &LocalImageFetcher{}
}

// FetchImage opens and decodes the image at the given path.
func (l *LocalImageFetcher) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", ref, err)
	}
	return img, nil
}

// DecodeConfig reads only the image header and returns dimensions and
// format without decoding the pixels.
func (l *LocalImageFetcher) DecodeConfig(ref string) (image.Config, string, error) {
	f, err := os.Open(ref)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg, format, nil
}
