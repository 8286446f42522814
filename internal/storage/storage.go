package storage

import (
	"context"
	"image"

	// Decoders for the formats the viewer accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageFetcher retrieves and decodes an image identified by a backend
// specific ref: a URL for HTTP, a filesystem path for local, a
// container/blob pair for Azure.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (image.Image, error)
}
