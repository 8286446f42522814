package repository

import (
	"context"
	"image"

	"go-channel-histogram/pkg/models"
)

// ImageRepository is the data-access boundary for images: it fetches pixel
// data and lightweight metadata from whatever backend it was built over.
type ImageRepository interface {
	// FetchImage retrieves a decoded image for the given ref.
	FetchImage(ctx context.Context, ref string) (image.Image, error)

	// GetImageMetadata retrieves metadata without decoding the full
	// pixel data where the backend supports it.
	GetImageMetadata(ctx context.Context, ref string) (*models.ImageMetadata, error)
}

// HistoryRepository stores analysis results keyed by image ref.
type HistoryRepository interface {
	// Save stores a result and assigns it an ID.
	Save(ctx context.Context, result *models.AnalysisResult) error

	// Get retrieves a stored result by ID.
	Get(ctx context.Context, id string) (*models.AnalysisResult, error)

	// History retrieves all stored results for an image ref, oldest
	// first.
	History(ctx context.Context, ref string) ([]*models.AnalysisResult, error)
}
