package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"time"

	"go-channel-histogram/internal/analyzer"
	"go-channel-histogram/internal/chart"
	"go-channel-histogram/internal/config"
	apperrors "go-channel-histogram/internal/errors"
	"go-channel-histogram/internal/gallery"
	"go-channel-histogram/internal/observer"
	"go-channel-histogram/internal/preview"
	"go-channel-histogram/internal/repository"
	"go-channel-histogram/pkg/models"
	"go-channel-histogram/pkg/validation"
)

// HistogramService orchestrates the viewer's operations: fetch an image,
// tally bright pixels per channel, and hand percentages, charts and scaled
// previews to the presentation side.
type HistogramService interface {
	// AnalyzeRef fetches an image from the configured backend and
	// analyzes it.
	AnalyzeRef(ctx context.Context, ref string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error)

	// RenderChart returns the PNG bar chart for an image.
	RenderChart(ctx context.Context, ref string, width, height int) ([]byte, error)

	// RenderPreview returns a PNG of the image scaled to fit the given
	// box.
	RenderPreview(ctx context.Context, ref string, maxWidth, maxHeight int) ([]byte, error)

	// GalleryCurrent analyzes the carousel's current image.
	GalleryCurrent(ctx context.Context) (*models.AnalysisResponse, error)

	// GalleryNext advances the carousel and analyzes the new image.
	GalleryNext(ctx context.Context) (*models.AnalysisResponse, error)

	// GalleryPrev steps the carousel back and analyzes the new image.
	GalleryPrev(ctx context.Context) (*models.AnalysisResponse, error)

	// GalleryLoadCustom loads a user-chosen file as the current image
	// and analyzes it.
	GalleryLoadCustom(ctx context.Context, path string) (*models.AnalysisResponse, error)

	// GallerySummary analyzes every image in the gallery directory.
	GallerySummary(ctx context.Context) (*models.GallerySummary, error)

	// History returns the stored results for an image ref.
	History(ctx context.Context, ref string) ([]*models.AnalysisResult, error)
}

// imageWithRef pairs a decoded image with the path it came from for batch
// analysis.
type imageWithRef struct {
	ref string
	img image.Image
}

type histogramService struct {
	remoteRepo  repository.ImageRepository
	localRepo   repository.ImageRepository
	historyRepo repository.HistoryRepository

	analyzer analyzer.BrightnessAnalyzer
	renderer *chart.Renderer
	gallery  *gallery.Gallery

	publisher       observer.Subject
	refValidator    *validation.RefValidator
	countsValidator *validation.CountsValidator

	cfg *config.Config
}

// NewHistogramService wires the service from its collaborators.
func NewHistogramService(
	remoteRepo repository.ImageRepository,
	localRepo repository.ImageRepository,
	historyRepo repository.HistoryRepository,
	brightnessAnalyzer analyzer.BrightnessAnalyzer,
	renderer *chart.Renderer,
	imageGallery *gallery.Gallery,
	publisher observer.Subject,
	cfg *config.Config,
) HistogramService {
	return &histogramService{
		remoteRepo:      remoteRepo,
		localRepo:       localRepo,
		historyRepo:     historyRepo,
		analyzer:        brightnessAnalyzer,
		renderer:        renderer,
		gallery:         imageGallery,
		publisher:       publisher,
		refValidator:    validation.NewRefValidator(),
		countsValidator: validation.NewCountsValidator(),
		cfg:             cfg,
	}
}

// DefaultOptions returns the analysis options implied by the configuration.
func (s *histogramService) defaultOptions() analyzer.AnalysisOptions {
	return analyzer.DefaultOptions().WithThreshold(s.cfg.BrightnessThreshold)
}

// AnalyzeRef fetches and analyzes a remote image.
func (s *histogramService) AnalyzeRef(ctx context.Context, ref string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error) {
	if s.cfg.Backend == config.BackendHTTP {
		if err := s.refValidator.ValidateURL(ref); err != nil {
			return nil, err
		}
	}
	return s.analyzeWith(ctx, s.remoteRepo, ref, options)
}

// RenderChart analyzes the image and draws its bar chart.
func (s *histogramService) RenderChart(ctx context.Context, ref string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = s.cfg.ChartWidth
	}
	if height <= 0 {
		height = s.cfg.ChartHeight
	}

	response, err := s.analyzeWith(ctx, s.resolveRepo(ref), ref, s.defaultOptions().WithoutChannelBalance())
	if err != nil {
		return nil, err
	}

	renderer := s.renderer
	if width != s.cfg.ChartWidth || height != s.cfg.ChartHeight {
		renderer = chart.NewRenderer(width, height)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, response.Result.Counts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPreview fetches the image and scales it to fit the box.
func (s *histogramService) RenderPreview(ctx context.Context, ref string, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = s.cfg.PreviewMaxW
	}
	if maxHeight <= 0 {
		maxHeight = s.cfg.PreviewMaxH
	}

	img, err := s.fetch(ctx, s.resolveRepo(ref), ref)
	if err != nil {
		return nil, err
	}

	scaled, err := preview.Fit(img, maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, apperrors.NewProcessingError("failed to encode preview", err)
	}
	return buf.Bytes(), nil
}

// GalleryCurrent analyzes the carousel's current image.
func (s *histogramService) GalleryCurrent(ctx context.Context) (*models.AnalysisResponse, error) {
	path, err := s.gallery.Current()
	if err != nil {
		return nil, apperrors.NewNotFoundError("gallery is empty", err)
	}
	return s.analyzeWith(ctx, s.localRepo, path, s.defaultOptions())
}

// GalleryNext advances the carousel and analyzes the new image.
func (s *histogramService) GalleryNext(ctx context.Context) (*models.AnalysisResponse, error) {
	path, err := s.gallery.Next()
	if err != nil {
		return nil, apperrors.NewNotFoundError("gallery is empty", err)
	}
	return s.analyzeWith(ctx, s.localRepo, path, s.defaultOptions())
}

// GalleryPrev steps the carousel back and analyzes the new image.
func (s *histogramService) GalleryPrev(ctx context.Context) (*models.AnalysisResponse, error) {
	path, err := s.gallery.Prev()
	if err != nil {
		return nil, apperrors.NewNotFoundError("gallery is empty", err)
	}
	return s.analyzeWith(ctx, s.localRepo, path, s.defaultOptions())
}

// GalleryLoadCustom loads a user-chosen file as the current image.
func (s *histogramService) GalleryLoadCustom(ctx context.Context, path string) (*models.AnalysisResponse, error) {
	if err := s.gallery.LoadCustom(path); err != nil {
		return nil, err
	}
	return s.analyzeWith(ctx, s.localRepo, path, s.defaultOptions())
}

// GallerySummary loads every carousel image and analyzes the batch on the
// analyzer's worker pool.
func (s *histogramService) GallerySummary(ctx context.Context) (*models.GallerySummary, error) {
	if err := s.gallery.Rescan(); err != nil {
		return nil, err
	}
	paths := s.gallery.Paths()

	summary := &models.GallerySummary{
		Directory: s.gallery.Dir(),
		Count:     len(paths),
		Results:   make([]models.AnalysisResult, 0, len(paths)),
	}
	if len(paths) == 0 {
		return summary, nil
	}

	imgs := make([]imageWithRef, 0, len(paths))
	for _, path := range paths {
		img, err := s.fetch(ctx, s.localRepo, path)
		if err != nil {
			// A single unreadable file does not sink the summary.
			continue
		}
		imgs = append(imgs, imageWithRef{ref: path, img: img})
	}

	batch := make([]image.Image, len(imgs))
	for i, entry := range imgs {
		batch[i] = entry.img
	}
	results := s.analyzer.AnalyzeAll(batch, s.defaultOptions())

	for i, result := range results {
		result.ImageRef = imgs[i].ref
		summary.Results = append(summary.Results, result)
	}
	return summary, nil
}

// History returns the stored results for an image ref.
func (s *histogramService) History(ctx context.Context, ref string) ([]*models.AnalysisResult, error) {
	if ref == "" {
		return nil, apperrors.NewValidationError("image ref cannot be empty", nil)
	}
	return s.historyRepo.History(ctx, ref)
}

// resolveRepo picks the local repository for refs that exist on disk and
// the configured remote backend for everything else, so chart and preview
// endpoints serve both gallery paths and remote refs.
func (s *histogramService) resolveRepo(ref string) repository.ImageRepository {
	if _, err := os.Stat(ref); err == nil {
		return s.localRepo
	}
	return s.remoteRepo
}

// fetch loads an image and publishes load events.
func (s *histogramService) fetch(ctx context.Context, repo repository.ImageRepository, ref string) (image.Image, error) {
	img, err := repo.FetchImage(ctx, ref)
	if err != nil {
		s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:    observer.ImageLoadFailed,
			Timestamp:    time.Now(),
			ImageRef:     ref,
			ErrorMessage: err.Error(),
		})
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.ImageLoaded,
		Timestamp: time.Now(),
		ImageRef:  ref,
		Success:   true,
	})
	return img, nil
}

// analyzeWith runs the full flow for one image: fetch, analyze, sanity
// check, record history, publish events.
func (s *histogramService) analyzeWith(ctx context.Context, repo repository.ImageRepository, ref string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error) {
	start := time.Now()
	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: start,
		ImageRef:  ref,
	})

	img, err := s.fetch(ctx, repo, ref)
	if err != nil {
		s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:    observer.AnalysisFailed,
			Timestamp:    time.Now(),
			ImageRef:     ref,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	result := s.analyzer.AnalyzeWithOptions(img, options)
	result.ImageRef = ref

	issues := s.countsValidator.Validate(result.Counts, result.Width, result.Height)
	result.Errors = s.countsValidator.Messages(issues)

	if err := s.historyRepo.Save(ctx, &result); err != nil {
		return nil, apperrors.NewInternalError("failed to record analysis result", err)
	}

	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		ImageRef:       ref,
		ProcessingTime: time.Since(start),
		Success:        true,
		TotalPixels:    result.Counts.TotalPixels,
		Threshold:      result.Threshold,
	})

	response := &models.AnalysisResponse{Result: result}
	if metadata, err := repo.GetImageMetadata(ctx, ref); err == nil {
		response.Metadata = metadata
	}
	return response, nil
}
