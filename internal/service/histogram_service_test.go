package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-channel-histogram/internal/analyzer"
	"go-channel-histogram/internal/chart"
	"go-channel-histogram/internal/config"
	apperrors "go-channel-histogram/internal/errors"
	"go-channel-histogram/internal/gallery"
	"go-channel-histogram/internal/observer"
	"go-channel-histogram/internal/repository"
	"go-channel-histogram/internal/storage"
)

func writeColorPNG(t *testing.T, path string, fill color.NRGBA, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

type testEnv struct {
	svc        HistogramService
	galleryDir string
	metrics    *observer.MetricsObserver
	cfg        *config.Config
}

// newTestEnv wires a service over the local filesystem with a two-image
// gallery: a bright white frame and a dark one.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	writeColorPNG(t, filepath.Join(dir, "bright.png"), color.NRGBA{255, 255, 255, 255}, 4, 4)
	writeColorPNG(t, filepath.Join(dir, "dark.png"), color.NRGBA{10, 10, 10, 255}, 4, 4)

	cfg := &config.Config{
		RequestTimeout:      10 * time.Second,
		ImageFetchTimeout:   10 * time.Second,
		BrightnessThreshold: 128,
		GalleryDir:          dir,
		ChartWidth:          320,
		ChartHeight:         240,
		PreviewMaxW:         100,
		PreviewMaxH:         100,
		Backend:             config.BackendLocal,
	}

	a, err := analyzer.NewBrightnessAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	g, err := gallery.New(dir)
	if err != nil {
		t.Fatalf("Failed to create gallery: %v", err)
	}

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(metrics)

	localRepo := repository.NewImageRepository(storage.NewLocalImageFetcher())
	svc := NewHistogramService(
		localRepo,
		localRepo,
		repository.NewMemoryHistoryRepository(10),
		a,
		chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		g,
		publisher,
		cfg,
	)

	return &testEnv{svc: svc, galleryDir: dir, metrics: metrics, cfg: cfg}
}

func TestAnalyzeRef_LocalFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ref := filepath.Join(env.galleryDir, "bright.png")
	response, err := env.svc.AnalyzeRef(ctx, ref, analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := response.Result
	if result.Counts.TotalPixels != 16 {
		t.Errorf("Expected 16 total pixels, got %d", result.Counts.TotalPixels)
	}
	if result.Counts.Red != 16 || result.Counts.Green != 16 || result.Counts.Blue != 16 {
		t.Errorf("Expected all-bright counts, got %+v", result.Counts)
	}
	if result.Percentages.Red != 100 {
		t.Errorf("Expected 100%% red, got %f", result.Percentages.Red)
	}
	if result.ID == "" {
		t.Error("Expected result to be assigned a history ID")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no sanity issues, got %v", result.Errors)
	}
	if response.Metadata == nil || response.Metadata.Width != 4 || response.Metadata.Format != "png" {
		t.Errorf("Expected 4x4 png metadata, got %+v", response.Metadata)
	}
}

func TestAnalyzeRef_RecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ref := filepath.Join(env.galleryDir, "dark.png")
	for i := 0; i < 2; i++ {
		if _, err := env.svc.AnalyzeRef(ctx, ref, analyzer.DefaultOptions()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	history, err := env.svc.History(ctx, ref)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(history))
	}
}

func TestAnalyzeRef_ValidatesURLForHTTPBackend(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Backend = config.BackendHTTP

	_, err := env.svc.AnalyzeRef(context.Background(), "not-a-url", analyzer.DefaultOptions())
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestAnalyzeRef_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AnalyzeRef(context.Background(), filepath.Join(env.galleryDir, "missing.png"), analyzer.DefaultOptions())
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("Expected network error for failed fetch, got %v", err)
	}
	if env.metrics.GetMetrics()["failed_loads"] != int64(1) {
		t.Errorf("Expected failed load counted, got %v", env.metrics.GetMetrics())
	}
}

func TestRenderChart_ProducesPNG(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.svc.RenderChart(context.Background(), filepath.Join(env.galleryDir, "bright.png"), 0, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Chart is not a valid PNG: %v", err)
	}
	if cfg.Width != env.cfg.ChartWidth || cfg.Height != env.cfg.ChartHeight {
		t.Errorf("Expected %dx%d chart, got %dx%d", env.cfg.ChartWidth, env.cfg.ChartHeight, cfg.Width, cfg.Height)
	}
}

func TestRenderChart_CustomDimensions(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.svc.RenderChart(context.Background(), filepath.Join(env.galleryDir, "bright.png"), 640, 480)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Chart is not a valid PNG: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("Expected 640x480 chart, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderPreview_FitsBox(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.svc.RenderPreview(context.Background(), filepath.Join(env.galleryDir, "bright.png"), 0, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Preview is not a valid PNG: %v", err)
	}
	// Square source scaled up into the 100x100 box.
	if cfg.Width != 100 || cfg.Height != 100 {
		t.Errorf("Expected 100x100 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestGalleryNavigation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	current, err := env.svc.GalleryCurrent(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(current.Result.ImageRef) != "bright.png" {
		t.Errorf("Expected bright.png first, got %s", current.Result.ImageRef)
	}
	if current.Result.Counts.Red != 16 {
		t.Errorf("Expected bright image counts, got %+v", current.Result.Counts)
	}

	next, err := env.svc.GalleryNext(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(next.Result.ImageRef) != "dark.png" {
		t.Errorf("Expected dark.png next, got %s", next.Result.ImageRef)
	}
	if next.Result.Counts.Red != 0 || next.Result.Counts.Green != 0 || next.Result.Counts.Blue != 0 {
		t.Errorf("Expected dark image to have zero bright counts, got %+v", next.Result.Counts)
	}

	prev, err := env.svc.GalleryPrev(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(prev.Result.ImageRef) != "bright.png" {
		t.Errorf("Expected bright.png again, got %s", prev.Result.ImageRef)
	}
}

func TestGalleryLoadCustom(t *testing.T) {
	env := newTestEnv(t)

	custom := filepath.Join(t.TempDir(), "custom.png")
	writeColorPNG(t, custom, color.NRGBA{200, 0, 0, 255}, 2, 2)

	response, err := env.svc.GalleryLoadCustom(context.Background(), custom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if response.Result.ImageRef != custom {
		t.Errorf("Expected custom ref, got %s", response.Result.ImageRef)
	}
	if response.Result.Counts.Red != 4 || response.Result.Counts.Green != 0 {
		t.Errorf("Expected red-only counts, got %+v", response.Result.Counts)
	}
}

func TestGallerySummary(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.svc.GallerySummary(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Count != 2 || len(summary.Results) != 2 {
		t.Fatalf("Expected 2 images in summary, got count=%d results=%d", summary.Count, len(summary.Results))
	}
	if filepath.Base(summary.Results[0].ImageRef) != "bright.png" {
		t.Errorf("Expected bright.png first, got %s", summary.Results[0].ImageRef)
	}
	if summary.Results[0].Counts.Red != 16 || summary.Results[1].Counts.Red != 0 {
		t.Errorf("Unexpected summary counts: %+v / %+v", summary.Results[0].Counts, summary.Results[1].Counts)
	}
}

func TestHistory_EmptyRef(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.svc.History(context.Background(), ""); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestAnalyze_PublishesMetrics(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.svc.GalleryCurrent(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	metrics := env.metrics.GetMetrics()
	if metrics["total_analyses"] != int64(1) || metrics["successful_analyses"] != int64(1) {
		t.Errorf("Expected one successful analysis recorded, got %v", metrics)
	}
}
