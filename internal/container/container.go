package container

import (
	"fmt"
	"net/http"

	"go-channel-histogram/internal/analyzer"
	"go-channel-histogram/internal/chart"
	"go-channel-histogram/internal/config"
	"go-channel-histogram/internal/factory"
	"go-channel-histogram/internal/gallery"
	"go-channel-histogram/internal/logger"
	"go-channel-histogram/internal/observer"
	"go-channel-histogram/internal/repository"
	"go-channel-histogram/internal/service"
	"go-channel-histogram/internal/storage"
	"go-channel-histogram/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	remoteFetcher    storage.ImageFetcher
	analyzer         analyzer.BrightnessAnalyzer
	gallery          *gallery.Gallery
	metrics          *observer.MetricsObserver
	histogramService service.HistogramService
	handler          http.Handler
}

// NewContainer builds the dependency graph from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	storageFactory := factory.NewStorageFactory()
	remoteFetcher, err := storageFactory.CreateFetcher(cfg.Backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	localFetcher := storage.NewLocalImageFetcher()

	brightnessAnalyzer, err := analyzer.NewBrightnessAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	imageGallery, err := gallery.New(cfg.GalleryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open gallery: %w", err)
	}

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	remoteRepo := repository.NewImageRepository(remoteFetcher)
	localRepo := repository.NewImageRepository(localFetcher)
	historyRepo := repository.NewMemoryHistoryRepository(100)

	renderer := chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)

	histogramService := service.NewHistogramService(
		remoteRepo,
		localRepo,
		historyRepo,
		brightnessAnalyzer,
		renderer,
		imageGallery,
		publisher,
		cfg,
	)

	handler := transport.NewHandler(histogramService, metrics, cfg)

	return &Container{
		config:           cfg,
		remoteFetcher:    remoteFetcher,
		analyzer:         brightnessAnalyzer,
		gallery:          imageGallery,
		metrics:          metrics,
		histogramService: histogramService,
		handler:          handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the analyzer's worker pool.
func (c *Container) Close() error {
	return c.analyzer.Close()
}
