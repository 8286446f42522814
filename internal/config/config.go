package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects where remote image refs are fetched from.
type StorageBackend string

const (
	BackendHTTP  StorageBackend = "http"
	BackendLocal StorageBackend = "local"
	BackendAzure StorageBackend = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// Brightness cutoff on the 0-255 scale; a channel sample counts as
	// "bright" when strictly greater than this value.
	BrightnessThreshold uint8

	// GalleryDir is the directory the image carousel cycles through.
	GalleryDir string

	// Default dimensions for rendered charts and previews.
	ChartWidth    int
	ChartHeight   int
	PreviewMaxW   int
	PreviewMaxH   int

	Backend StorageBackend

	// Azure credentials, required only when Backend is "azure".
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		RequestTimeout:      parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:   parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize:  parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		BrightnessThreshold: 128,
		GalleryDir:          getEnvOrDefault("GALLERY_DIR", "images"),
		ChartWidth:          int(parseIntOrDefault("CHART_WIDTH", 512)),
		ChartHeight:         int(parseIntOrDefault("CHART_HEIGHT", 400)),
		PreviewMaxW:         int(parseIntOrDefault("PREVIEW_MAX_WIDTH", 400)),
		PreviewMaxH:         int(parseIntOrDefault("PREVIEW_MAX_HEIGHT", 300)),
		Backend:             StorageBackend(getEnvOrDefault("STORAGE_BACKEND", string(BackendHTTP))),
		AzureAccountName:    os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:     os.Getenv("AZURE_ACCOUNT_KEY"),
	}

	if value := os.Getenv("BRIGHTNESS_THRESHOLD"); value != "" {
		t, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid BRIGHTNESS_THRESHOLD: %q", value)
		}
		cfg.BrightnessThreshold = uint8(t)
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout)
	}
	if cfg.ChartWidth <= 0 || cfg.ChartHeight <= 0 {
		return nil, fmt.Errorf("chart dimensions must be > 0 (got %dx%d)", cfg.ChartWidth, cfg.ChartHeight)
	}
	if cfg.PreviewMaxW <= 0 || cfg.PreviewMaxH <= 0 {
		return nil, fmt.Errorf("preview dimensions must be > 0 (got %dx%d)", cfg.PreviewMaxW, cfg.PreviewMaxH)
	}

	switch cfg.Backend {
	case BackendHTTP, BackendLocal:
	case BackendAzure:
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure backend requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q", cfg.Backend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
