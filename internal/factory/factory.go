package factory

import (
	"fmt"

	"go-channel-histogram/internal/config"
	"go-channel-histogram/internal/storage"
)

// StorageFactory creates image fetchers for the configured backend.
type StorageFactory interface {
	CreateFetcher(backend config.StorageBackend, cfg *config.Config) (storage.ImageFetcher, error)
}

type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateFetcher creates a fetcher for the given backend.
func (f *storageFactory) CreateFetcher(backend config.StorageBackend, cfg *config.Config) (storage.ImageFetcher, error) {
	switch backend {
	case config.BackendHTTP:
		return storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout), nil
	case config.BackendLocal:
		return storage.NewLocalImageFetcher(), nil
	case config.BackendAzure:
		return storage.NewAzureImageFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
