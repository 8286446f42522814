package factory

import (
	"testing"
	"time"

	"go-channel-histogram/internal/config"
	"go-channel-histogram/internal/storage"
)

func TestCreateFetcher(t *testing.T) {
	f := NewStorageFactory()
	cfg := &config.Config{ImageFetchTimeout: 5 * time.Second}

	httpFetcher, err := f.CreateFetcher(config.BackendHTTP, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := httpFetcher.(*storage.HTTPImageFetcher); !ok {
		t.Errorf("Expected HTTP fetcher, got %T", httpFetcher)
	}

	localFetcher, err := f.CreateFetcher(config.BackendLocal, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := localFetcher.(*storage.LocalImageFetcher); !ok {
		t.Errorf("Expected local fetcher, got %T", localFetcher)
	}
}

func TestCreateFetcher_UnsupportedBackend(t *testing.T) {
	f := NewStorageFactory()

	if _, err := f.CreateFetcher(config.StorageBackend("s3"), &config.Config{}); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}

func TestCreateFetcher_AzureBadCredentials(t *testing.T) {
	f := NewStorageFactory()
	cfg := &config.Config{AzureAccountName: "account", AzureAccountKey: "not base64!"}

	if _, err := f.CreateFetcher(config.BackendAzure, cfg); err == nil {
		t.Error("Expected error for malformed azure key")
	}
}
