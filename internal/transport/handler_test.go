package transport

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-channel-histogram/internal/analyzer"
	"go-channel-histogram/internal/chart"
	"go-channel-histogram/internal/config"
	"go-channel-histogram/internal/gallery"
	"go-channel-histogram/internal/observer"
	"go-channel-histogram/internal/repository"
	"go-channel-histogram/internal/service"
	"go-channel-histogram/internal/storage"
	"go-channel-histogram/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestHandler serves the API over a temp gallery with one bright image,
// using the local filesystem for every fetch.
func newTestHandler(t *testing.T) (http.Handler, string) {
	t.Helper()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "bright.png")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	cfg := &config.Config{
		RequestTimeout:      10 * time.Second,
		ImageFetchTimeout:   10 * time.Second,
		MaxRequestBodySize:  1 << 20,
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
	svc := service.NewHistogramService(
		localRepo,
		localRepo,
		repository.NewMemoryHistoryRepository(10),
		a,
		chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		g,
		publisher,
		cfg,
	)

	return NewHandler(svc, metrics, cfg), imgPath
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("Expected available status, got %v", body["status"])
	}
	if _, ok := body["metrics"]; !ok {
		t.Error("Expected metrics in health response")
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	handler, imgPath := newTestHandler(t)

	payload, _ := json.Marshal(models.AnalyzeRequest{Ref: imgPath})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if response.Result.Counts.TotalPixels != 16 {
		t.Errorf("Expected 16 total pixels, got %d", response.Result.Counts.TotalPixels)
	}
	if response.Result.Counts.Red != 16 {
		t.Errorf("Expected 16 bright red pixels, got %d", response.Result.Counts.Red)
	}
}

func TestAnalyzeEndpoint_InvalidBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"threshold": 10}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing ref, got %d", w.Code)
	}
}

func TestChartEndpoint(t *testing.T) {
	handler, imgPath := newTestHandler(t)

	target := "/chart?ref=" + url.QueryEscape(imgPath)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if _, err := png.DecodeConfig(w.Body); err != nil {
		t.Errorf("Chart body is not a valid PNG: %v", err)
	}
}

func TestChartEndpoint_MissingRef(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chart", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing ref, got %d", w.Code)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	handler, imgPath := newTestHandler(t)

	target := "/preview?ref=" + url.QueryEscape(imgPath) + "&max_width=50&max_height=50"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cfg, err := png.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("Preview body is not a valid PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 50 {
		t.Errorf("Expected 50x50 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestGalleryEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery/current", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for current, got %d: %s", w.Code, w.Body.String())
	}

	var response models.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if filepath.Base(response.Result.ImageRef) != "bright.png" {
		t.Errorf("Expected bright.png, got %s", response.Result.ImageRef)
	}

	// Single image: next wraps back to the same one.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gallery/next", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for next, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery/summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for summary, got %d: %s", w.Code, w.Body.String())
	}
	var summary models.GallerySummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if summary.Count != 1 {
		t.Errorf("Expected 1 image in summary, got %d", summary.Count)
	}
}

func TestGalleryLoadEndpoint(t *testing.T) {
	handler, imgPath := newTestHandler(t)

	body, _ := json.Marshal(map[string]string{"path": imgPath})
	req := httptest.NewRequest(http.MethodPost, "/gallery/load", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Missing file maps to 404 through the typed error.
	body, _ = json.Marshal(map[string]string{"path": filepath.Join(t.TempDir(), "missing.png")})
	req = httptest.NewRequest(http.MethodPost, "/gallery/load", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing file, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHistoryEndpoint(t *testing.T) {
	handler, imgPath := newTestHandler(t)

	// Run one analysis so the history has an entry.
	payload, _ := json.Marshal(models.AnalyzeRequest{Ref: imgPath})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Analysis failed: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history?ref="+url.QueryEscape(imgPath), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Ref     string                   `json:"ref"`
		Results []*models.AnalysisResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(body.Results) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(body.Results))
	}
}
