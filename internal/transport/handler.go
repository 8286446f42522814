package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-channel-histogram/internal/analyzer"
	"go-channel-histogram/internal/config"
	apperrors "go-channel-histogram/internal/errors"
	"go-channel-histogram/internal/logger"
	"go-channel-histogram/internal/observer"
	"go-channel-histogram/internal/service"
	"go-channel-histogram/pkg/models"
)

// NewHandler builds the HTTP surface over the histogram service.
func NewHandler(svc service.HistogramService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(metrics))
	r.POST("/analyze", analyzeImage(svc, cfg))
	r.GET("/chart", renderChart(svc, cfg))
	r.GET("/preview", renderPreview(svc, cfg))
	r.GET("/history", history(svc, cfg))

	g := r.Group("/gallery")
	{
		g.GET("/current", galleryCurrent(svc, cfg))
		g.POST("/next", galleryNext(svc, cfg))
		g.POST("/prev", galleryPrev(svc, cfg))
		g.POST("/load", galleryLoad(svc, cfg))
		g.GET("/summary", gallerySummary(svc, cfg))
	}

	return r
}

func analyzeImage(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing analysis request")

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		options := analyzer.DefaultOptions().WithThreshold(cfg.BrightnessThreshold)
		if req.Threshold != nil {
			options = options.WithThreshold(*req.Threshold)
		}
		if req.SkipChannelBalance {
			options = options.WithoutChannelBalance()
		}

		response, err := svc.AnalyzeRef(ctx, req.Ref, options)
		if err != nil {
			respondAppError(c, "analysis failed", err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

func renderChart(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		ref := c.Query("ref")
		if ref == "" {
			respondError(c, http.StatusBadRequest, "missing ref parameter", nil)
			return
		}
		width := queryInt(c, "width", 0)
		height := queryInt(c, "height", 0)

		png, err := svc.RenderChart(ctx, ref, width, height)
		if err != nil {
			respondAppError(c, "chart rendering failed", err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

func renderPreview(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		ref := c.Query("ref")
		if ref == "" {
			respondError(c, http.StatusBadRequest, "missing ref parameter", nil)
			return
		}
		maxW := queryInt(c, "max_width", 0)
		maxH := queryInt(c, "max_height", 0)

		png, err := svc.RenderPreview(ctx, ref, maxW, maxH)
		if err != nil {
			respondAppError(c, "preview rendering failed", err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

func history(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		ref := c.Query("ref")
		results, err := svc.History(ctx, ref)
		if err != nil {
			respondAppError(c, "history lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ref": ref, "results": results})
	}
}

func galleryCurrent(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return galleryOp(cfg, svc.GalleryCurrent)
}

func galleryNext(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return galleryOp(cfg, svc.GalleryNext)
}

func galleryPrev(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return galleryOp(cfg, svc.GalleryPrev)
}

// galleryOp wraps the carousel operations that share a response shape.
func galleryOp(cfg *config.Config, op func(context.Context) (*models.AnalysisResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		response, err := op(ctx)
		if err != nil {
			respondAppError(c, "gallery operation failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func galleryLoad(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req struct {
			Path string `json:"path" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		response, err := svc.GalleryLoadCustom(ctx, req.Path)
		if err != nil {
			respondAppError(c, "failed to load custom image", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func gallerySummary(svc service.HistogramService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		summary, err := svc.GallerySummary(ctx)
		if err != nil {
			respondAppError(c, "gallery summary failed", err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func healthCheck(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "available",
			"version": "1.0.0",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if metrics != nil {
			body["metrics"] = metrics.GetMetrics()
		}
		c.JSON(http.StatusOK, body)
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if value := c.Query(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// respondAppError maps typed application errors onto HTTP status codes.
func respondAppError(c *gin.Context, message string, err error) {
	respondError(c, determineStatusCode(err), message, err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	body := models.ErrorResponse{Error: http.StatusText(code)}
	if err != nil {
		body.Message = fmt.Sprintf("%s: %v", message, err)
	} else {
		body.Message = message
	}
	c.AbortWithStatusJSON(code, body)
}
