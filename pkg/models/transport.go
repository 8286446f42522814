package models

// AnalyzeRequest is the request body for POST /analyze. Ref is a URL for
// the http backend, a filesystem path for the local backend, or a
// container/blob pair for azure; backend-specific validation happens in the
// service.
type AnalyzeRequest struct {
	Ref string `json:"ref" binding:"required"`

	// Threshold overrides the configured brightness cutoff when set.
	Threshold *uint8 `json:"threshold,omitempty"`

	// SkipChannelBalance disables the per-channel mean computation.
	SkipChannelBalance bool `json:"skip_channel_balance,omitempty"`
}

// AnalysisResponse wraps a result for the HTTP surface.
type AnalysisResponse struct {
	Result   AnalysisResult `json:"result"`
	Metadata *ImageMetadata `json:"metadata,omitempty"`
}

// GallerySummary aggregates results for every image in the gallery
// directory.
type GallerySummary struct {
	Directory string           `json:"directory"`
	Count     int              `json:"count"`
	Results   []AnalysisResult `json:"results"`
}

// ErrorResponse is the common error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
