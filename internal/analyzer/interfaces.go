package analyzer

import "image"

// BrightnessAnalyzer is the main entry point for channel brightness
// analysis. Implementations are stateless per call and safe for concurrent
// use.
type BrightnessAnalyzer interface {
	// Analyze runs with default options. A nil image yields the defined
	// zero result, not an error.
	Analyze(img image.Image) AnalysisResult

	// AnalyzeWithOptions runs with explicit options.
	AnalyzeWithOptions(img image.Image, options AnalysisOptions) AnalysisResult

	// AnalyzeBuffer counts directly on a raw pixel buffer. This is the
	// only entry point that can observe a malformed shape; it surfaces
	// the contract violation instead of recovering.
	AnalyzeBuffer(buf *PixelBuffer, options AnalysisOptions) (ChannelCounts, error)

	// AnalyzeAll analyzes a batch of images on the worker pool. Results
	// are returned in input order.
	AnalyzeAll(imgs []image.Image, options AnalysisOptions) []AnalysisResult

	// Close releases the worker pool.
	Close() error
}

// ChannelCounter tallies bright pixels per channel.
type ChannelCounter interface {
	CountBright(buf *PixelBuffer, threshold uint8) ChannelCounts
}

// BalanceCalculator computes the mean sample value per channel.
type BalanceCalculator interface {
	ChannelBalance(buf *PixelBuffer) [3]float64
}
