package models

import "time"

// ChannelCounts holds, per color channel, the number of pixels whose channel
// value exceeds the brightness threshold, plus the total pixel count of the
// image. TotalPixels is height*width regardless of how many channels the
// source buffer carried.
type ChannelCounts struct {
	Red         int `json:"red"`
	Green       int `json:"green"`
	Blue        int `json:"blue"`
	TotalPixels int `json:"total_pixels"`
}

// ChannelPercentages expresses counts as percentages of the total pixel
// count, on a 0-100 scale.
type ChannelPercentages struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// Percentages derives the per-channel percentages from the raw counts.
// A zero total yields all-zero percentages rather than a division error.
func (c ChannelCounts) Percentages() ChannelPercentages {
	if c.TotalPixels == 0 {
		return ChannelPercentages{}
	}
	total := float64(c.TotalPixels)
	return ChannelPercentages{
		Red:   float64(c.Red) / total * 100,
		Green: float64(c.Green) / total * 100,
		Blue:  float64(c.Blue) / total * 100,
	}
}

// IsZero reports whether the result is the defined zero result for an
// absent image.
func (c ChannelCounts) IsZero() bool {
	return c == ChannelCounts{}
}

// AnalysisResult is the complete outcome of a single histogram analysis.
type AnalysisResult struct {
	ID                string    `json:"id,omitempty"`
	ImageRef          string    `json:"image_ref"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Width     int   `json:"width"`
	Height    int   `json:"height"`
	Threshold uint8 `json:"threshold"`

	Counts      ChannelCounts      `json:"counts"`
	Percentages ChannelPercentages `json:"percentages"`

	// ChannelBalance is the mean sample value per channel on a 0-1 scale,
	// in red, green, blue order. Populated unless balance computation was
	// disabled.
	ChannelBalance *[3]float64 `json:"channel_balance,omitempty"`

	// Errors carries sanity-check messages; empty for a healthy result.
	Errors []string `json:"errors,omitempty"`
}

// ImageMetadata describes a decoded image without its pixel data.
type ImageMetadata struct {
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length,omitempty"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format,omitempty"`
}
