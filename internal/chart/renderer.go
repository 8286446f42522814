// Package chart renders channel brightness results as a three-bar column
// chart: one bar per color channel, y-axis fixed to 0-100 percent, each bar
// labeled with both the percentage and the raw count.
package chart

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "go-channel-histogram/internal/errors"
	"go-channel-histogram/pkg/models"
)

var (
	redFill   = drawing.Color{R: 220, G: 60, B: 60, A: 200}
	greenFill = drawing.Color{R: 60, G: 160, B: 60, A: 200}
	blueFill  = drawing.Color{R: 60, G: 90, B: 220, A: 200}
)

// Renderer draws ChannelCounts bar charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer with the given canvas size in pixels.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Render writes a PNG bar chart for the given counts. Percentages are
// derived with the shared zero-guard, so an empty result renders as three
// zero-height bars instead of failing.
func (r *Renderer) Render(w io.Writer, counts models.ChannelCounts) error {
	pcts := counts.Percentages()

	graph := chart.BarChart{
		Title:    "Bright pixels per channel",
		Width:    r.width,
		Height:   r.height,
		BarWidth: r.width / 6,
		XAxis: chart.Style{
			FontSize: 9,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: []chart.Value{
			barValue("Red", pcts.Red, counts.Red, redFill),
			barValue("Green", pcts.Green, counts.Green, greenFill),
			barValue("Blue", pcts.Blue, counts.Blue, blueFill),
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return apperrors.NewProcessingError("failed to render chart", err)
	}
	return nil
}

// barValue builds one bar, labeled like "Red 25.0% (1)".
func barValue(name string, percentage float64, count int, fill drawing.Color) chart.Value {
	return chart.Value{
		Value: percentage,
		Label: fmt.Sprintf("%s %.1f%% (%d)", name, percentage, count),
		Style: chart.Style{
			FillColor:   fill,
			StrokeColor: fill,
			StrokeWidth: 0,
		},
	}
}
