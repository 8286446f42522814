package validation

import (
	"fmt"

	"go-channel-histogram/pkg/models"
)

// CountsIssue flags a result that escaped the analyzer's own guarantees.
type CountsIssue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CountsValidator checks analysis results against the count invariants
// before they leave the service: each channel count stays within
// [0, total_pixels] and the total matches the image dimensions. A violation
// means an analyzer bug, so issues are reported rather than silently
// corrected.
type CountsValidator struct{}

// NewCountsValidator creates a counts validator.
func NewCountsValidator() *CountsValidator {
	return &CountsValidator{}
}

// Validate returns one issue per violated invariant; nil for a healthy
// result.
func (v *CountsValidator) Validate(counts models.ChannelCounts, width, height int) []CountsIssue {
	var issues []CountsIssue

	if counts.TotalPixels != width*height {
		issues = append(issues, CountsIssue{
			Type: "total_mismatch",
			Message: fmt.Sprintf("total_pixels %d does not equal %dx%d",
				counts.TotalPixels, width, height),
		})
	}

	for _, channel := range []struct {
		name  string
		count int
	}{
		{"red", counts.Red},
		{"green", counts.Green},
		{"blue", counts.Blue},
	} {
		if channel.count < 0 || channel.count > counts.TotalPixels {
			issues = append(issues, CountsIssue{
				Type: "count_out_of_range",
				Message: fmt.Sprintf("%s count %d outside [0, %d]",
					channel.name, channel.count, counts.TotalPixels),
			})
		}
	}

	return issues
}

// Messages flattens issues into plain strings for the result's Errors
// field.
func (v *CountsValidator) Messages(issues []CountsIssue) []string {
	if len(issues) == 0 {
		return nil
	}
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message
	}
	return messages
}
