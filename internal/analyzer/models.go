package analyzer

import (
	"go-channel-histogram/pkg/models"
)

// AnalysisResult and ChannelCounts are aliases to the shared models so the
// analyzer, service and transport layers agree on one result shape.
type AnalysisResult = models.AnalysisResult

type ChannelCounts = models.ChannelCounts
