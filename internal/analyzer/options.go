package analyzer

// DefaultThreshold is the brightness cutoff on the 0-255 scale. A channel
// sample counts as "bright" when strictly greater than the threshold.
const DefaultThreshold uint8 = 128

// AnalysisOptions configures a single analysis run.
type AnalysisOptions struct {
	// Threshold is the brightness cutoff applied to every channel.
	Threshold uint8

	// ComputeChannelBalance adds per-channel mean values to the result.
	ComputeChannelBalance bool

	// MaxWorkers caps the parallel row strips. Zero means one strip per
	// CPU.
	MaxWorkers int
}

// DefaultOptions returns the standard configuration: the documented 128
// cutoff with channel balance enabled.
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Threshold:             DefaultThreshold,
		ComputeChannelBalance: true,
		MaxWorkers:            0,
	}
}

// CountOnlyOptions returns options that skip everything except the counts.
func CountOnlyOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.ComputeChannelBalance = false
	return opts
}

// WithThreshold overrides the brightness cutoff.
func (opts AnalysisOptions) WithThreshold(threshold uint8) AnalysisOptions {
	opts.Threshold = threshold
	return opts
}

// WithoutChannelBalance disables the per-channel mean computation.
func (opts AnalysisOptions) WithoutChannelBalance() AnalysisOptions {
	opts.ComputeChannelBalance = false
	return opts
}

// WithMaxWorkers caps the strip parallelism.
func (opts AnalysisOptions) WithMaxWorkers(n int) AnalysisOptions {
	opts.MaxWorkers = n
	return opts
}
