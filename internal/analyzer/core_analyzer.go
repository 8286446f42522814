package analyzer

import (
	"image"
	"time"
)

// coreAnalyzer implements BrightnessAnalyzer by composing the channel
// counter, the balance calculator and the worker pool.
type coreAnalyzer struct {
	workerPool *WorkerPool
	counter    ChannelCounter
	balance    BalanceCalculator
}

// NewBrightnessAnalyzer creates an analyzer with a started worker pool.
func NewBrightnessAnalyzer() (BrightnessAnalyzer, error) {
	workerPool := NewWorkerPool(0)
	workerPool.Start()

	return &coreAnalyzer{
		workerPool: workerPool,
		counter:    NewChannelCounter(0),
		balance:    NewBalanceCalculator(),
	}, nil
}

// Analyze runs with default options.
func (ca *coreAnalyzer) Analyze(img image.Image) AnalysisResult {
	return ca.AnalyzeWithOptions(img, DefaultOptions())
}

// AnalyzeWithOptions converts the image into a pixel buffer and tallies the
// bright pixels per channel. A nil image produces the defined zero result.
func (ca *coreAnalyzer) AnalyzeWithOptions(img image.Image, options AnalysisOptions) AnalysisResult {
	start := time.Now()

	result := AnalysisResult{
		Timestamp: start,
		Threshold: options.Threshold,
	}

	buf := BufferFromImage(img)
	if buf == nil {
		result.ProcessingTimeSec = time.Since(start).Seconds()
		return result
	}

	result.Width = buf.Width
	result.Height = buf.Height

	counter := ca.counter
	if options.MaxWorkers > 0 {
		counter = NewChannelCounter(options.MaxWorkers)
	}
	result.Counts = counter.CountBright(buf, options.Threshold)
	result.Percentages = result.Counts.Percentages()

	if options.ComputeChannelBalance {
		balance := ca.balance.ChannelBalance(buf)
		result.ChannelBalance = &balance
	}

	result.ProcessingTimeSec = time.Since(start).Seconds()
	return result
}

// AnalyzeBuffer counts directly on a raw buffer. The shape contract is
// re-checked here because raw buffers are the one entry point a caller can
// get wrong.
func (ca *coreAnalyzer) AnalyzeBuffer(buf *PixelBuffer, options AnalysisOptions) (ChannelCounts, error) {
	if buf == nil {
		return ChannelCounts{}, nil
	}
	validated, err := NewPixelBuffer(buf.Width, buf.Height, buf.Channels, buf.Pix)
	if err != nil {
		return ChannelCounts{}, err
	}
	counter := ca.counter
	if options.MaxWorkers > 0 {
		counter = NewChannelCounter(options.MaxWorkers)
	}
	return counter.CountBright(validated, options.Threshold), nil
}

// AnalyzeAll fans a batch out over the worker pool and preserves input
// order.
func (ca *coreAnalyzer) AnalyzeAll(imgs []image.Image, options AnalysisOptions) []AnalysisResult {
	results := make([]AnalysisResult, len(imgs))
	for i, img := range imgs {
		i, img := i, img
		ca.workerPool.Submit(func() {
			results[i] = ca.AnalyzeWithOptions(img, options)
		})
	}
	ca.workerPool.Wait()
	return results
}

// Close shuts down the worker pool.
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}
