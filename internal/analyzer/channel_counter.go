package analyzer

import (
	"runtime"
	"sync"
)

// channelCounter implements ChannelCounter with parallel row strips.
type channelCounter struct {
	maxWorkers int
}

// NewChannelCounter creates a counter. maxWorkers caps the strip
// parallelism; zero means one strip per CPU.
func NewChannelCounter(maxWorkers int) ChannelCounter {
	return &channelCounter{maxWorkers: maxWorkers}
}

// CountBright counts, independently per channel, the pixels whose channel
// sample is strictly greater than threshold. Grayscale buffers replicate
// their single channel, so red, green and blue counts come out equal. The
// alpha channel of RGBA buffers is ignored.
func (cc *channelCounter) CountBright(buf *PixelBuffer, threshold uint8) ChannelCounts {
	if buf == nil || buf.TotalPixels() == 0 {
		return ChannelCounts{}
	}

	height := buf.Height
	numWorkers := cc.maxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	type stripCounts struct {
		red, green, blue int
	}

	results := make(chan stripCounts, numWorkers)
	var wg sync.WaitGroup

	// Process the buffer in horizontal strips for cache locality.
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()

			var counts stripCounts
			stride := buf.Width * buf.Channels
			for y := startY; y < endY; y++ {
				row := buf.Pix[y*stride : (y+1)*stride]
				for off := 0; off < len(row); off += buf.Channels {
					if buf.Channels == GrayChannels {
						if row[off] > threshold {
							counts.red++
							counts.green++
							counts.blue++
						}
						continue
					}
					if row[off] > threshold {
						counts.red++
					}
					if row[off+1] > threshold {
						counts.green++
					}
					if row[off+2] > threshold {
						counts.blue++
					}
				}
			}
			results <- counts
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	total := ChannelCounts{TotalPixels: buf.TotalPixels()}
	for strip := range results {
		total.Red += strip.red
		total.Green += strip.green
		total.Blue += strip.blue
	}
	return total
}
