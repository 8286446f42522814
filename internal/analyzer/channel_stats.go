package analyzer

import (
	"gonum.org/v1/gonum/stat"
)

// balanceCalculator implements BalanceCalculator using Gonum for the
// aggregation step.
type balanceCalculator struct{}

// NewBalanceCalculator creates a calculator for per-channel means.
func NewBalanceCalculator() BalanceCalculator {
	return &balanceCalculator{}
}

// ChannelBalance returns the mean red, green and blue sample values on a
// 0-1 scale. Rows are averaged first and then combined with stat.Mean;
// every row has the same width, so the row means carry equal weight.
func (bc *balanceCalculator) ChannelBalance(buf *PixelBuffer) [3]float64 {
	if buf == nil || buf.TotalPixels() == 0 {
		return [3]float64{}
	}

	rowMeansR := make([]float64, buf.Height)
	rowMeansG := make([]float64, buf.Height)
	rowMeansB := make([]float64, buf.Height)

	stride := buf.Width * buf.Channels
	rowPixels := float64(buf.Width)

	for y := 0; y < buf.Height; y++ {
		row := buf.Pix[y*stride : (y+1)*stride]
		var sumR, sumG, sumB float64
		for off := 0; off < len(row); off += buf.Channels {
			r, g, b := buf.rgbAt(y*stride + off)
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(b)
		}
		rowMeansR[y] = sumR / rowPixels
		rowMeansG[y] = sumG / rowPixels
		rowMeansB[y] = sumB / rowPixels
	}

	return [3]float64{
		stat.Mean(rowMeansR, nil) / 255.0,
		stat.Mean(rowMeansG, nil) / 255.0,
		stat.Mean(rowMeansB, nil) / 255.0,
	}
}
