package analyzer

import (
	"fmt"
	"image"
	"image/draw"

	apperrors "go-channel-histogram/internal/errors"
)

// Channel layouts a PixelBuffer may carry.
const (
	GrayChannels = 1
	RGBChannels  = 3
	RGBAChannels = 4
)

// PixelBuffer is the decoded raster data of an image: a height×width grid of
// 8-bit samples with 1 (grayscale), 3 (RGB) or 4 (RGBA) channels per pixel,
// stored row-major without padding. The buffer is an immutable input to the
// analyzer; the caller keeps ownership.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelBuffer wraps raw samples after validating the shape contract.
// A channel count outside {1, 3, 4} or a sample slice that does not match
// height*width*channels violates the contract and yields an invalid_input
// error.
func NewPixelBuffer(width, height, channels int, pix []uint8) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("negative image dimensions %dx%d", width, height), nil)
	}
	switch channels {
	case GrayChannels, RGBChannels, RGBAChannels:
	default:
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("unsupported channel count %d (want 1, 3 or 4)", channels), nil)
	}
	if want := width * height * channels; len(pix) != want {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("pixel data length %d does not match %dx%d with %d channels",
				len(pix), width, height, channels), nil)
	}
	return &PixelBuffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// TotalPixels is height*width, independent of the channel count.
func (b *PixelBuffer) TotalPixels() int {
	if b == nil {
		return 0
	}
	return b.Width * b.Height
}

// Sample returns the channel samples of the pixel at (x, y).
func (b *PixelBuffer) Sample(x, y int) []uint8 {
	off := (y*b.Width + x) * b.Channels
	return b.Pix[off : off+b.Channels]
}

// BufferFromImage converts a decoded image into a PixelBuffer. Grayscale
// sources keep their single channel; everything else becomes a 4-channel
// RGBA buffer with non-premultiplied samples, so the alpha channel can be
// ignored without distorting the color samples. A nil image yields a nil
// buffer.
func BufferFromImage(img image.Image) *PixelBuffer {
	if img == nil {
		return nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		pix := make([]uint8, width*height)
		for y := 0; y < height; y++ {
			src := gray.Pix[y*gray.Stride : y*gray.Stride+width]
			copy(pix[y*width:], src)
		}
		return &PixelBuffer{Width: width, Height: height, Channels: GrayChannels, Pix: pix}
	}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		return &PixelBuffer{Width: width, Height: height, Channels: RGBAChannels, Pix: nrgba.Pix}
	}

	// Generic path: draw into an NRGBA canvas to un-premultiply and
	// normalize the layout.
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &PixelBuffer{Width: width, Height: height, Channels: RGBAChannels, Pix: dst.Pix}
}

// rgbAt reads the red, green and blue samples of the pixel starting at
// offset off, replicating the single channel for grayscale buffers. Alpha,
// when present, is skipped.
func (b *PixelBuffer) rgbAt(off int) (r, g, bl uint8) {
	if b.Channels == GrayChannels {
		v := b.Pix[off]
		return v, v, v
	}
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2]
}
