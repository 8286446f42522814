// Package preview scales decoded images to fit a display box while keeping
// the aspect ratio, the way the viewer canvas shows the current image.
package preview

import (
	"image"

	"github.com/nfnt/resize"

	apperrors "go-channel-histogram/internal/errors"
)

// Fit scales img so it fits inside maxWidth×maxHeight with its aspect ratio
// preserved. Images smaller than the box are scaled up to fill it, matching
// the original viewer behavior. Lanczos resampling throughout.
func Fit(img image.Image, maxWidth, maxHeight int) (image.Image, error) {
	if img == nil {
		return nil, apperrors.NewValidationError("no image to scale", nil)
	}
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, apperrors.NewValidationError("preview box dimensions must be positive", nil)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return img, nil
	}

	ratio := float64(maxWidth) / float64(srcW)
	if r := float64(maxHeight) / float64(srcH); r < ratio {
		ratio = r
	}

	newW := int(float64(srcW) * ratio)
	newH := int(float64(srcH) * ratio)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3), nil
}
