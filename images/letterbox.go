package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// DefaultPadColor is the canvas fill used when no pad color is configured.
// The 114 gray is the letterbox color YOLO-family training pipelines expect.
var DefaultPadColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// LetterboxOptions configures the square resize-and-pad transform.
type LetterboxOptions struct {
	// Size is the edge length of the square output canvas.
	Size int
	// Pad is the canvas fill behind non-square images (default DefaultPadColor).
	Pad color.Color
}

// Letterbox scales an image to fit a square canvas while preserving its
// aspect ratio, centering it over a uniform pad color.
//
// The scale factor is Size divided by the larger source dimension, so the
// scaled image always spans the canvas along one axis. Square inputs come
// back as a plain resize with no padding.
//
// Arguments:
// - img: The source image.
// - opts: The canvas size and pad color.
//
// Returns:
// - image.Image: The Size x Size output image.
// - error: ErrInvalidConfig for a non-positive size, or a validation error
//   for an unusable source image.
//
// @example
// out, err := Letterbox(src, LetterboxOptions{Size: 640})
func Letterbox(img image.Image, opts LetterboxOptions) (image.Image, error) {
	if opts.Size <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "target size %d", opts.Size)
	}
	if img == nil {
		return nil, errors.New("image is nil")
	}

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth <= 0 || srcHeight <= 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", srcWidth, srcHeight)
	}

	size := opts.Size
	pad := opts.Pad
	if pad == nil {
		pad = DefaultPadColor
	}

	// Early return if no resizing needed (idempotency optimization).
	if srcWidth == size && srcHeight == size {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst, nil
	}

	// Scale by the larger dimension so the result fits the canvas.
	scale := float64(size) / math.Max(float64(srcWidth), float64(srcHeight))
	newWidth := int(math.Round(float64(srcWidth) * scale))
	newHeight := int(math.Round(float64(srcHeight) * scale))

	// Extreme aspect ratios can round the thin dimension away entirely.
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := resize.Resize(uint(newWidth), uint(newHeight), img, resize.Lanczos3)

	// Square inputs fill the canvas and need no padding.
	if newWidth == size && newHeight == size {
		return resized, nil
	}

	// Calculate padding.
	padLeft := (size - newWidth) / 2
	padTop := (size - newHeight) / 2

	// Create the letterboxed image.
	letterboxed := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(letterboxed, letterboxed.Bounds(), &image.Uniform{pad}, image.Point{}, draw.Src)
	draw.Draw(letterboxed, image.Rect(padLeft, padTop, padLeft+newWidth, padTop+newHeight),
		resized, image.Point{}, draw.Over)

	return letterboxed, nil
}
