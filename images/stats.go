package images

import (
	"image"

	"github.com/chewxy/math32"
)

// ChannelStats accumulates running per-channel pixel statistics across
// processed images. The mean and standard deviation it reports are the
// normalization constants downstream training configurations consume.
type ChannelStats struct {
	pixels int64
	images int
	sum    [3]float64
	sumSq  [3]float64
}

// NewChannelStats creates an empty accumulator.
func NewChannelStats() *ChannelStats {
	return &ChannelStats{}
}

// Accumulate folds an image's RGB pixels into the running statistics.
//
// Arguments:
// - img: The image to accumulate.
//
// @example
// stats.Accumulate(letterboxed)
func (s *ChannelStats) Accumulate(img image.Image) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()

			// Convert from uint32 to the 0-255 scale.
			r8 := float64(r >> 8)
			g8 := float64(g >> 8)
			b8 := float64(b >> 8)

			s.sum[0] += r8
			s.sum[1] += g8
			s.sum[2] += b8
			s.sumSq[0] += r8 * r8
			s.sumSq[1] += g8 * g8
			s.sumSq[2] += b8 * b8
		}
	}
	s.pixels += int64(bounds.Dx()) * int64(bounds.Dy())
	s.images++
}

// Images returns the number of accumulated images.
func (s *ChannelStats) Images() int {
	return s.images
}

// Mean returns the per-channel pixel mean in RGB order on the 0-255 scale.
func (s *ChannelStats) Mean() []float32 {
	out := make([]float32, 3)
	if s.pixels == 0 {
		return out
	}
	for c := 0; c < 3; c++ {
		out[c] = float32(s.sum[c] / float64(s.pixels))
	}
	return out
}

// Std returns the per-channel standard deviation in RGB order on the 0-255
// scale.
func (s *ChannelStats) Std() []float32 {
	out := make([]float32, 3)
	if s.pixels == 0 {
		return out
	}
	for c := 0; c < 3; c++ {
		mean := s.sum[c] / float64(s.pixels)
		variance := s.sumSq[c]/float64(s.pixels) - mean*mean
		if variance < 0 {
			variance = 0
		}
		out[c] = math32.Sqrt(float32(variance))
	}
	return out
}
