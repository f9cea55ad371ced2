package images

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultQuality is the lossy encoder quality used when none is configured.
const DefaultQuality = 90

// EncodeOptions holds encoder parameters for the lossy formats.
type EncodeOptions struct {
	// Quality is the lossy quality (1-100) applied to JPEG and WebP outputs.
	Quality int
}

// FromBytes builds an Image from raw encoded bytes, sniffing the format and
// dimensions from the data header without decoding the full raster.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - *Image: The image with format and dimensions populated.
// - error: ErrDecode when no registered codec recognizes the data.
//
// @example
// img, err := FromBytes(jpegBytes)
func FromBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrDecode, "empty image data")
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	return &Image{
		Format: ImageFormat(name),
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// Decode decodes the image data into a raster image.
//
// Returns:
// - image.Image: The decoded raster.
// - error: ErrDecode when decoding fails.
//
// @example
// raster, err := img.Decode()
func (i *Image) Decode() (image.Image, error) {
	reader := bytes.NewReader(i.Data)

	// Decode based on format.
	var (
		decoded image.Image
		err     error
	)
	switch i.Format {
	case FormatJPEG:
		decoded, err = jpeg.Decode(reader)
	case FormatPNG:
		decoded, err = png.Decode(reader)
	case FormatGIF:
		decoded, err = gif.Decode(reader)
	case FormatBMP:
		decoded, err = bmp.Decode(reader)
	case FormatTIFF:
		decoded, err = tiff.Decode(reader)
	case FormatWebP:
		decoded, err = webp.Decode(reader)
	default:
		// Try auto-detection.
		decoded, _, err = image.Decode(reader)
	}
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	return decoded, nil
}

// Encode encodes a raster image in the given format.
//
// Arguments:
// - img: The raster image to encode.
// - format: The output format.
// - opts: Encoder parameters for the lossy formats.
//
// Returns:
// - []byte: The encoded image bytes.
// - error: An error if the format is unsupported or encoding fails.
//
// @example
// data, err := Encode(raster, FormatJPEG, EncodeOptions{Quality: 90})
func Encode(img image.Image, format ImageFormat, opts EncodeOptions) ([]byte, error) {
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, nil)
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)})
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s encoding failed", format)
	}

	return buf.Bytes(), nil
}
