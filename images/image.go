// Package images - image values, codecs, and the square letterbox transform
// used to prepare training datasets.
package images

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors reported by this package.
var (
	// ErrDecode indicates image data that no registered codec could decode.
	ErrDecode = errors.New("undecodable image data")
	// ErrInvalidConfig indicates an unusable processing configuration.
	ErrInvalidConfig = errors.New("invalid processing configuration")
)

// Image represents an image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// ImageFormat represents supported image formats.
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatGIF is the GIF image format.
	FormatGIF ImageFormat = "gif"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
	// FormatTIFF is the TIFF image format.
	FormatTIFF ImageFormat = "tiff"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
)

// formatExtensions maps lowercase file extensions to image formats.
var formatExtensions = map[string]ImageFormat{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

// FormatFromPath maps a file path to its image format by extension.
//
// Arguments:
// - path: The file path or name to inspect.
//
// Returns:
// - ImageFormat: The format implied by the extension.
// - bool: False when the extension is not a supported image format.
//
// @example
// format, ok := FormatFromPath("frame-001.JPG") // FormatJPEG, true
func FormatFromPath(path string) (ImageFormat, bool) {
	format, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]
	return format, ok
}
