package util

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/nvr-ai/go-imageprep/images"
)

// ImageFile represents an image file discovered in a source directory.
type ImageFile struct {
	// Path is the full path to the image file.
	Path string
	// Name is the base filename, preserved in the output directory.
	Name string
	// Format is the image format implied by the file extension.
	Format images.ImageFormat
}

// ListImageFiles returns the image files directly inside a directory.
// Subdirectories and files with unsupported extensions are skipped, and the
// result is sorted by filename so runs are deterministic.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile entries, one per recognized image.
// - error: Error if the directory cannot be read.
func ListImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		format, ok := images.FormatFromPath(entry.Name())
		if !ok {
			continue
		}

		files = append(files, ImageFile{
			Path:   filepath.Join(dir, entry.Name()),
			Name:   entry.Name(),
			Format: format,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
