package dataset

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/nvr-ai/go-imageprep/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTestImage(t *testing.T, path string, width, height int, c color.RGBA, format images.ImageFormat) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)

	data, err := images.Encode(img, format, images.EncodeOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func testConfig(t *testing.T) *Config {
	t.Helper()

	config := DefaultConfig()
	config.SourceDir = filepath.Join(t.TempDir(), "src")
	config.OutputDir = filepath.Join(t.TempDir(), "out")
	config.TargetSize = 64
	require.NoError(t, os.MkdirAll(config.SourceDir, 0o755))
	return config
}

func TestProcessorRun(t *testing.T) {
	config := testConfig(t)

	writeTestImage(t, filepath.Join(config.SourceDir, "a.png"), 100, 50, color.RGBA{R: 255, A: 255}, images.FormatPNG)
	writeTestImage(t, filepath.Join(config.SourceDir, "b.jpg"), 80, 80, color.RGBA{B: 255, A: 255}, images.FormatJPEG)
	writeTestImage(t, filepath.Join(config.SourceDir, "c.webp"), 30, 60, color.RGBA{G: 255, A: 255}, images.FormatWebP)
	require.NoError(t, os.WriteFile(filepath.Join(config.SourceDir, "corrupt.jpg"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(config.SourceDir, "notes.txt"), []byte("ignored"), 0o644))

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total, "the text file should never be enumerated")
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.RunID)

	// Every processed output lands on the square canvas in its own format.
	for _, tt := range []struct {
		name   string
		format images.ImageFormat
	}{
		{"a.png", images.FormatPNG},
		{"b.jpg", images.FormatJPEG},
		{"c.webp", images.FormatWebP},
	} {
		data, err := os.ReadFile(filepath.Join(config.OutputDir, tt.name))
		require.NoError(t, err, "output %s should exist", tt.name)

		img, err := images.FromBytes(data)
		require.NoError(t, err)
		assert.Equal(t, tt.format, img.Format, "output %s should keep its format", tt.name)
		assert.Equal(t, 64, img.Width)
		assert.Equal(t, 64, img.Height)
	}

	// The undecodable file is skipped, not written.
	_, err = os.Stat(filepath.Join(config.OutputDir, "corrupt.jpg"))
	assert.True(t, os.IsNotExist(err), "corrupt input should produce no output")

	// The wide PNG gets pad bands above and below the image.
	data, err := os.ReadFile(filepath.Join(config.OutputDir, "a.png"))
	require.NoError(t, err)
	img, err := images.FromBytes(data)
	require.NoError(t, err)
	raster, err := img.Decode()
	require.NoError(t, err)
	r, g, b, _ := raster.At(32, 0).RGBA()
	assert.Equal(t, uint32(114), r>>8, "top band should be pad color")
	assert.Equal(t, uint32(114), g>>8)
	assert.Equal(t, uint32(114), b>>8)
	r, _, _, _ = raster.At(32, 32).RGBA()
	assert.Equal(t, uint32(255), r>>8, "center should be image color")
}

func TestProcessorRunWritesManifest(t *testing.T) {
	config := testConfig(t)
	writeTestImage(t, filepath.Join(config.SourceDir, "a.png"), 40, 40, color.RGBA{R: 255, A: 255}, images.FormatPNG)

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	require.NoError(t, err)

	var manifest Report
	data, err := os.ReadFile(filepath.Join(config.OutputDir, ManifestName))
	require.NoError(t, err, "manifest should be written into the run folder")
	require.NoError(t, json.Unmarshal(data, &manifest))

	assert.Equal(t, report.RunID, manifest.RunID)
	assert.Equal(t, 1, manifest.Total)
	assert.Equal(t, 1, manifest.Processed)
	assert.Len(t, manifest.ChannelMean, 3)
	assert.Len(t, manifest.ChannelStd, 3)
	assert.Len(t, manifest.Files, 1)
	assert.Equal(t, ActionProcessed, manifest.Files[0].Action)
}

func TestProcessorRunManifestDisabled(t *testing.T) {
	config := testConfig(t)
	config.WriteManifest = false
	writeTestImage(t, filepath.Join(config.SourceDir, "a.png"), 40, 40, color.RGBA{R: 255, A: 255}, images.FormatPNG)

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	_, err = processor.Run()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(config.OutputDir, ManifestName))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessorRunTimestampedRuns(t *testing.T) {
	config := testConfig(t)
	config.TimestampRuns = true
	writeTestImage(t, filepath.Join(config.SourceDir, "a.png"), 40, 40, color.RGBA{R: 255, A: 255}, images.FormatPNG)

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	require.NoError(t, err)

	entries, err := os.ReadDir(config.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())
	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), entries[0].Name())
	assert.Equal(t, filepath.Join(config.OutputDir, entries[0].Name()), report.OutputDir)

	_, err = os.Stat(filepath.Join(report.OutputDir, "a.png"))
	assert.NoError(t, err, "output should land inside the run subfolder")
}

func TestProcessorRunEmptySource(t *testing.T) {
	config := testConfig(t)

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.ChannelMean, "no images means no channel statistics")
}

func TestProcessorRunMissingSource(t *testing.T) {
	config := testConfig(t)
	config.SourceDir = filepath.Join(config.SourceDir, "does-not-exist")

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	assert.ErrorIs(t, err, images.ErrInvalidConfig)
	assert.Nil(t, report)
}

func TestProcessorRunSourceIsFile(t *testing.T) {
	config := testConfig(t)
	path := filepath.Join(config.SourceDir, "file.png")
	writeTestImage(t, path, 10, 10, color.RGBA{A: 255}, images.FormatPNG)
	config.SourceDir = path

	processor, err := NewProcessor(config, zap.NewNop())
	require.NoError(t, err)

	report, err := processor.Run()
	assert.ErrorIs(t, err, images.ErrInvalidConfig)
	assert.Nil(t, report)
}

func TestNewProcessorInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.TargetSize = 0

	processor, err := NewProcessor(config, zap.NewNop())
	assert.ErrorIs(t, err, images.ErrInvalidConfig)
	assert.Nil(t, processor)
}

func TestNewProcessorNilLoggerDefaultsToNop(t *testing.T) {
	processor, err := NewProcessor(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, processor)
}
