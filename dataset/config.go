// Package dataset - batch driver that letterboxes a folder of images into a
// training dataset layout.
package dataset

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nvr-ai/go-imageprep/images"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor a .env file overrides
// them.
const (
	// DefaultSourceDir is the folder scanned for input images.
	DefaultSourceDir = "input_images"
	// DefaultOutputDir is the folder processed images are written to.
	DefaultOutputDir = "dataset"
	// DefaultTargetSize is the edge length of the square output canvas.
	DefaultTargetSize = 640
	// DefaultPadColor is the canvas fill as an R,G,B triple.
	DefaultPadColor = "114,114,114"

	// envPrefix namespaces every environment variable read by LoadConfig.
	envPrefix = "IMAGEPREP"
)

// Config holds the batch processor configuration.
type Config struct {
	// SourceDir is the folder scanned for input images.
	SourceDir string `mapstructure:"source_dir"`
	// OutputDir is the folder processed images are written to.
	OutputDir string `mapstructure:"output_dir"`
	// TargetSize is the edge length of the square output canvas.
	TargetSize int `mapstructure:"target_size"`
	// PadColor is the canvas fill behind non-square images as "R,G,B".
	PadColor string `mapstructure:"pad_color"`
	// Quality is the lossy encoder quality for JPEG and WebP outputs.
	Quality int `mapstructure:"quality"`
	// TimestampRuns writes each run into a timestamped subfolder of OutputDir.
	TimestampRuns bool `mapstructure:"timestamp_runs"`
	// WriteManifest writes a manifest.json report into the run folder.
	WriteManifest bool `mapstructure:"write_manifest"`
	// LogLevel is the level for operational logging.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in configuration used when nothing is
// overridden.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:     DefaultSourceDir,
		OutputDir:     DefaultOutputDir,
		TargetSize:    DefaultTargetSize,
		PadColor:      DefaultPadColor,
		Quality:       images.DefaultQuality,
		TimestampRuns: false,
		WriteManifest: true,
		LogLevel:      "info",
	}
}

// LoadConfig loads the processor configuration from built-in defaults, an
// optional .env file, and IMAGEPREP_* environment variables.
//
// Returns:
// - *Config: The validated configuration.
// - error: An error when the environment cannot be decoded or validation
//   fails.
func LoadConfig() (*Config, error) {
	// A .env file is optional; the environment alone is enough.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("source_dir")
	viper.BindEnv("output_dir")
	viper.BindEnv("target_size")
	viper.BindEnv("pad_color")
	viper.BindEnv("quality")
	viper.BindEnv("timestamp_runs")
	viper.BindEnv("write_manifest")
	viper.BindEnv("log_level")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults seeds viper with the built-in configuration.
func setDefaults() {
	viper.SetDefault("source_dir", DefaultSourceDir)
	viper.SetDefault("output_dir", DefaultOutputDir)
	viper.SetDefault("target_size", DefaultTargetSize)
	viper.SetDefault("pad_color", DefaultPadColor)
	viper.SetDefault("quality", images.DefaultQuality)
	viper.SetDefault("timestamp_runs", false)
	viper.SetDefault("write_manifest", true)
	viper.SetDefault("log_level", "info")
}

// Validate checks the configuration shape before any processing starts.
//
// Returns:
// - error: images.ErrInvalidConfig (wrapped) naming the first unusable
//   field, nil when the configuration is usable.
func (c *Config) Validate() error {
	if c.TargetSize <= 0 {
		return errors.Wrapf(images.ErrInvalidConfig, "target size %d", c.TargetSize)
	}
	if strings.TrimSpace(c.SourceDir) == "" {
		return errors.Wrap(images.ErrInvalidConfig, "source directory is empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.Wrap(images.ErrInvalidConfig, "output directory is empty")
	}
	if c.Quality < 0 || c.Quality > 100 {
		return errors.Wrapf(images.ErrInvalidConfig, "quality %d", c.Quality)
	}
	if _, err := c.PadRGBA(); err != nil {
		return err
	}
	return nil
}

// PadRGBA parses the configured pad color triple.
//
// Returns:
// - color.RGBA: The opaque canvas fill.
// - error: images.ErrInvalidConfig (wrapped) when the triple does not parse.
//
// @example
// pad, err := config.PadRGBA() // "114,114,114" -> color.RGBA{114, 114, 114, 255}
func (c *Config) PadRGBA() (color.RGBA, error) {
	parts := strings.Split(c.PadColor, ",")
	if len(parts) != 3 {
		return color.RGBA{}, errors.Wrapf(images.ErrInvalidConfig, "pad color %q", c.PadColor)
	}

	var channels [3]uint8
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, errors.Wrapf(images.ErrInvalidConfig, "pad color %q", c.PadColor)
		}
		channels[i] = uint8(v)
	}

	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}
