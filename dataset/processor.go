package dataset

import (
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-imageprep/images"
	"github.com/nvr-ai/go-imageprep/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RunTimestampLayout shapes the per-run subfolder name when timestamped
// runs are enabled.
const RunTimestampLayout = "20060102150405"

// Processor walks a source folder and letterboxes every image into the
// output folder, one file at a time.
type Processor struct {
	config *Config
	logger *zap.Logger
	pad    color.RGBA
}

// NewProcessor creates a processor for the given configuration.
//
// Arguments:
// - config: The batch configuration.
// - logger: The operational logger (nil falls back to a no-op logger).
//
// Returns:
// - *Processor: The configured processor.
// - error: images.ErrInvalidConfig (wrapped) when the configuration is
//   unusable.
//
// @example
// processor, err := NewProcessor(DefaultConfig(), logger)
func NewProcessor(config *Config, logger *zap.Logger) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pad, err := config.PadRGBA()
	if err != nil {
		return nil, err
	}

	return &Processor{
		config: config,
		logger: logger,
		pad:    pad,
	}, nil
}

// Run processes every image in the source folder sequentially and returns
// the run report. Files that fail to read, decode, or write are logged and
// skipped; only setup failures abort the run.
//
// Returns:
// - *Report: The per-run report with one entry per source image.
// - error: images.ErrInvalidConfig (wrapped) for an unresolvable source
//   folder, or an error when the output folder cannot be created.
func (p *Processor) Run() (*Report, error) {
	info, err := os.Stat(p.config.SourceDir)
	if err != nil {
		return nil, errors.Wrapf(images.ErrInvalidConfig, "source directory %q: %v", p.config.SourceDir, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(images.ErrInvalidConfig, "source path %q is not a directory", p.config.SourceDir)
	}

	outputDir := p.config.OutputDir
	if p.config.TimestampRuns {
		outputDir = filepath.Join(outputDir, time.Now().Format(RunTimestampLayout))
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %q", outputDir)
	}

	files, err := util.ListImageFiles(p.config.SourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing source directory %q", p.config.SourceDir)
	}

	p.logger.Info("starting run",
		zap.String("source_dir", p.config.SourceDir),
		zap.String("output_dir", outputDir),
		zap.Int("target_size", p.config.TargetSize),
		zap.Int("files", len(files)),
	)

	report := NewReport(p.config, outputDir)
	stats := images.NewChannelStats()

	// One file at a time: a failed file is recorded and skipped, never
	// aborting the batch.
	for _, file := range files {
		result := p.processFile(file, outputDir, stats)
		report.Add(result)

		if result.Action == ActionFailed {
			p.logger.Warn("skipping image",
				zap.String("file", file.Path),
				zap.String("reason", result.Error),
			)
			continue
		}

		p.logger.Debug("processed image",
			zap.String("file", file.Path),
			zap.Int("source_width", result.SourceWidth),
			zap.Int("source_height", result.SourceHeight),
			zap.Duration("duration", result.Duration),
		)
	}

	report.Finish(stats)

	if p.config.WriteManifest {
		path, err := report.WriteManifest(outputDir)
		if err != nil {
			p.logger.Warn("writing manifest failed", zap.Error(err))
		} else {
			p.logger.Info("manifest written", zap.String("path", path))
		}
	}

	p.logger.Info("run complete",
		zap.String("run_id", report.RunID),
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.TotalDuration),
	)

	return report, nil
}

// processFile runs the read, decode, letterbox, encode, write pipeline for
// one source image.
func (p *Processor) processFile(file util.ImageFile, outputDir string, stats *images.ChannelStats) FileResult {
	start := time.Now()
	result := FileResult{Input: file.Path, Action: ActionFailed}

	fail := func(err error) FileResult {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return fail(err)
	}
	result.InputBytes = int64(len(data))

	src, err := images.FromBytes(data)
	if err != nil {
		return fail(err)
	}
	result.SourceWidth = src.Width
	result.SourceHeight = src.Height

	raster, err := src.Decode()
	if err != nil {
		return fail(err)
	}

	letterboxed, err := images.Letterbox(raster, images.LetterboxOptions{
		Size: p.config.TargetSize,
		Pad:  p.pad,
	})
	if err != nil {
		return fail(err)
	}

	stats.Accumulate(letterboxed)

	// Re-encode in the sniffed input format so the preserved filename keeps
	// matching its contents.
	encoded, err := images.Encode(letterboxed, src.Format, images.EncodeOptions{Quality: p.config.Quality})
	if err != nil {
		return fail(err)
	}

	outputPath := filepath.Join(outputDir, file.Name)
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fail(err)
	}

	result.Action = ActionProcessed
	result.Output = outputPath
	result.OutputBytes = int64(len(encoded))
	result.Duration = time.Since(start)
	return result
}
