package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-imageprep/images"
)

// ManifestName is the filename of the per-run JSON report.
const ManifestName = "manifest.json"

// FileAction describes the outcome of one source file.
type FileAction string

const (
	// ActionProcessed means the file was transformed and written.
	ActionProcessed FileAction = "processed"
	// ActionFailed means the file was skipped after an error.
	ActionFailed FileAction = "failed"
)

// FileResult records the outcome of processing a single source image.
type FileResult struct {
	Input        string        `json:"input"`
	Output       string        `json:"output,omitempty"`
	Action       FileAction    `json:"action"`
	Error        string        `json:"error,omitempty"`
	SourceWidth  int           `json:"source_width,omitempty"`
	SourceHeight int           `json:"source_height,omitempty"`
	InputBytes   int64         `json:"input_bytes,omitempty"`
	OutputBytes  int64         `json:"output_bytes,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Report captures the outcome of one batch run.
type Report struct {
	RunID         string        `json:"run_id"`
	SourceDir     string        `json:"source_dir"`
	OutputDir     string        `json:"output_dir"`
	TargetSize    int           `json:"target_size"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	TotalDuration time.Duration `json:"total_duration"`
	Total         int           `json:"total"`
	Processed     int           `json:"processed"`
	Failed        int           `json:"failed"`
	ChannelMean   []float32     `json:"channel_mean,omitempty"`
	ChannelStd    []float32     `json:"channel_std,omitempty"`
	Files         []FileResult  `json:"files"`
}

// NewReport starts a report for one run of the given configuration.
func NewReport(config *Config, outputDir string) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		SourceDir:  config.SourceDir,
		OutputDir:  outputDir,
		TargetSize: config.TargetSize,
		StartedAt:  time.Now(),
	}
}

// Add folds one file outcome into the totals.
func (r *Report) Add(result FileResult) {
	r.Files = append(r.Files, result)
	r.Total++
	switch result.Action {
	case ActionProcessed:
		r.Processed++
	case ActionFailed:
		r.Failed++
	}
}

// Finish stamps the end of the run and the dataset channel statistics.
func (r *Report) Finish(stats *images.ChannelStats) {
	r.FinishedAt = time.Now()
	r.TotalDuration = r.FinishedAt.Sub(r.StartedAt)
	if stats != nil && stats.Images() > 0 {
		r.ChannelMean = stats.Mean()
		r.ChannelStd = stats.Std()
	}
}

// WriteManifest writes the report as indented JSON into the run folder.
//
// Arguments:
// - dir: The run output directory.
//
// Returns:
// - string: The manifest path.
// - error: An error if marshaling or writing fails.
func (r *Report) WriteManifest(dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}
