package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nvr-ai/go-imageprep/dataset"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// All behavior comes from built-in defaults plus IMAGEPREP_* environment
	// variables (or a .env file); the binary takes no arguments.
	config, err := dataset.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(config.LogLevel)
	defer func() { _ = logger.Sync() }()

	fmt.Printf("\n🚀 Dataset Image Prep Started\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("⚙️  Configuration:\n")
	fmt.Printf("   📂 Source directory: %s\n", config.SourceDir)
	fmt.Printf("   💾 Output directory: %s\n", config.OutputDir)
	fmt.Printf("   📏 Target size: %dx%d\n", config.TargetSize, config.TargetSize)
	fmt.Printf("   🎨 Pad color: %s\n", config.PadColor)
	fmt.Printf("   🖼️  Encoder quality: %d\n", config.Quality)
	fmt.Printf("   📅 Timestamped runs: %t\n", config.TimestampRuns)
	fmt.Printf("   📊 Manifest: %t\n", config.WriteManifest)
	fmt.Printf("=====================================\n\n")

	processor, err := dataset.NewProcessor(config, logger)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	report, err := processor.Run()
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("\n✅ Run %s complete\n", report.RunID)
	fmt.Printf("   🖼️  Processed: %d/%d\n", report.Processed, report.Total)
	if report.Failed > 0 {
		fmt.Printf("   ❌ Skipped: %d\n", report.Failed)
	}
	fmt.Printf("   ⏱️  Duration: %v\n", report.TotalDuration)
	if len(report.ChannelMean) == 3 {
		fmt.Printf("   📊 Channel mean (RGB): %.2f %.2f %.2f\n",
			report.ChannelMean[0], report.ChannelMean[1], report.ChannelMean[2])
		fmt.Printf("   📊 Channel std (RGB):  %.2f %.2f %.2f\n",
			report.ChannelStd[0], report.ChannelStd[1], report.ChannelStd[2])
	}
}

// newLogger builds the console logger for the CLI.
func newLogger(level string) *zap.Logger {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "info":
		lvl = zapcore.InfoLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), lvl)
	return zap.New(core)
}
