// Command validate is the batch delivery form of the validator: it scans a
// folder of CSV submissions, validates each against the active template, and
// writes JSON, text and HTML reports for every file plus a run summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/batch"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/config"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/logging"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override the environment for ad-hoc runs.
	inputDir := flag.String("input", cfg.Batch.InputDir, "directory scanned for *.csv files")
	outputDir := flag.String("output", cfg.Batch.OutputDir, "directory receiving reports")
	templatePath := flag.String("template", cfg.Template.Path, "external template JSON (empty = embedded default)")
	workers := flag.Int("workers", cfg.Batch.Workers, "files validated in parallel")
	flag.Parse()

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	tpl, err := template.Load(*templatePath)
	if err != nil {
		slog.Error("failed to load template", "error", err)
		os.Exit(1)
	}

	slog.Info("template loaded",
		"source", tpl.Source,
		"version", tpl.Version,
		"columns", len(tpl.Columns),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &batch.Runner{
		Template:  tpl,
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Workers:   *workers,
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		slog.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d file(s): %d passed, %d with warnings, %d failed, %d unprocessable\n",
		summary.TotalFiles, summary.Passed, summary.Warned, summary.Failed, summary.Unprocessable)
	fmt.Printf("Reports written to %s\n", *outputDir)

	// Non-zero exit when anything blocked submission, for scripting.
	if summary.Failed > 0 || summary.Unprocessable > 0 {
		os.Exit(2)
	}
}
